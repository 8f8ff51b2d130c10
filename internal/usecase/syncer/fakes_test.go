//go:build unit

package syncer_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/domain/property"
	"stayledger/internal/infra"
	"stayledger/internal/usecase/readmodel"
	"stayledger/internal/usecase/shared"
)

var errDown = errors.New("connection refused")

type fakeLedger struct {
	mu         sync.Mutex
	head       int64
	events     []ledgerevent.Event
	bookings   map[int64]*booking.Booking
	properties map[string]*property.Property
	headErr    error
	queryErr   error
	// queryGate, when set, blocks QueryEvents until closed; queryEntered
	// is signalled on entry.
	queryGate    chan struct{}
	queryEntered chan struct{}
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		bookings:   map[int64]*booking.Booking{},
		properties: map[string]*property.Property{},
	}
}

func (l *fakeLedger) append(events ...ledgerevent.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, events...)
	for _, e := range events {
		if e.Height > l.head {
			l.head = e.Height
		}
	}
}

func (l *fakeLedger) putBooking(b *booking.Booking) {
	l.mu.Lock()
	l.bookings[b.ID()] = b
	l.mu.Unlock()
}

func (l *fakeLedger) putProperty(p *property.Property) {
	l.mu.Lock()
	l.properties[p.ID()] = p
	l.mu.Unlock()
}

func (l *fakeLedger) CurrentHeight(context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.headErr != nil {
		return 0, infra.WrapRepoErr("head", l.headErr, infra.KindUnavailable)
	}
	return l.head, nil
}

func (l *fakeLedger) QueryEvents(ctx context.Context, from, to int64) ([]ledgerevent.Event, error) {
	l.mu.Lock()
	gate, entered := l.queryGate, l.queryEntered
	l.mu.Unlock()
	if gate != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.queryErr != nil {
		return nil, infra.WrapRepoErr("query", l.queryErr, infra.KindUnavailable)
	}
	var out []ledgerevent.Event
	// Return the range newest first so the engine has to sort it.
	for i := len(l.events) - 1; i >= 0; i-- {
		e := l.events[i]
		if e.Height >= from && e.Height <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (l *fakeLedger) ReadBooking(_ context.Context, id int64) (*shared.BookingSnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return &shared.BookingSnapshot{Booking: b, AsOfHeight: l.head}, nil
}

func (l *fakeLedger) ReadProperty(_ context.Context, id string) (*shared.PropertySnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.properties[id]
	if !ok {
		return nil, infra.WrapRepoErr("property not found", nil, infra.KindNotFound)
	}
	return &shared.PropertySnapshot{Property: p, AsOfHeight: l.head}, nil
}

func (l *fakeLedger) ListBookingIDs(_ context.Context, scope shared.Scope) ([]int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.queryErr != nil {
		return nil, infra.WrapRepoErr("list", l.queryErr, infra.KindUnavailable)
	}
	var ids []int64
	for id, b := range l.bookings {
		switch scope.Kind {
		case shared.ScopeProperty:
			if b.PropertyID() != scope.PropertyID {
				continue
			}
		case shared.ScopeGuest:
			if !b.Guest().Equal(scope.Party) {
				continue
			}
		case shared.ScopeHost:
			if !b.Host().Equal(scope.Party) {
				continue
			}
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (l *fakeLedger) ListPropertyIDs(_ context.Context, scope shared.Scope) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.queryErr != nil {
		return nil, infra.WrapRepoErr("list", l.queryErr, infra.KindUnavailable)
	}
	var ids []string
	for id, p := range l.properties {
		switch scope.Kind {
		case shared.ScopeProperty:
			if id != scope.PropertyID {
				continue
			}
		case shared.ScopeHost:
			if !p.Host().Equal(scope.Party) {
				continue
			}
		case shared.ScopeGuest:
			if !l.guestStayedAt(scope.Party, id) {
				continue
			}
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (l *fakeLedger) guestStayedAt(guest booking.Address, propertyID string) bool {
	for _, b := range l.bookings {
		if b.PropertyID() == propertyID && b.Guest().Equal(guest) {
			return true
		}
	}
	return false
}

// fakeProjection applies the same position guard as the SQLite store.
type fakeProjection struct {
	mu         sync.Mutex
	bookings   map[int64]readmodel.BookingRM
	properties map[string]readmodel.PropertyRM
	upsertErr  error
	writes     int
}

func newFakeProjection() *fakeProjection {
	return &fakeProjection{
		bookings:   map[int64]readmodel.BookingRM{},
		properties: map[string]readmodel.PropertyRM{},
	}
}

func (p *fakeProjection) UpsertBooking(_ context.Context, rec readmodel.BookingRM) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.upsertErr != nil {
		return false, infra.WrapRepoErr("upsert", p.upsertErr, infra.KindUnavailable)
	}
	if cur, ok := p.bookings[rec.LedgerID]; ok && !cur.Position().Less(rec.Position()) {
		return false, nil
	}
	p.bookings[rec.LedgerID] = rec
	p.writes++
	return true, nil
}

func (p *fakeProjection) FindBookingByLedgerID(_ context.Context, id int64) (*readmodel.BookingRM, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("not found", nil, infra.KindNotFound)
	}
	return &rec, nil
}

func (p *fakeProjection) UpsertProperty(_ context.Context, rec readmodel.PropertyRM) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.upsertErr != nil {
		return false, infra.WrapRepoErr("upsert", p.upsertErr, infra.KindUnavailable)
	}
	if cur, ok := p.properties[rec.LedgerID]; ok && !cur.Position().Less(rec.Position()) {
		return false, nil
	}
	p.properties[rec.LedgerID] = rec
	p.writes++
	return true, nil
}

func (p *fakeProjection) FindPropertyByLedgerID(_ context.Context, id string) (*readmodel.PropertyRM, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.properties[id]
	if !ok {
		return nil, infra.WrapRepoErr("not found", nil, infra.KindNotFound)
	}
	return &rec, nil
}

func (p *fakeProjection) booking(id int64) (readmodel.BookingRM, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.bookings[id]
	return rec, ok
}

func (p *fakeProjection) bookingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.bookings)
}

func (p *fakeProjection) setUpsertErr(err error) {
	p.mu.Lock()
	p.upsertErr = err
	p.mu.Unlock()
}

type fakeState struct {
	mu        sync.Mutex
	cursors   map[string]int64
	processed map[string]readmodel.ProcessedEventRM
	cursorErr error
}

func newFakeState() *fakeState {
	return &fakeState{cursors: map[string]int64{}, processed: map[string]readmodel.ProcessedEventRM{}}
}

func (s *fakeState) Cursor(_ context.Context, name string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursorErr != nil {
		return 0, false, infra.WrapRepoErr("cursor", s.cursorErr, infra.KindUnavailable)
	}
	h, ok := s.cursors[name]
	return h, ok, nil
}

func (s *fakeState) SetCursor(_ context.Context, name string, height int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursorErr != nil {
		return infra.WrapRepoErr("cursor", s.cursorErr, infra.KindUnavailable)
	}
	s.cursors[name] = height
	return nil
}

func (s *fakeState) IsProcessed(_ context.Context, identity string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.processed[identity]
	return ok, nil
}

func (s *fakeState) MarkProcessed(_ context.Context, rec readmodel.ProcessedEventRM) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.processed[rec.Identity]; !ok {
		s.processed[rec.Identity] = rec
	}
	return nil
}

func (s *fakeState) CountProcessed(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.processed), nil
}

// PruneProcessed mirrors the store: oldest first, bounded by age, height and limit.
func (s *fakeState) PruneProcessed(_ context.Context, appliedBefore time.Time, maxHeight int64, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var candidates []readmodel.ProcessedEventRM
	for _, rec := range s.processed {
		if rec.AppliedAt.Before(appliedBefore) && rec.Height <= maxHeight {
			candidates = append(candidates, rec)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].AppliedAt.Equal(candidates[j].AppliedAt) {
			return candidates[i].AppliedAt.Before(candidates[j].AppliedAt)
		}
		return candidates[i].Height < candidates[j].Height
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	for _, rec := range candidates {
		delete(s.processed, rec.Identity)
	}
	return len(candidates), nil
}

func (s *fakeState) clearProcessed() {
	s.mu.Lock()
	s.processed = map[string]readmodel.ProcessedEventRM{}
	s.mu.Unlock()
}

func (s *fakeState) cursor(name string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.cursors[name]
	return h, ok
}

type fakeNotifier struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (n *fakeNotifier) PublishJSON(_ context.Context, key string, _ any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.keys = append(n.keys, key)
	return n.err
}

func (n *fakeNotifier) published() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}
