//go:build unit

package commands_test

import (
	"context"
	"sync"
	"time"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/domain/property"
	"stayledger/internal/infra"
	"stayledger/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeLedger is an in-memory UnitOfWork. Writes made by a block are staged
// and only become visible when the block function succeeds.
type fakeLedger struct {
	mu         sync.Mutex
	height     int64
	nextID     int64
	properties map[string]*property.Property
	bookings   map[int64]*booking.Booking
	events     []ledgerevent.Payload
	receipts   map[int64]*shared.Receipt
	keys       map[string]*shared.IdempotencyRecord

	// blockErr fails the block before fn runs; insertErr fails booking inserts.
	blockErr  error
	insertErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		properties: map[string]*property.Property{},
		bookings:   map[int64]*booking.Booking{},
		receipts:   map[int64]*shared.Receipt{},
		keys:       map[string]*shared.IdempotencyRecord{},
	}
}

func (l *fakeLedger) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) (*shared.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.blockErr != nil {
		return nil, l.blockErr
	}

	tx := &fakeTx{
		ledger:     l,
		properties: map[string]*property.Property{},
		bookings:   map[int64]*booking.Booking{},
	}
	if err := fn(ctx, tx); err != nil {
		return nil, err
	}

	l.height++
	for id, p := range tx.properties {
		l.properties[id] = p
	}
	for id, b := range tx.bookings {
		l.bookings[id] = b
	}
	l.events = append(l.events, tx.pending...)
	for _, rec := range tx.completed {
		l.keys[idempotencyMapKey(rec.Key, rec.Caller)] = rec
	}

	receipt := &shared.Receipt{TxID: "0xfeed", Height: l.height}
	for i, p := range tx.pending {
		name, args := ledgerevent.Encode(p)
		receipt.Events = append(receipt.Events, ledgerevent.Event{
			TxID: receipt.TxID, Name: name, Args: args, Height: l.height, TxIndex: i,
		})
	}
	l.receipts[l.height] = receipt
	return receipt, nil
}

func (l *fakeLedger) booking(id int64) *booking.Booking {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bookings[id]
}

func (l *fakeLedger) ReadBooking(_ context.Context, id int64) (*shared.BookingSnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return &shared.BookingSnapshot{Booking: booking.Reconstruct(b.State()), AsOfHeight: l.height}, nil
}

func (l *fakeLedger) QueryEvents(_ context.Context, from, to int64) ([]ledgerevent.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []ledgerevent.Event
	for h := from; h <= to; h++ {
		if r, ok := l.receipts[h]; ok {
			out = append(out, r.Events...)
		}
	}
	return out, nil
}

func idempotencyMapKey(key uuid.UUID, caller string) string {
	return key.String() + "|" + caller
}

// fakeIdempotency claims keys on the ledger map outside any block.
type fakeIdempotency struct {
	ledger     *fakeLedger
	released   int
	releaseErr error
}

func (r *fakeIdempotency) TryInsert(_ context.Context, key uuid.UUID, caller, _, requestHash string, now, expiresAt time.Time) (bool, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	k := idempotencyMapKey(key, caller)
	if existing, ok := r.ledger.keys[k]; ok && !existing.ExpiresAt.Before(now) {
		return false, nil
	}
	r.ledger.keys[k] = &shared.IdempotencyRecord{
		Key: key, Caller: caller, Status: shared.IdempotencyProcessing,
		RequestHash: requestHash, ExpiresAt: expiresAt,
	}
	return true, nil
}

func (r *fakeIdempotency) Get(_ context.Context, key uuid.UUID, caller string) (*shared.IdempotencyRecord, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	rec, ok := r.ledger.keys[idempotencyMapKey(key, caller)]
	if !ok {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	out := *rec
	return &out, nil
}

func (r *fakeIdempotency) Release(_ context.Context, key uuid.UUID, caller string) error {
	if r.releaseErr != nil {
		return r.releaseErr
	}
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	k := idempotencyMapKey(key, caller)
	if rec, ok := r.ledger.keys[k]; ok && rec.Status == shared.IdempotencyProcessing {
		delete(r.ledger.keys, k)
		r.released++
	}
	return nil
}

func (r *fakeIdempotency) status(key uuid.UUID, caller string) (string, bool) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	rec, ok := r.ledger.keys[idempotencyMapKey(key, caller)]
	if !ok {
		return "", false
	}
	return rec.Status, true
}

type fakeTx struct {
	ledger     *fakeLedger
	properties map[string]*property.Property
	bookings   map[int64]*booking.Booking
	pending    []ledgerevent.Payload
	completed  []*shared.IdempotencyRecord
}

func (t *fakeTx) Properties() shared.PropertyRepository     { return fakeProperties{t} }
func (t *fakeTx) Bookings() shared.BookingRepository        { return fakeBookings{t} }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository { return fakeTxIdempotency{t} }

// Height is the height the block commits at.
func (t *fakeTx) Height() int64 { return t.ledger.height + 1 }

func (t *fakeTx) Emit(events ...ledgerevent.Payload) {
	t.pending = append(t.pending, events...)
}

type fakeProperties struct{ tx *fakeTx }

func (r fakeProperties) Insert(_ context.Context, p *property.Property) error {
	if _, ok := r.tx.ledger.properties[p.ID()]; ok {
		return infra.WrapRepoErr("property exists", nil, infra.KindDuplicateKey)
	}
	r.tx.properties[p.ID()] = p
	return nil
}

func (r fakeProperties) Update(_ context.Context, p *property.Property) error {
	r.tx.properties[p.ID()] = p
	return nil
}

func (r fakeProperties) FindForUpdate(_ context.Context, id string) (*property.Property, error) {
	p, ok := r.tx.ledger.properties[id]
	if !ok {
		return nil, infra.WrapRepoErr("property not found", nil, infra.KindNotFound)
	}
	return property.Reconstruct(p.ID(), p.Host(), p.Active(), p.PricePerNight(), p.MetadataURI(), p.CreatedAt(), p.UpdatedAt()), nil
}

type fakeBookings struct{ tx *fakeTx }

func (r fakeBookings) NextID(context.Context) (int64, error) {
	r.tx.ledger.nextID++
	return r.tx.ledger.nextID, nil
}

func (r fakeBookings) Insert(_ context.Context, b *booking.Booking) error {
	if r.tx.ledger.insertErr != nil {
		return r.tx.ledger.insertErr
	}
	r.tx.bookings[b.ID()] = b
	return nil
}

func (r fakeBookings) Update(_ context.Context, b *booking.Booking) error {
	r.tx.bookings[b.ID()] = b
	return nil
}

func (r fakeBookings) FindForUpdate(_ context.Context, id int64) (*booking.Booking, error) {
	b, ok := r.tx.ledger.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return booking.Reconstruct(b.State()), nil
}

func (r fakeBookings) ListHoldingDates(_ context.Context, propertyID string) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, b := range r.tx.ledger.bookings {
		if b.PropertyID() == propertyID && b.Status().HoldsDates() {
			out = append(out, booking.Reconstruct(b.State()))
		}
	}
	return out, nil
}

type fakeTxIdempotency struct{ tx *fakeTx }

func (r fakeTxIdempotency) MarkCompleted(_ context.Context, key uuid.UUID, caller string, bookingID, height int64) error {
	rec, ok := r.tx.ledger.keys[idempotencyMapKey(key, caller)]
	if !ok || rec.Status != shared.IdempotencyProcessing {
		return infra.WrapRepoErr("idempotency key not claimed", nil)
	}
	done := *rec
	done.Status = shared.IdempotencyCompleted
	done.ResultBookingID = bookingID
	done.ResultHeight = height
	r.tx.completed = append(r.tx.completed, &done)
	return nil
}
