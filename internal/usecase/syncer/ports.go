package syncer

import (
	"context"
	"time"

	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/usecase/readmodel"
	"stayledger/internal/usecase/shared"
)

// Ledger is the authoritative state and event source.
type Ledger interface {
	CurrentHeight(ctx context.Context) (int64, error)
	// QueryEvents returns events with from <= height <= to.
	QueryEvents(ctx context.Context, from, to int64) ([]ledgerevent.Event, error)
	ReadBooking(ctx context.Context, id int64) (*shared.BookingSnapshot, error)
	ReadProperty(ctx context.Context, id string) (*shared.PropertySnapshot, error)
	ListBookingIDs(ctx context.Context, scope shared.Scope) ([]int64, error)
	ListPropertyIDs(ctx context.Context, scope shared.Scope) ([]string, error)
}

// Projection upserts are position guarded: they report false when the stored
// row already reflects the same or a later ledger position.
type Projection interface {
	UpsertBooking(ctx context.Context, rec readmodel.BookingRM) (bool, error)
	FindBookingByLedgerID(ctx context.Context, id int64) (*readmodel.BookingRM, error)
	UpsertProperty(ctx context.Context, rec readmodel.PropertyRM) (bool, error)
	FindPropertyByLedgerID(ctx context.Context, id string) (*readmodel.PropertyRM, error)
}

// SyncState holds the cursor and the committed set.
type SyncState interface {
	Cursor(ctx context.Context, name string) (int64, bool, error)
	SetCursor(ctx context.Context, name string, height int64) error
	IsProcessed(ctx context.Context, identity string) (bool, error)
	MarkProcessed(ctx context.Context, rec readmodel.ProcessedEventRM) error
	CountProcessed(ctx context.Context) (int, error)
	PruneProcessed(ctx context.Context, appliedBefore time.Time, maxHeight int64, limit int) (int, error)
}

type Notifier interface {
	PublishJSON(ctx context.Context, key string, v any) error
}
