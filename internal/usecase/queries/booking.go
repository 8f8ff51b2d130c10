package queries

//go:generate mockgen -destination=../../../tests/mock/queries/booking.go -package=queriesmock stayledger/internal/usecase/queries BookingQueries

import (
	"context"

	"stayledger/internal/domain/booking"
	"stayledger/internal/infra"
	"stayledger/internal/pkg/errs"
	"stayledger/internal/usecase/readmodel"
)

// BookingListFilter narrows List. Empty fields match everything.
type BookingListFilter struct {
	Guest      string
	Host       string
	PropertyID string
	Status     string
}

type BookingQueries interface {
	GetByID(ctx context.Context, id int64) (*readmodel.BookingRM, error)
	List(ctx context.Context, filter BookingListFilter, after *Cursor, limit int) ([]readmodel.BookingRM, *Cursor, error)
}

type BookingViewRepo interface {
	FindBookingByLedgerID(ctx context.Context, id int64) (*readmodel.BookingRM, error)
	ListBookings(ctx context.Context, f readmodel.BookingFilter) ([]readmodel.BookingRM, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id int64) (*readmodel.BookingRM, error) {
	rec, err := q.repo.FindBookingByLedgerID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrProjectionUnavailable)
	}
	return rec, nil
}

// List pages in ledger id order. The returned cursor is nil on the last page.
func (q *bookingQueriesImpl) List(ctx context.Context, filter BookingListFilter, after *Cursor, limit int) ([]readmodel.BookingRM, *Cursor, error) {
	limit = ValidateLimit(limit)

	var afterID int64
	if after != nil && after.After != "" {
		id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, errs.Mark(err, ErrInvalidCursor)
		}
		afterID = id
	}

	// One extra row tells whether another page exists.
	rows, err := q.repo.ListBookings(ctx, readmodel.BookingFilter{
		Guest:      filter.Guest,
		Host:       filter.Host,
		PropertyID: filter.PropertyID,
		Status:     filter.Status,
		AfterID:    afterID,
		Limit:      limit + 1,
	})
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrProjectionUnavailable)
	}

	if len(rows) <= limit {
		return rows, nil, nil
	}
	rows = rows[:limit]
	return rows, &Cursor{After: EncodeAfterCursor(rows[len(rows)-1].LedgerID)}, nil
}
