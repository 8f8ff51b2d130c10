package repository

import (
	"context"

	"stayledger/internal/domain/booking"
	"stayledger/internal/infra"
	"stayledger/internal/infra/repository/converter"
	sqlc "stayledger/internal/infra/sqlc/generated"
	"stayledger/internal/pkg/pgconv"
)

type BookingWriteQueries interface {
	NextBookingID(ctx context.Context, db sqlc.DBTX) (int64, error)
	CreateBooking(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateBookingParams) error
	UpdateBookingState(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateBookingStateParams) (int64, error)
	GetBooking(ctx context.Context, db sqlc.DBTX, id int64) (sqlc.Bookings, error)
	GetBookingForUpdate(ctx context.Context, db sqlc.DBTX, id int64) (sqlc.Bookings, error)
	ListHoldingBookingsByProperty(ctx context.Context, db sqlc.DBTX, propertyID string) ([]sqlc.Bookings, error)
}

type BookingRepository struct {
	queries BookingWriteQueries
	db      sqlc.DBTX
}

func NewBookingRepository(queries *sqlc.Queries, db sqlc.DBTX) *BookingRepository {
	return &BookingRepository{
		queries: queries,
		db:      db,
	}
}

func (r *BookingRepository) NextID(ctx context.Context) (int64, error) {
	id, err := r.queries.NextBookingID(ctx, r.db)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to allocate booking id", err)
	}
	return id, nil
}

func (r *BookingRepository) Insert(ctx context.Context, b *booking.Booking) error {
	if err := r.queries.CreateBooking(ctx, r.db, converter.BookingToCreateParams(b)); err != nil {
		switch {
		case pgconv.IsExclusionViolation(err):
			return infra.WrapRepoErr("booking dates overlap", err, infra.KindConflict)
		case pgconv.IsUniqueViolation(err):
			return infra.WrapRepoErr("booking id already used", err, infra.KindDuplicateKey)
		default:
			return infra.WrapRepoErr("failed to insert booking", err)
		}
	}
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	affected, err := r.queries.UpdateBookingState(ctx, r.db, converter.BookingToUpdateParams(b))
	if err != nil {
		if pgconv.IsExclusionViolation(err) {
			return infra.WrapRepoErr("booking dates overlap", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*booking.Booking, error) {
	row, err := r.queries.GetBooking(ctx, r.db, id)
	return fromBookingRow(row, err)
}

func (r *BookingRepository) FindForUpdate(ctx context.Context, id int64) (*booking.Booking, error) {
	row, err := r.queries.GetBookingForUpdate(ctx, r.db, id)
	return fromBookingRow(row, err)
}

func (r *BookingRepository) ListHoldingDates(ctx context.Context, propertyID string) ([]*booking.Booking, error) {
	rows, err := r.queries.ListHoldingBookingsByProperty(ctx, r.db, propertyID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list property bookings", err)
	}

	out := make([]*booking.Booking, 0, len(rows))
	for _, row := range rows {
		b, err := converter.BookingFromModel(row)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to convert booking row", err)
		}
		out = append(out, b)
	}
	return out, nil
}

func fromBookingRow(row sqlc.Bookings, err error) (*booking.Booking, error) {
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	b, err := converter.BookingFromModel(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert booking row", err)
	}
	return b, nil
}
