package queries

//go:generate mockgen -destination=../../../tests/mock/queries/property.go -package=queriesmock stayledger/internal/usecase/queries PropertyQueries

import (
	"context"

	"stayledger/internal/domain/booking"
	"stayledger/internal/infra"
	"stayledger/internal/pkg/errs"
	"stayledger/internal/usecase/readmodel"
)

type PropertyQueries interface {
	GetByID(ctx context.Context, id string) (*readmodel.PropertyRM, error)
}

type PropertyViewRepo interface {
	FindPropertyByLedgerID(ctx context.Context, id string) (*readmodel.PropertyRM, error)
}

type propertyQueriesImpl struct {
	repo PropertyViewRepo
}

func NewPropertyQueries(repo PropertyViewRepo) PropertyQueries {
	return &propertyQueriesImpl{repo: repo}
}

func (q *propertyQueriesImpl) GetByID(ctx context.Context, id string) (*readmodel.PropertyRM, error) {
	rec, err := q.repo.FindPropertyByLedgerID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, booking.ErrPropertyNotFound
		}
		return nil, errs.Mark(err, errs.ErrProjectionUnavailable)
	}
	return rec, nil
}
