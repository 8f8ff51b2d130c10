package converter

import (
	"fmt"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/property"
	sqlc "stayledger/internal/infra/sqlc/generated"
	"stayledger/internal/pkg/pgconv"
)

func PropertyToCreateParams(p *property.Property) sqlc.CreatePropertyParams {
	return sqlc.CreatePropertyParams{
		ID:            p.ID(),
		Host:          p.Host().String(),
		Active:        p.Active(),
		PricePerNight: p.PricePerNight().Units(),
		MetadataURI:   p.MetadataURI(),
		CreatedAt:     pgconv.TimeToPgtype(p.CreatedAt()),
		UpdatedAt:     pgconv.TimeToPgtype(p.UpdatedAt()),
	}
}

func PropertyFromModel(m sqlc.Properties) (*property.Property, error) {
	host, err := booking.NewAddress(m.Host)
	if err != nil {
		return nil, fmt.Errorf("property %s host: %w", m.ID, err)
	}
	price, err := booking.NewAmount(m.PricePerNight)
	if err != nil {
		return nil, fmt.Errorf("property %s price: %w", m.ID, err)
	}
	return property.Reconstruct(m.ID, host, m.Active, price, m.MetadataURI,
		pgconv.TimeFromPgtype(m.CreatedAt), pgconv.TimeFromPgtype(m.UpdatedAt)), nil
}
