package request

import (
	"stayledger/internal/domain/booking"
	"stayledger/internal/usecase/commands"
)

type ListPropertyRequest struct {
	ID            string `json:"id" binding:"required,max=64"`
	PricePerNight int64  `json:"price_per_night" binding:"required,gt=0"`
	MetadataURI   string `json:"metadata_uri" binding:"max=512"`
}

func (r ListPropertyRequest) ToInput(host booking.Address) commands.ListPropertyInput {
	return commands.ListPropertyInput{
		ID:            r.ID,
		Host:          host,
		PricePerNight: r.PricePerNight,
		MetadataURI:   r.MetadataURI,
	}
}

type SetPropertyActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
