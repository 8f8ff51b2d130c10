package response

import (
	"stayledger/internal/domain/property"
	"stayledger/internal/usecase/readmodel"
)

type PropertyResponse struct {
	ID            string `json:"id"`
	Host          string `json:"host"`
	Active        bool   `json:"active"`
	PricePerNight int64  `json:"price_per_night"`
	MetadataURI   string `json:"metadata_uri,omitempty"`
	SyncedHeight  int64  `json:"synced_height,omitempty"`
}

func FromPropertyRM(rm *readmodel.PropertyRM) *PropertyResponse {
	return &PropertyResponse{
		ID:            rm.LedgerID,
		Host:          rm.Host,
		Active:        rm.Active,
		PricePerNight: rm.PricePerNight,
		MetadataURI:   rm.MetadataURI,
		SyncedHeight:  rm.SyncedHeight,
	}
}

func FromProperty(p *property.Property) *PropertyResponse {
	return &PropertyResponse{
		ID:            p.ID(),
		Host:          p.Host().String(),
		Active:        p.Active(),
		PricePerNight: p.PricePerNight().Units(),
		MetadataURI:   p.MetadataURI(),
	}
}

type PropertyWriteResponse struct {
	Property *PropertyResponse `json:"property"`
	Receipt  *ReceiptResponse  `json:"receipt"`
}
