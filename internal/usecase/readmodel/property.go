package readmodel

import (
	"time"

	"stayledger/internal/domain/ledgerevent"
)

type PropertyRM struct {
	LedgerID      string    `json:"ledger_id"`
	Host          string    `json:"host"`
	Active        bool      `json:"active"`
	PricePerNight int64     `json:"price_per_night"`
	MetadataURI   string    `json:"metadata_uri,omitempty"`
	SyncedHeight  int64     `json:"synced_height"`
	SyncedIndex   int       `json:"synced_index"`
	ProjectedAt   time.Time `json:"projected_at"`
}

func (p *PropertyRM) Position() ledgerevent.Position {
	return ledgerevent.Position{Height: p.SyncedHeight, Index: p.SyncedIndex}
}

func (p *PropertyRM) At(pos ledgerevent.Position) {
	p.SyncedHeight = pos.Height
	p.SyncedIndex = pos.Index
}
