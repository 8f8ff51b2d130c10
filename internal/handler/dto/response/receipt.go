package response

import "stayledger/internal/usecase/shared"

// ReceiptResponse names the ledger block a write was committed in.
type ReceiptResponse struct {
	TxID   string   `json:"tx_id"`
	Height int64    `json:"height"`
	Events []string `json:"events"`
}

func FromReceipt(r *shared.Receipt) *ReceiptResponse {
	if r == nil {
		return nil
	}
	events := make([]string, len(r.Events))
	for i, ev := range r.Events {
		events[i] = ev.Name.String()
	}
	return &ReceiptResponse{TxID: r.TxID, Height: r.Height, Events: events}
}
