package readmodel

import "time"

// ProcessedEventRM is one entry of the committed set.
type ProcessedEventRM struct {
	Identity  string    `json:"identity"`
	TxID      string    `json:"tx_id"`
	EventName string    `json:"event_name"`
	Height    int64     `json:"height"`
	TxIndex   int       `json:"tx_index"`
	AppliedAt time.Time `json:"applied_at"`
}

// SyncStatusRM summarizes the persisted sync state.
type SyncStatusRM struct {
	Cursor         int64 `json:"cursor"`
	HasCursor      bool  `json:"has_cursor"`
	ProcessedCount int   `json:"processed_count"`
	Bookings       int   `json:"bookings"`
	Properties     int   `json:"properties"`
}
