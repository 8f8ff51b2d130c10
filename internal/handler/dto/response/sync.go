package response

import (
	"stayledger/internal/usecase/queries"
	"stayledger/internal/usecase/syncer"
)

type SyncStatusResponse struct {
	Cursor          int64 `json:"cursor"`
	HasCursor       bool  `json:"has_cursor"`
	LedgerHead      int64 `json:"ledger_head"`
	Lag             int64 `json:"lag"`
	LedgerReachable bool  `json:"ledger_reachable"`
	ProcessedCount  int   `json:"processed_count"`
	Bookings        int   `json:"bookings"`
	Properties      int   `json:"properties"`
}

func FromSyncStatus(v *queries.SyncStatusView) *SyncStatusResponse {
	return &SyncStatusResponse{
		Cursor:          v.Cursor,
		HasCursor:       v.HasCursor,
		LedgerHead:      v.LedgerHead,
		Lag:             v.Lag,
		LedgerReachable: v.LedgerReachable,
		ProcessedCount:  v.ProcessedCount,
		Bookings:        v.Bookings,
		Properties:      v.Properties,
	}
}

type ReconcileResponse struct {
	Scope      string `json:"scope"`
	Examined   int    `json:"examined"`
	Upserted   int    `json:"upserted"`
	Unchanged  int    `json:"unchanged"`
	Failed     int    `json:"failed"`
	DurationMS int64  `json:"duration_ms"`
}

func FromReconciliationReport(r *syncer.ReconciliationReport) *ReconcileResponse {
	return &ReconcileResponse{
		Scope:      r.Scope,
		Examined:   r.Examined,
		Upserted:   r.Upserted,
		Unchanged:  r.Unchanged,
		Failed:     r.Failed,
		DurationMS: r.Duration.Milliseconds(),
	}
}
