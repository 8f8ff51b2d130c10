package syncer

import (
	"time"

	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/usecase/shared"
)

// EventFailure names an event that was left unprocessed.
type EventFailure struct {
	Identity string           `json:"identity,omitempty"`
	TxID     string           `json:"tx_id"`
	Event    ledgerevent.Name `json:"event"`
	Height   int64            `json:"height"`
	TxIndex  int              `json:"tx_index"`
	Error    string           `json:"error"`
}

// ApplyResult counts the outcome of one ApplyEvents call.
type ApplyResult struct {
	Applied    int            `json:"applied"`
	Duplicates int            `json:"duplicates"`
	Ignored    int            `json:"ignored"`
	Failures   []EventFailure `json:"failures,omitempty"`
}

func (r ApplyResult) Failed() int { return len(r.Failures) }

// ProcessingReport describes one poll cycle. Skipped is set when another
// poll owned the cursor and this call did nothing.
type ProcessingReport struct {
	From         int64          `json:"from"`
	To           int64          `json:"to"`
	Fetched      int            `json:"fetched"`
	Applied      int            `json:"applied"`
	Duplicates   int            `json:"duplicates"`
	Ignored      int            `json:"ignored"`
	Failed       int            `json:"failed"`
	CursorBefore int64          `json:"cursor_before"`
	CursorAfter  int64          `json:"cursor_after"`
	Skipped      bool           `json:"skipped"`
	Failures     []EventFailure `json:"failures,omitempty"`
}

type ReconciliationReport struct {
	Scope     string        `json:"scope"`
	Examined  int           `json:"examined"`
	Upserted  int           `json:"upserted"`
	Unchanged int           `json:"unchanged"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

type PruneReport struct {
	Before  int `json:"before"`
	Removed int `json:"removed"`
}

func newReconciliationReport(scope shared.Scope) *ReconciliationReport {
	return &ReconciliationReport{Scope: scope.String()}
}
