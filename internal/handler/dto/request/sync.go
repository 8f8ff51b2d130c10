package request

import "stayledger/internal/usecase/shared"

type ReconcileRequest struct {
	Scope string `json:"scope"`
}

func (r ReconcileRequest) ToScope() (shared.Scope, error) {
	return shared.ParseScope(r.Scope)
}
