package api

import (
	"errors"
	"io"
	"net/http"

	reqdto "stayledger/internal/handler/dto/request"
	resdto "stayledger/internal/handler/dto/response"
	"stayledger/internal/handler/httperr"
	"stayledger/internal/usecase/commands"
	"stayledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	cmds commands.SyncCommands
	q    queries.SyncQueries
}

func NewSyncHandler(cmds commands.SyncCommands, q queries.SyncQueries) *SyncHandler {
	return &SyncHandler{cmds: cmds, q: q}
}

// @Summary Sync status
// @Description Cursor, ledger head and projection counts
// @Tags sync
// @Produce json
// @Success 200 {object} resdto.SyncStatusResponse
// @Failure 503 {object} map[string]string
// @Router /sync/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	view, err := h.q.Status(c.Request.Context())
	if err != nil {
		abortWithUsecaseError(c, err, "Status unavailable")
		return
	}
	c.JSON(http.StatusOK, resdto.FromSyncStatus(view))
}

// @Summary Reconcile projection
// @Description Re-read ledger state for a scope and repair the projection (operator only)
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReconcileRequest false "Scope: all, property:<id>, guest:<address>, host:<address>"
// @Success 200 {object} resdto.ReconcileResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /sync/reconcile [post]
func (h *SyncHandler) Reconcile(c *gin.Context) {
	var req reqdto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	scope, err := req.ToScope()
	if err != nil {
		abortWithUsecaseError(c, err, "Invalid scope")
		return
	}
	report, err := h.cmds.Reconcile(c.Request.Context(), scope)
	if err != nil {
		abortWithUsecaseError(c, err, "Reconcile failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromReconciliationReport(report))
}
