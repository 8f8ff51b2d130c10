package api

import (
	"net/http"

	reqdto "stayledger/internal/handler/dto/request"
	resdto "stayledger/internal/handler/dto/response"
	"stayledger/internal/handler/httperr"
	"stayledger/internal/usecase/commands"
	"stayledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	cmds commands.PropertyCommands
	q    queries.PropertyQueries
}

func NewPropertyHandler(cmds commands.PropertyCommands, q queries.PropertyQueries) *PropertyHandler {
	return &PropertyHandler{cmds: cmds, q: q}
}

// @Summary List property
// @Description List a property on the ledger with the caller as host
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ListPropertyRequest true "List property request"
// @Success 201 {object} resdto.PropertyWriteResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	host, ok := requireCaller(c)
	if !ok {
		return
	}
	var req reqdto.ListPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.ListProperty(c.Request.Context(), req.ToInput(host))
	if err != nil {
		abortWithUsecaseError(c, err, "List property failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.PropertyWriteResponse{
		Property: resdto.FromProperty(result.Property),
		Receipt:  resdto.FromReceipt(result.Receipt),
	})
}

// @Summary Set property active
// @Description Activate or deactivate a property (host only)
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Param request body reqdto.SetPropertyActiveRequest true "Active flag"
// @Success 200 {object} resdto.PropertyWriteResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /properties/{id}/active [patch]
func (h *PropertyHandler) SetActive(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req reqdto.SetPropertyActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.SetPropertyActive(c.Request.Context(), c.Param("id"), caller, *req.Active)
	if err != nil {
		abortWithUsecaseError(c, err, "Update property failed")
		return
	}
	c.JSON(http.StatusOK, resdto.PropertyWriteResponse{
		Property: resdto.FromProperty(result.Property),
		Receipt:  resdto.FromReceipt(result.Receipt),
	})
}

// @Summary Get property
// @Description Get the projected view of a property
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} resdto.PropertyResponse
// @Failure 404 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(c *gin.Context) {
	view, err := h.q.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithUsecaseError(c, err, "Not found")
		return
	}
	c.JSON(http.StatusOK, resdto.FromPropertyRM(view))
}
