package api

import (
	"net/http"
	"strconv"

	"stayledger/internal/domain/booking"
	reqdto "stayledger/internal/handler/dto/request"
	resdto "stayledger/internal/handler/dto/response"
	"stayledger/internal/handler/httperr"
	"stayledger/internal/usecase/commands"
	"stayledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Create booking
// @Description Book a property with the caller as guest; funds are escrowed on the ledger
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the original result when a request is retried"
// @Param request body reqdto.CreateBookingRequest true "Create booking request"
// @Success 201 {object} resdto.BookingWriteResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	guest, ok := requireCaller(c)
	if !ok {
		return
	}
	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid Idempotency-Key", nil)
		return
	}
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.CreateBooking(c.Request.Context(), req.ToInput(guest, idempotencyKey))
	if err != nil {
		abortWithUsecaseError(c, err, "Create booking failed")
		return
	}
	if result.Replayed {
		c.Header(idempotentReplayedHeader, "true")
	}
	c.JSON(http.StatusCreated, bookingWriteResponse(result))
}

// @Summary Create off-chain booking
// @Description Record a booking paid outside the ledger (operator only)
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateOffChainBookingRequest true "Off-chain booking request"
// @Success 201 {object} resdto.BookingWriteResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/offchain [post]
func (h *BookingHandler) CreateOffChain(c *gin.Context) {
	var req reqdto.CreateOffChainBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		abortWithUsecaseError(c, err, "Invalid request")
		return
	}
	result, err := h.cmds.CreateBooking(c.Request.Context(), in)
	if err != nil {
		abortWithUsecaseError(c, err, "Create booking failed")
		return
	}
	c.JSON(http.StatusCreated, bookingWriteResponse(result))
}

// @Summary Open check-in window
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} resdto.BookingWriteResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/open-check-in [post]
func (h *BookingHandler) OpenCheckIn(c *gin.Context) {
	h.transition(c, booking.TransitionOpenCheckInWindow)
}

// @Summary Check in
// @Description Guest confirms arrival within the check-in window
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} resdto.BookingWriteResponse
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/check-in [post]
func (h *BookingHandler) CheckIn(c *gin.Context) {
	h.transition(c, booking.TransitionCheckIn)
}

// @Summary Process missed check-in
// @Description Move a booking whose check-in window expired into dispute
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} resdto.BookingWriteResponse
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/missed-check-in [post]
func (h *BookingHandler) MissedCheckIn(c *gin.Context) {
	h.transition(c, booking.TransitionProcessMissedCheckIn)
}

// @Summary Resolve dispute
// @Description Host or guest consents to release the escrow to the host
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} resdto.BookingWriteResponse
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/resolve [post]
func (h *BookingHandler) Resolve(c *gin.Context) {
	h.transition(c, booking.TransitionResolveDispute)
}

// @Summary Escalate dispute
// @Description Hand an unresolved dispute to the arbiter after its deadline
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} resdto.BookingWriteResponse
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/escalate [post]
func (h *BookingHandler) Escalate(c *gin.Context) {
	h.transition(c, booking.TransitionEscalateDispute)
}

// @Summary Admin resolve
// @Description Arbiter splits the host amount between guest and host
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param request body reqdto.AdminResolveRequest true "Guest share"
// @Success 200 {object} resdto.BookingWriteResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /bookings/{id}/admin-resolve [post]
func (h *BookingHandler) AdminResolve(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req reqdto.AdminResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.Transition(c.Request.Context(), id, req.ToCommand(caller))
	if err != nil {
		abortWithUsecaseError(c, err, "Transition failed")
		return
	}
	c.JSON(http.StatusOK, bookingWriteResponse(result))
}

// @Summary Cancel booking
// @Description Guest cancels before check-in and is refunded in full
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} resdto.BookingWriteResponse
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, booking.TransitionCancel)
}

func (h *BookingHandler) transition(c *gin.Context, t booking.Transition) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	result, err := h.cmds.Transition(c.Request.Context(), id, booking.Command{Transition: t, Caller: caller})
	if err != nil {
		abortWithUsecaseError(c, err, "Transition failed")
		return
	}
	c.JSON(http.StatusOK, bookingWriteResponse(result))
}

// @Summary Get booking
// @Description Get the projected view of a booking
// @Tags bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err, "Not found")
		return
	}
	res, err := resdto.FromBookingRM(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary List bookings
// @Description List projected bookings with keyset pagination
// @Tags bookings
// @Produce json
// @Param guest query string false "Guest address"
// @Param host query string false "Host address"
// @Param property query string false "Property ID"
// @Param status query string false "Booking status"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	var q reqdto.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	items, next, err := h.q.List(c.Request.Context(), q.ToFilter(), q.Cursor(), q.Limit)
	if err != nil {
		abortWithUsecaseError(c, err, "List bookings failed")
		return
	}
	list, err := resdto.FromBookingRMList(items)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	resp := resdto.BookingListResponse{Bookings: list}
	if next != nil {
		resp.NextCursor = next.After
	}
	c.JSON(http.StatusOK, resp)
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return 0, false
	}
	if id <= 0 {
		httperr.AbortWithError(c, http.StatusBadRequest, errInvalidID, "Invalid id", nil)
		return 0, false
	}
	return id, true
}

func bookingWriteResponse(r *commands.BookingResult) resdto.BookingWriteResponse {
	return resdto.BookingWriteResponse{
		Booking: resdto.FromBooking(r.Booking),
		Receipt: resdto.FromReceipt(r.Receipt),
	}
}
