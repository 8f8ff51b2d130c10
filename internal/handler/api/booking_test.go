//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/domain/party"
	"stayledger/internal/handler/api"
	resdto "stayledger/internal/handler/dto/response"
	"stayledger/internal/handler/middleware"
	"stayledger/internal/pkg/errs"
	"stayledger/internal/usecase/commands"
	"stayledger/internal/usecase/queries"
	"stayledger/internal/usecase/readmodel"
	"stayledger/internal/usecase/shared"
	"stayledger/tests/common/builder"
	"stayledger/tests/common/httptest"
	"stayledger/tests/common/testutil"
	commandsmock "stayledger/tests/mock/commands"
	queriesmock "stayledger/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// fakeAuth treats the bearer token as the caller address.
func fakeAuth(role party.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		middleware.SetCaller(c, booking.MustAddress(token), role)
		c.Next()
	}
}

func receipt(height int64, names ...string) *shared.Receipt {
	r := &shared.Receipt{TxID: "0xfeed", Height: height}
	for i, n := range names {
		r.Events = append(r.Events, ledgerevent.Event{TxID: r.TxID, Name: ledgerevent.Name(n), Height: height, TxIndex: i})
	}
	return r
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	created      *booking.Booking
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	var err error
	s.created, err = builder.NewBookingBuilder().BuildDomain()
	s.Require().NoError(err)

	auth := fakeAuth(party.RoleParty)
	s.router.POST("/bookings", auth, s.handler.Create)
	s.router.POST("/bookings/offchain", fakeAuth(party.RoleOperator), s.handler.CreateOffChain)
	s.router.POST("/bookings/:id/check-in", auth, s.handler.CheckIn)
	s.router.POST("/bookings/:id/cancel", auth, s.handler.Cancel)
	s.router.POST("/bookings/:id/resolve", auth, s.handler.Resolve)
	s.router.POST("/bookings/:id/admin-resolve", fakeAuth(party.RoleArbiter), s.handler.AdminResolve)
	s.router.GET("/bookings/:id", s.handler.Get)
	s.router.GET("/bookings", s.handler.List)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func createBookingBody() map[string]any {
	return map[string]any{
		"property_id": "prop-1",
		"check_in":    builder.BaseTime.Add(7 * booking.Day).Format(time.RFC3339),
		"check_out":   builder.BaseTime.Add(10 * booking.Day).Format(time.RFC3339),
	}
}

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/bookings"

	s.Run("success: caller becomes the guest", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in commands.CreateBookingInput) (*commands.BookingResult, error) {
				s.Equal(builder.GuestAddress, in.Guest.String())
				s.Equal(booking.ChannelOnLedger, in.Channel)
				s.Equal("prop-1", in.PropertyID)
				s.Equal(3*booking.Day, in.CheckOut.Sub(in.CheckIn))
				return &commands.BookingResult{Booking: s.created, Receipt: receipt(5, "BookingCreated")}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, createBookingBody(), builder.GuestAddress)

		var response resdto.BookingWriteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(int64(1), response.Booking.ID)
		s.Equal(int64(300), response.Booking.TotalAmount)
		s.Equal(int64(9), response.Booking.PlatformFee)
		s.Equal("active", response.Booking.Status)
		s.Equal(int64(5), response.Receipt.Height)
		s.Equal([]string{"BookingCreated"}, response.Receipt.Events)
	})

	s.Run("error: 401 without a caller", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, createBookingBody(), "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: property_id", mutate: testutil.Field("property_id", nil)},
			{name: "missing field: check_in", mutate: testutil.Field("check_in", nil)},
			{name: "malformed check_out", mutate: testutil.Field("check_out", "next week")},
			{name: "property_id too long", mutate: testutil.Field("property_id", strings.Repeat("p", 65))},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				body := createBookingBody()
				tc.mutate(body)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, builder.GuestAddress)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "date conflict", commandsError: booking.ErrDateConflict, expectedStatus: http.StatusConflict, expectedMsg: "Create booking failed"},
			{name: "inactive property", commandsError: booking.ErrInvalidProperty, expectedStatus: http.StatusBadRequest, expectedMsg: "Create booking failed"},
			{name: "self booking", commandsError: booking.ErrSelfBooking, expectedStatus: http.StatusBadRequest, expectedMsg: "Create booking failed"},
			{name: "ledger outage", commandsError: errs.Mark(errors.New("dial tcp"), errs.ErrLedgerUnavailable), expectedStatus: http.StatusServiceUnavailable, expectedMsg: "temporarily unavailable"},
			{name: "unexpected", commandsError: errors.New("boom"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, createBookingBody(), builder.GuestAddress)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: lifecycle code is returned in the detail", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).Return(nil, booking.ErrDateConflict).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, createBookingBody(), builder.GuestAddress)
		s.Equal(http.StatusConflict, rec.Code)
		s.Contains(rec.Body.String(), `"code":"DateConflict"`)
	})
}

func (s *BookingHandlerTestSuite) TestCreateIdempotency() {
	url := "/bookings"
	key := uuid.MustParse("3f1c2a9e-8d4b-4c6f-9a1e-2b7d5c0e4f11")
	headers := map[string]string{"Idempotency-Key": key.String()}

	s.Run("success: key is passed through and no replay header on first write", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in commands.CreateBookingInput) (*commands.BookingResult, error) {
				s.Equal(key, in.IdempotencyKey)
				return &commands.BookingResult{Booking: s.created, Receipt: receipt(5, "BookingCreated")}, nil
			}).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, createBookingBody(), headers, builder.GuestAddress)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
		s.Empty(rec.Header().Get("Idempotent-Replayed"))
	})

	s.Run("success: replay answers 201 with the original block", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
			Return(&commands.BookingResult{Booking: s.created, Receipt: receipt(5, "BookingCreated"), Replayed: true}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, createBookingBody(), headers, builder.GuestAddress)

		var response resdto.BookingWriteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Idempotent-Replayed": "true"})
		s.Equal(int64(5), response.Receipt.Height)
	})

	s.Run("success: absent header leaves the key empty", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in commands.CreateBookingInput) (*commands.BookingResult, error) {
				s.Equal(uuid.Nil, in.IdempotencyKey)
				return &commands.BookingResult{Booking: s.created, Receipt: receipt(5, "BookingCreated")}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, createBookingBody(), builder.GuestAddress)
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("error: 400 on a malformed key", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, createBookingBody(),
			map[string]string{"Idempotency-Key": "not-a-uuid"}, builder.GuestAddress)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid Idempotency-Key")
	})

	s.Run("error: maps idempotency errors", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedCode   string
		}{
			{name: "in progress", commandsError: commands.ErrIdempotencyInProgress, expectedStatus: http.StatusConflict, expectedCode: "IdempotencyInProgress"},
			{name: "reused", commandsError: commands.ErrIdempotencyKeyReused, expectedStatus: http.StatusUnprocessableEntity, expectedCode: "IdempotencyKeyReused"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, createBookingBody(), headers, builder.GuestAddress)
				s.Equal(tc.expectedStatus, rec.Code)
				s.Contains(rec.Body.String(), `"code":"`+tc.expectedCode+`"`)
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestCreateOffChain() {
	url := "/bookings/offchain"
	body := func() map[string]any {
		m := createBookingBody()
		m["guest"] = "0x" + strings.ToUpper(builder.GuestAddress[2:])
		m["payment_reference"] = " stripe:pi_123 "
		return m
	}

	s.Run("success: guest and reference come from the body", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in commands.CreateBookingInput) (*commands.BookingResult, error) {
				s.Equal(builder.GuestAddress, in.Guest.String())
				s.Equal(booking.ChannelOffChain, in.Channel)
				s.Equal("stripe:pi_123", in.PaymentReference)
				return &commands.BookingResult{Booking: s.created, Receipt: receipt(6, "BookingCreated")}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body(), builder.ArbiterAddress)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: malformed guest address", func() {
		m := body()
		m["guest"] = "0x1234"
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, m, builder.ArbiterAddress)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: payment reference is required", func() {
		m := body()
		delete(m, "payment_reference")
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, m, builder.ArbiterAddress)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *BookingHandlerTestSuite) TestTransitions() {
	s.Run("success: check-in passes the caller", func() {
		s.mockCommands.EXPECT().Transition(gomock.Any(), int64(1), booking.Command{
			Transition: booking.TransitionCheckIn,
			Caller:     booking.MustAddress(builder.GuestAddress),
		}).Return(&commands.BookingResult{Booking: s.created, Receipt: receipt(7, "CheckedIn")}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/1/check-in", nil, builder.GuestAddress)

		var response resdto.BookingWriteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal([]string{"CheckedIn"}, response.Receipt.Events)
	})

	s.Run("success: resolve dispatches the generic transition", func() {
		s.mockCommands.EXPECT().Transition(gomock.Any(), int64(4), booking.Command{
			Transition: booking.TransitionResolveDispute,
			Caller:     booking.MustAddress(builder.HostAddress),
		}).Return(&commands.BookingResult{Booking: s.created, Receipt: receipt(8, "DisputeResolvedByHost")}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/4/resolve", nil, builder.HostAddress)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: maps lifecycle rejections", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
		}{
			{name: "wrong caller", err: booking.ErrNotGuest, expectedStatus: http.StatusForbidden},
			{name: "too early", err: booking.ErrTooEarly, expectedStatus: http.StatusConflict},
			{name: "window expired", err: booking.ErrWindowExpired, expectedStatus: http.StatusConflict},
			{name: "wrong status", err: booking.ErrNotCancellable, expectedStatus: http.StatusBadRequest},
			{name: "unknown booking", err: booking.ErrBookingNotFound, expectedStatus: http.StatusNotFound},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Transition(gomock.Any(), int64(2), gomock.Any()).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/2/cancel", nil, builder.GuestAddress)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "Transition failed")
			})
		}
	})

	s.Run("error: invalid booking id", func() {
		for _, id := range []string{"abc", "0", "-3"} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+id+"/check-in", nil, builder.GuestAddress)
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
		}
	})
}

func (s *BookingHandlerTestSuite) TestAdminResolve() {
	url := "/bookings/3/admin-resolve"

	s.Run("success: zero percent is a valid split", func() {
		s.mockCommands.EXPECT().Transition(gomock.Any(), int64(3), booking.Command{
			Transition:      booking.TransitionAdminResolve,
			Caller:          booking.MustAddress(builder.ArbiterAddress),
			GuestPercentage: 0,
		}).Return(&commands.BookingResult{Booking: s.created, Receipt: receipt(9, "AdminResolved", "BookingCompleted")}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"guest_percentage": 0}, builder.ArbiterAddress)

		var response resdto.BookingWriteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal([]string{"AdminResolved", "BookingCompleted"}, response.Receipt.Events)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		for name, body := range map[string]map[string]any{
			"above 100": {"guest_percentage": 101},
			"negative":  {"guest_percentage": -1},
			"missing":   {},
		} {
			s.Run(name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, builder.ArbiterAddress)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestGet() {
	s.Run("success: renders the projected row", func() {
		rm := builder.NewBookingBuilder().WithID(12).BuildReadModel()
		rm.Status = booking.StatusCompleted.String()
		rm.Settlement = &readmodel.SettlementRM{HostPayout: 291, PlatformFee: 9, SettledOnLedger: true}
		s.mockQueries.EXPECT().GetByID(gomock.Any(), int64(12)).Return(&rm, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/12", nil, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(12), response.ID)
		s.Equal(builder.GuestAddress, response.Guest)
		s.Equal("completed", response.Status)
		s.Require().NotNil(response.Settlement)
		s.Equal(int64(291), response.Settlement.HostPayout)
		s.True(response.Settlement.SettledOnLedger)
	})

	s.Run("error: not projected yet", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), int64(13)).Return(nil, booking.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/13", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})

	s.Run("error: projection unavailable", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), int64(14)).
			Return(nil, errs.Mark(errors.New("disk I/O error"), errs.ErrProjectionUnavailable)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/14", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusServiceUnavailable, "")
	})
}

func (s *BookingHandlerTestSuite) TestList() {
	s.Run("success: filters are normalized and the cursor is returned", func() {
		rows := []readmodel.BookingRM{
			builder.NewBookingBuilder().WithID(1).BuildReadModel(),
			builder.NewBookingBuilder().WithID(2).BuildReadModel(),
		}
		s.mockQueries.EXPECT().List(gomock.Any(), queries.BookingListFilter{
			Guest:      builder.GuestAddress,
			PropertyID: "prop-1",
		}, &queries.Cursor{After: "abc"}, 2).Return(rows, &queries.Cursor{After: "next"}, nil).Times(1)

		guest := "0x" + strings.ToUpper(builder.GuestAddress[2:])
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?guest="+guest+"&property=prop-1&after=abc&limit=2", nil, "")

		var response resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Bookings, 2)
		s.Equal(int64(2), response.Bookings[1].ID)
		s.Equal("next", response.NextCursor)
	})

	s.Run("success: last page has no cursor", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), queries.BookingListFilter{}, nil, 0).Return(nil, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, "")
		s.Equal(http.StatusOK, rec.Code)
		s.NotContains(rec.Body.String(), "next_cursor")
	})

	s.Run("error: limit out of range", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?limit=500", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query")
	})

	s.Run("error: malformed cursor", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil, errs.Mark(errors.New("bad base64"), queries.ErrInvalidCursor)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?after=!!!", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "List bookings failed")
	})
}
