//go:build unit

package handler_test

import (
	"io"
	"log/slog"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/party"
	"stayledger/internal/handler"
	"stayledger/internal/handler/api"
	"stayledger/internal/handler/middleware"
	"stayledger/internal/pkg/config"
	"stayledger/internal/usecase"
	"stayledger/internal/usecase/commands"
	"stayledger/internal/usecase/shared"
	"stayledger/internal/usecase/syncer"
	"stayledger/tests/common/authtest"
	"stayledger/tests/common/builder"
	"stayledger/tests/common/httptest"
	commandsmock "stayledger/tests/mock/commands"
	queriesmock "stayledger/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RouterTestSuite struct {
	suite.Suite
	router   *gin.Engine
	mockCtrl *gomock.Controller
	bookings *commandsmock.MockBookingCommands
	sync     *commandsmock.MockSyncCommands
	jwt      *authtest.JWTHelper
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.mockCtrl = gomock.NewController(s.T())

	cfg := config.NewTestConfig()
	s.jwt = authtest.NewJWTHelper(cfg.JWT)
	s.bookings = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.sync = commandsmock.NewMockSyncCommands(s.mockCtrl)

	handlers := handler.Handlers{
		Property: api.NewPropertyHandler(commandsmock.NewMockPropertyCommands(s.mockCtrl), queriesmock.NewMockPropertyQueries(s.mockCtrl)),
		Booking:  api.NewBookingHandler(s.bookings, queriesmock.NewMockBookingQueries(s.mockCtrl)),
		Sync:     api.NewSyncHandler(s.sync, queriesmock.NewMockSyncQueries(s.mockCtrl)),
	}
	auth := middleware.NewAuthMiddleware(usecase.NewTokenValidator(s.jwt.Service(s.T())))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler.NewRouter(s.router, cfg, logger, handlers, auth)
}

func (s *RouterTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) TestHealth() {
	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/health", nil, "")
	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
}

func (s *RouterTestSuite) TestCORS() {
	s.Run("success: preflight from an allowed origin", func() {
		req := nethttptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
		rec := nethttptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		s.Equal(http.StatusNoContent, rec.Code)
		s.Equal("http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		s.Equal("true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	s.Run("error: unknown origin is rejected", func() {
		req := nethttptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := nethttptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *RouterTestSuite) TestAuthentication() {
	s.Run("error: missing token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings/1/cancel", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: expired token", func() {
		token := s.jwt.CreateExpiredToken(s.T(), builder.GuestAddress, party.RoleParty)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings/1/cancel", nil, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("success: token address is the caller", func() {
		s.bookings.EXPECT().Transition(gomock.Any(), int64(1), booking.Command{
			Transition: booking.TransitionCancel,
			Caller:     booking.MustAddress(builder.GuestAddress),
		}).Return(nil, booking.ErrNotCancellable).Times(1)

		token := s.jwt.GenerateToken(s.T(), builder.GuestAddress, party.RoleParty)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings/1/cancel", nil, token)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *RouterTestSuite) TestRoleGates() {
	s.Run("error: party cannot reconcile", func() {
		token := s.jwt.GenerateToken(s.T(), builder.GuestAddress, party.RoleParty)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/sync/reconcile", nil, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("error: operator cannot admin-resolve", func() {
		token := s.jwt.GenerateToken(s.T(), builder.StrangerAddress, party.RoleOperator)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings/1/admin-resolve", map[string]any{"guest_percentage": 50}, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("error: party cannot record off-chain bookings", func() {
		token := s.jwt.GenerateToken(s.T(), builder.GuestAddress, party.RoleParty)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings/offchain", map[string]any{}, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})

	s.Run("success: operator reconciles", func() {
		s.sync.EXPECT().Reconcile(gomock.Any(), shared.PropertyScope("prop-1")).
			Return(&syncer.ReconciliationReport{Scope: "property:prop-1", Examined: 1}, nil).Times(1)

		token := s.jwt.GenerateToken(s.T(), builder.StrangerAddress, party.RoleOperator)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/sync/reconcile", map[string]any{"scope": "property:prop-1"}, token)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("success: arbiter resolves", func() {
		s.bookings.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).
			Return(nil, booking.ErrNotEscalated).Times(1)

		token := s.jwt.GenerateToken(s.T(), builder.ArbiterAddress, party.RoleArbiter)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings/1/admin-resolve", map[string]any{"guest_percentage": 50}, token)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

var _ commands.SyncCommands = (*commandsmock.MockSyncCommands)(nil)
