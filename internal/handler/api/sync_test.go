//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/party"
	"stayledger/internal/handler/api"
	resdto "stayledger/internal/handler/dto/response"
	"stayledger/internal/pkg/errs"
	"stayledger/internal/usecase/queries"
	"stayledger/internal/usecase/readmodel"
	"stayledger/internal/usecase/shared"
	"stayledger/internal/usecase/syncer"
	"stayledger/tests/common/builder"
	"stayledger/tests/common/httptest"
	commandsmock "stayledger/tests/mock/commands"
	queriesmock "stayledger/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SyncHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockSyncCommands
	mockQueries  *queriesmock.MockSyncQueries
	handler      *api.SyncHandler
}

func (s *SyncHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockSyncCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockSyncQueries(s.mockCtrl)
	s.handler = api.NewSyncHandler(s.mockCommands, s.mockQueries)

	s.router.GET("/sync/status", s.handler.Status)
	s.router.POST("/sync/reconcile", fakeAuth(party.RoleOperator), s.handler.Reconcile)
}

func (s *SyncHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSyncHandlerSuite(t *testing.T) {
	suite.Run(t, new(SyncHandlerTestSuite))
}

func (s *SyncHandlerTestSuite) TestStatus() {
	s.Run("success: reports lag", func() {
		s.mockQueries.EXPECT().Status(gomock.Any()).Return(&queries.SyncStatusView{
			SyncStatusRM:    readmodel.SyncStatusRM{Cursor: 40, HasCursor: true, ProcessedCount: 120, Bookings: 30, Properties: 5},
			LedgerHead:      42,
			Lag:             2,
			LedgerReachable: true,
		}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sync/status", nil, "")

		var response resdto.SyncStatusResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(40), response.Cursor)
		s.Equal(int64(2), response.Lag)
		s.Equal(30, response.Bookings)
		s.True(response.LedgerReachable)
	})

	s.Run("error: projection unavailable", func() {
		s.mockQueries.EXPECT().Status(gomock.Any()).
			Return(nil, errs.Mark(errors.New("unable to open database file"), errs.ErrProjectionUnavailable)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sync/status", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusServiceUnavailable, "temporarily unavailable")
	})
}

func (s *SyncHandlerTestSuite) TestReconcile() {
	url := "/sync/reconcile"

	s.Run("success: empty body reconciles everything", func() {
		s.mockCommands.EXPECT().Reconcile(gomock.Any(), shared.AllScope()).
			Return(&syncer.ReconciliationReport{Scope: "all", Examined: 7, Upserted: 2, Unchanged: 5, Duration: 1500 * time.Millisecond}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, builder.ArbiterAddress)

		var response resdto.ReconcileResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(7, response.Examined)
		s.Equal(int64(1500), response.DurationMS)
	})

	s.Run("success: guest scope", func() {
		s.mockCommands.EXPECT().Reconcile(gomock.Any(), shared.GuestScope(booking.MustAddress(builder.GuestAddress))).
			Return(&syncer.ReconciliationReport{Scope: "guest:" + builder.GuestAddress}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"scope": "guest:" + builder.GuestAddress}, builder.ArbiterAddress)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: invalid scope", func() {
		for _, scope := range []string{"planet:earth", "property:", "host:0x12"} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"scope": scope}, builder.ArbiterAddress)
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid scope")
		}
	})

	s.Run("error: sync engine not started", func() {
		s.mockCommands.EXPECT().Reconcile(gomock.Any(), gomock.Any()).Return(nil, errs.ErrSyncNotStarted).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, builder.ArbiterAddress)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusServiceUnavailable, "")
	})
}
