//go:build unit

package components_test

import (
	"testing"
	"time"

	"stayledger/cmd/bootstrap/components"
	"stayledger/internal/domain/booking"
	"stayledger/internal/pkg/clock"
	"stayledger/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLifecycle(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

	t.Run("success: configured rates", func(t *testing.T) {
		l, err := components.NewLifecycle(clk, config.NewTestConfig())
		require.NoError(t, err)
		assert.Equal(t, booking.FeeRate{Numerator: 300, Denominator: 10000}, l.Fees.OnLedger)
	})

	t.Run("error: zero denominator", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.Fees.Denominator = 0
		_, err := components.NewLifecycle(clk, cfg)
		assert.ErrorIs(t, err, booking.ErrInvalidFeeRate)
	})

	t.Run("error: rate above denominator", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.Fees.OffChainBps = 10001
		_, err := components.NewLifecycle(clk, cfg)
		assert.ErrorIs(t, err, booking.ErrInvalidFeeRate)
	})
}
