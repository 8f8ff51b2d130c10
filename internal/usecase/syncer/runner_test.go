//go:build unit

package syncer_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"stayledger/internal/usecase/syncer"
	"stayledger/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner(t *testing.T) {
	h := newHarness(t, func(c *syncer.Config) {
		c.PollInterval = 10 * time.Millisecond
	})
	h.ledger.headErr = errDown

	runner := syncer.NewRunner(h.engine, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	runner.Start(ctx)
	runner.Start(ctx)
	// Cancelling the start context does not stop the loops.
	cancel()

	time.Sleep(30 * time.Millisecond)
	_, started := h.engine.Cursor()
	assert.False(t, started, "resume keeps failing while the ledger is down")

	h.ledger.mu.Lock()
	h.ledger.headErr = nil
	h.ledger.mu.Unlock()
	h.block(builder.Created(1))

	assert.Eventually(t, func() bool {
		_, started := h.engine.Cursor()
		return started
	}, time.Second, 5*time.Millisecond)

	h.block(builder.Created(2))
	assert.Eventually(t, func() bool {
		_, ok := h.projection.booking(2)
		return ok
	}, time.Second, 5*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, runner.Stop(stopCtx))
	require.NoError(t, runner.Stop(stopCtx))
}
