package syncer

import (
	"time"

	"stayledger/internal/pkg/config"
)

const DefaultCursorName = "ledger"

type Config struct {
	CursorName          string
	PollInterval        time.Duration
	ReconcileInterval   time.Duration
	PruneInterval       time.Duration
	CallTimeout         time.Duration
	MaxBlockRange       int64
	SafetyWindowBlocks  int64
	ProcessedRetention  time.Duration
	ProcessedMaxEntries int
}

func ConfigFrom(c config.SyncConfig) Config {
	return Config{
		CursorName:          DefaultCursorName,
		PollInterval:        c.PollInterval,
		ReconcileInterval:   c.ReconcileInterval,
		PruneInterval:       c.PruneInterval,
		CallTimeout:         c.CallTimeout,
		MaxBlockRange:       c.MaxBlockRange,
		SafetyWindowBlocks:  c.SafetyWindowBlocks,
		ProcessedRetention:  c.ProcessedRetention,
		ProcessedMaxEntries: c.ProcessedMaxEntries,
	}
}

func (c Config) withDefaults() Config {
	if c.CursorName == "" {
		c.CursorName = DefaultCursorName
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 10 * time.Second
	}
	if c.MaxBlockRange <= 0 {
		c.MaxBlockRange = 2000
	}
	if c.SafetyWindowBlocks < 0 {
		c.SafetyWindowBlocks = 0
	}
	return c
}
