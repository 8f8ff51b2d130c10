//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"stayledger/internal/domain/party"
	"stayledger/internal/pkg/config"
	"stayledger/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) Service(t *testing.T) *jwt.Service {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	return jwt.NewService(h.cfg.Secret, duration)
}

func (h *JWTHelper) GenerateToken(t *testing.T, address string, role party.Role) string {
	t.Helper()
	token, err := h.Service(t).GenerateToken(address, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, address string, role party.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, 1*time.Millisecond)
	token, err := service.GenerateToken(address, role)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
