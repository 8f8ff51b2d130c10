package queries

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
	CursorVersionV1  = "v1"
)

// EncodeAfterCursor returns an opaque keyset cursor positioned after the
// given ledger id.
func EncodeAfterCursor(id int64) string {
	cursorData := fmt.Sprintf("%s:%d", CursorVersionV1, id)
	return base64.URLEncoding.EncodeToString([]byte(cursorData))
}

// Accepts a bare decimal ledger id as well as the v1 format
func DecodeAfterCursor(cursor string) (int64, error) {
	if cursor == "" {
		return 0, fmt.Errorf("cursor cannot be empty")
	}

	if decoded, err := base64.URLEncoding.DecodeString(cursor); err == nil {
		decodedStr := string(decoded)
		if strings.HasPrefix(decodedStr, CursorVersionV1+":") {
			return parseID(strings.TrimPrefix(decodedStr, CursorVersionV1+":"))
		}
	}

	return parseID(cursor)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ledger id: %w", err)
	}
	if id < 0 {
		return 0, fmt.Errorf("invalid ledger id: %d", id)
	}
	return id, nil
}

type Cursor struct {
	After string `json:"after,omitempty"`
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
