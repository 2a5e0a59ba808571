package repository

import (
	"context"
	"strconv"

	"github.com/Pavel2232/ShopBot/internal/model"
)

// SessionStore persists conversation sessions keyed by user id.
// Implementations: Redis (production) or in-memory (local dev / single instance).
type SessionStore interface {
	// Get returns nil, nil when the user has no stored session.
	Get(ctx context.Context, userID int64) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, userID int64) error
}

const sessionKeyPrefix = "shopbot:session:"

func sessionKey(userID int64) string {
	return sessionKeyPrefix + strconv.FormatInt(userID, 10)
}
