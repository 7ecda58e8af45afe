package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staysure-portal-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const sessionTTL = 24 * time.Hour

// SessionRepository keeps the current-session snapshot in a Redis key per
// user, matching the access-token lifetime. Logout deletes the slot.
type SessionRepository struct {
	rdb *redis.Client
}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

func (r *SessionRepository) Save(ctx context.Context, snapshot *store.SessionSnapshot) error {
	if r.rdb == nil {
		return nil // session slot is best-effort when Redis is down
	}
	raw, err := snapshot.Marshal()
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, sessionKey(snapshot.UserID), raw, sessionTTL).Err()
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (*store.SessionSnapshot, error) {
	if r.rdb == nil {
		return nil, nil
	}
	raw, err := r.rdb.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return store.UnmarshalSessionSnapshot(raw)
}

func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(ctx, sessionKey(userID)).Err()
}
