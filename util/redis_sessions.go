package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nutriscan-health/nutriscan-api/config"
)

// Redis keeps a fast lookup layer over the sessions table: one
// session:<token> entry per live token, plus a per-user set so every token
// a caregiver holds can be revoked in one call. MySQL stays the source of
// truth; all helpers are no-ops when Redis is not configured.

func sessionKey(token string) string {
	return "session:" + token
}

func userSessionsKey(userID uint) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

// MirrorSession caches the token-to-user mapping and registers the token in
// the user's session set. The set expires alongside the token, so sets for
// inactive accounts don't linger; all sessions share the same lifetime, so
// refreshing the TTL on each login is safe.
func MirrorSession(userID uint, token string, ttl time.Duration) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	pipe := rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(token), fmt.Sprintf("%d", userID), ttl)
	pipe.SAdd(ctx, userSessionsKey(userID), token)
	pipe.Expire(ctx, userSessionsKey(userID), ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// DropSession removes the cached token and its set membership. The set is
// deleted once its last token is gone.
func DropSession(userID uint, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	script := `
		redis.call('DEL', KEYS[1])
		local removed = redis.call('SREM', KEYS[2], ARGV[1])
		if removed > 0 and redis.call('SCARD', KEYS[2]) == 0 then
			redis.call('DEL', KEYS[2])
		end
		return removed
	`
	keys := []string{sessionKey(token), userSessionsKey(userID)}
	return rdb.Eval(context.Background(), script, keys, token).Err()
}

// RevokeUserSessions drops every cached session the user holds, set
// included. Used when an account is locked so stale tokens can't keep
// serving from the cache.
func RevokeUserSessions(userID uint) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	tokens, err := rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, sessionKey(token))
	}
	keys = append(keys, userSessionsKey(userID))
	return rdb.Del(ctx, keys...).Err()
}
