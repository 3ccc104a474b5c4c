package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutriscan-health/nutriscan-api/config"
	"github.com/nutriscan-health/nutriscan-api/model"
	"github.com/nutriscan-health/nutriscan-api/util"
)

const userIDContextKey = "user_id"

// SessionAuth validates the session-token header against Redis first and
// falls back to the sessions table when Redis is unavailable. On success it
// stores the authenticated user id in the request context.
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("session-token")
		if token == "" {
			util.LogUnauthorizedAccess("", "", c.ClientIP(), c.Request.URL.Path, "missing session token")
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Session token not provided",
				Err: fmt.Errorf("session token not provided"),
			})
			c.Abort()
			return
		}

		if userID, ok := lookupSessionInRedis(token); ok {
			c.Set(userIDContextKey, userID)
			c.Next()
			return
		}

		userID, ok := lookupSessionInDB(c, token)
		if !ok {
			util.LogUnauthorizedAccess("", "", c.ClientIP(), c.Request.URL.Path, "invalid or expired session token")
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid or expired session token",
				Err: fmt.Errorf("session not found"),
			})
			c.Abort()
			return
		}

		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// lookupSessionInRedis resolves session:<token> to a user id. The value is
// the user id in decimal, as written at login.
func lookupSessionInRedis(token string) (uint, bool) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	val, err := rdb.Get(ctx, fmt.Sprintf("session:%s", token)).Result()
	if err != nil {
		return 0, false
	}
	// Tolerate legacy "userID:roleID" values.
	if idx := strings.IndexByte(val, ':'); idx >= 0 {
		val = val[:idx]
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func lookupSessionInDB(c *gin.Context, token string) (uint, bool) {
	db := GetDB(c)
	if db == nil {
		return 0, false
	}
	var session model.Session
	err := db.Where("session_token = ? AND expires_at > ?", token, time.Now()).First(&session).Error
	if err != nil {
		return 0, false
	}
	return session.UserID, true
}

// GetUserID returns the authenticated user's id set by SessionAuth.
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(userIDContextKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// SetUserIDForTest injects a user id into the context for handler tests.
func SetUserIDForTest(c *gin.Context, id uint) {
	c.Set(userIDContextKey, id)
}
