package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const dbContextKey = "db"

// DatabaseMiddleware injects the shared gorm connection into the request
// context so handlers can fetch it with GetDB.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbContextKey, db)
		c.Next()
	}
}

// GetDB returns the request-scoped database handle, or nil when the
// middleware was not installed.
func GetDB(c *gin.Context) *gorm.DB {
	value, exists := c.Get(dbContextKey)
	if !exists {
		return nil
	}
	db, ok := value.(*gorm.DB)
	if !ok {
		return nil
	}
	return db
}
