package model

import (
	"time"

	"gorm.io/gorm"
)

// Session is a persisted login session. The token is mirrored in Redis for
// fast middleware checks; the row is the source of truth.
type Session struct {
	gorm.Model
	UserID       uint      `json:"user_id" gorm:"column:user_id;index"`
	SessionToken string    `json:"session_token" gorm:"column:session_token;type:varchar(191);uniqueIndex"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"column:expires_at;index"`
	ClientIP     string    `json:"client_ip" gorm:"column:client_ip;type:varchar(45)"`
	Browser      string    `json:"browser" gorm:"column:browser;type:varchar(512)"`
}
