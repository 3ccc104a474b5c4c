package model

import "gorm.io/gorm"

// User is a parent or guardian account that owns child profiles and the
// reports generated for them.
type User struct {
	gorm.Model
	Name     string `json:"name" gorm:"column:name"`
	Email    string `json:"email" gorm:"column:email;type:varchar(191);uniqueIndex"`
	Password string `json:"-" gorm:"column:password"`

	// Brute-force lockout state. LockedUntil is a Unix timestamp; nil
	// means not locked.
	FailedAttempts int    `json:"-" gorm:"column:failed_attempts;default:0"`
	LockedUntil    *int64 `json:"-" gorm:"column:locked_until"`
}
