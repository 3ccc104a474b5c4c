package model

import (
	"time"

	"gorm.io/gorm"
)

// Reminder is a scheduled follow-up for a child profile, e.g. a re-screening
// four weeks after a high-risk report. The sweeper marks rows sent once due.
type Reminder struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"column:user_id;index"`
	PatientID uint      `json:"patient_id" gorm:"column:patient_id;index"`
	Title     string    `json:"title" gorm:"column:title" example:"Follow-up screening"`
	Notes     string    `json:"notes" gorm:"column:notes;type:text"`
	DueAt     time.Time `json:"due_at" gorm:"column:due_at;index"`
	Sent      bool      `json:"sent" gorm:"column:sent;default:false"`
}
