// Package cron runs the background jobs: the reminder sweeper that marks
// follow-up reminders due and surfaces them in the audit trail.
package cron

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nutriscan-health/nutriscan-api/model"
)

// ReminderSweeper periodically flags reminders whose due date has passed.
type ReminderSweeper struct {
	DB       *gorm.DB
	Log      *logrus.Logger
	Interval time.Duration
}

// NewReminderSweeper creates a sweeper with a 1-minute default interval.
func NewReminderSweeper(db *gorm.DB, logger *logrus.Logger) *ReminderSweeper {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReminderSweeper{
		DB:       db,
		Log:      logger,
		Interval: time.Minute,
	}
}

// Start schedules the sweep and returns the running scheduler. Callers stop
// it with scheduler.Stop() during shutdown.
func (rs *ReminderSweeper) Start() *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.Local)

	scheduler.Every(rs.Interval).Do(func() {
		if err := rs.SweepDueReminders(); err != nil {
			rs.Log.WithError(err).Error("reminder sweep failed")
		}
	})

	scheduler.StartAsync()
	rs.Log.Info("reminder sweeper started")

	return scheduler
}

// SweepDueReminders marks every unsent, due reminder as sent and logs it.
// Rows are processed one by one so a single bad row does not abort the run.
func (rs *ReminderSweeper) SweepDueReminders() error {
	now := time.Now()

	var due []model.Reminder
	if err := rs.DB.Where("sent = ? AND due_at <= ?", false, now).Find(&due).Error; err != nil {
		return err
	}

	for _, reminder := range due {
		if err := rs.DB.Model(&model.Reminder{}).
			Where("id = ? AND sent = ?", reminder.ID, false).
			Update("sent", true).Error; err != nil {
			rs.Log.WithError(err).WithField("reminder_id", reminder.ID).Error("failed to mark reminder sent")
			continue
		}
		rs.Log.WithFields(logrus.Fields{
			"reminder_id": reminder.ID,
			"user_id":     reminder.UserID,
			"patient_id":  reminder.PatientID,
			"title":       reminder.Title,
		}).Info("reminder due")
	}

	return nil
}
