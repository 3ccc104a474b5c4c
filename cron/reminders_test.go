package cron

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nutriscan-health/nutriscan-api/model"
)

func setupSweeperDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:sweeper_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := db.AutoMigrate(&model.Reminder{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestSweepDueReminders(t *testing.T) {
	db := setupSweeperDB(t)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	sweeper := NewReminderSweeper(db, logger)

	past := model.Reminder{UserID: 1, PatientID: 1, Title: "due now", DueAt: time.Now().Add(-time.Minute)}
	future := model.Reminder{UserID: 1, PatientID: 1, Title: "later", DueAt: time.Now().Add(time.Hour)}
	assert.NoError(t, db.Create(&past).Error)
	assert.NoError(t, db.Create(&future).Error)

	assert.NoError(t, sweeper.SweepDueReminders())

	var swept, pending model.Reminder
	assert.NoError(t, db.First(&swept, past.ID).Error)
	assert.NoError(t, db.First(&pending, future.ID).Error)
	assert.True(t, swept.Sent)
	assert.False(t, pending.Sent)
}

func TestSweepIsIdempotent(t *testing.T) {
	db := setupSweeperDB(t)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	sweeper := NewReminderSweeper(db, logger)

	reminder := model.Reminder{UserID: 1, PatientID: 1, Title: "once", DueAt: time.Now().Add(-time.Minute)}
	assert.NoError(t, db.Create(&reminder).Error)

	assert.NoError(t, sweeper.SweepDueReminders())
	assert.NoError(t, sweeper.SweepDueReminders())

	var count int64
	db.Model(&model.Reminder{}).Where("sent = ?", true).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSweeperDefaults(t *testing.T) {
	sweeper := NewReminderSweeper(setupSweeperDB(t), nil)
	assert.NotNil(t, sweeper.Log)
	assert.Equal(t, time.Minute, sweeper.Interval)
}
