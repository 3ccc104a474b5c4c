package endpoint

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nutriscan-health/nutriscan-api/middleware"
	"github.com/nutriscan-health/nutriscan-api/model"
	"github.com/nutriscan-health/nutriscan-api/util"
)

func createTestUser(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	user := model.User{
		Name:     "Test User",
		Email:    email,
		Password: util.HashPassword("password123"),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestSession(t *testing.T, db *gorm.DB, userID uint) string {
	t.Helper()
	session := model.Session{
		UserID:       userID,
		SessionToken: "test-token-" + time.Now().Format("150405.000000"),
		ExpiresAt:    time.Now().Add(time.Hour),
		ClientIP:     "127.0.0.1",
		Browser:      "go-test",
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
	return session.SessionToken
}

func createTestPatient(t *testing.T, db *gorm.DB, userID uint) model.Patient {
	t.Helper()
	patient := model.Patient{
		UserID:    userID,
		ChildName: "Siti Rahma",
		Sex:       "female",
		AgeMonths: 54,
		HeightCm:  104.5,
		WeightKg:  16.2,
	}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("failed to create test patient: %v", err)
	}
	return patient
}

// setupAuthenticatedTest returns a router with the session middleware wired,
// the DB, and a valid session token for a freshly created user.
func setupAuthenticatedTest(t *testing.T) (*gin.Engine, *gorm.DB, model.User, string) {
	t.Helper()
	r, db := setupEndpointTest(t)
	user := createTestUser(t, db, "owner@example.com")
	token := createTestSession(t, db, user.ID)
	r.Use(middleware.SessionAuth())
	return r, db, user, token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return out
}
