package endpoint

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nutriscan-health/nutriscan-api/model"
)

func TestDashboardSummary(t *testing.T) {
	r, db, user, token := setupAuthenticatedTest(t)
	patient := createTestPatient(t, db, user.ID)
	createTestReport(t, db, user.ID, patient.ID, "Low")
	createTestReport(t, db, user.ID, patient.ID, "High")
	assert.NoError(t, db.Create(&model.Reminder{UserID: user.ID, PatientID: patient.ID, Title: "Follow-up", DueAt: time.Now().Add(48 * time.Hour)}).Error)
	r.GET("/dashboard/summary", Dashboard)

	w, err := doRequest(r, requestParams{method: http.MethodGet, path: "/dashboard/summary", token: token})
	assert.NoError(t, err)

	response := decodeBody(t, w)
	assertSuccessResponse(t, w, response)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total_patients"])
	assert.Equal(t, float64(2), data["total_reports"])
	assert.NotEmpty(t, data["tip_of_the_day"])

	risk := data["risk_breakdown"].(map[string]interface{})
	assert.Equal(t, float64(1), risk["Low"])
	assert.Equal(t, float64(1), risk["High"])

	latest := data["latest_reports"].([]interface{})
	assert.Len(t, latest, 2)

	watch := data["patients_to_watch"].([]interface{})
	assert.Len(t, watch, 1)

	upcoming := data["upcoming_reminders"].([]interface{})
	assert.Len(t, upcoming, 1)
}

func TestDashboardEmptyAccount(t *testing.T) {
	r, _, _, token := setupAuthenticatedTest(t)
	r.GET("/dashboard/summary", Dashboard)

	w, err := doRequest(r, requestParams{method: http.MethodGet, path: "/dashboard/summary", token: token})
	assert.NoError(t, err)

	response := decodeBody(t, w)
	assertSuccessResponse(t, w, response)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["total_patients"])
	assert.Equal(t, float64(0), data["total_reports"])
}

func TestStatusBreakdown(t *testing.T) {
	r, db, user, token := setupAuthenticatedTest(t)
	patient := createTestPatient(t, db, user.ID)
	createTestReport(t, db, user.ID, patient.ID, "Low")
	createTestReport(t, db, user.ID, patient.ID, "High")
	r.GET("/dashboard/status-breakdown", StatusBreakdown)

	w, err := doRequest(r, requestParams{method: http.MethodGet, path: "/dashboard/status-breakdown", token: token})
	assert.NoError(t, err)

	response := decodeBody(t, w)
	assertSuccessResponse(t, w, response)
	data := response["data"].(map[string]interface{})
	breakdown := data["status_breakdown"].(map[string]interface{})
	assert.Equal(t, float64(2), breakdown["Normal"])
}
