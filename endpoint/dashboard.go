package endpoint

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutriscan-health/nutriscan-api/model"
	"github.com/nutriscan-health/nutriscan-api/util"
)

// healthTips rotates one tip per day on the dashboard.
var healthTips = []string{
	"Offer water instead of sugary drinks; children need 6-8 glasses a day.",
	"Include a protein source in every meal: eggs, fish, beans, or dairy.",
	"Aim for at least 60 minutes of active play every day.",
	"Colorful plates help: add fruits and vegetables of different colors.",
	"Regular sleep (8-10 hours) supports healthy growth and appetite.",
	"Iron-rich foods like leafy greens and lean meat support nail and skin health.",
	"Re-measure height and weight monthly to track growth trends early.",
}

type dashboardSummary struct {
	TotalPatients     int64            `json:"total_patients"`
	TotalReports      int64            `json:"total_reports"`
	StatusBreakdown   map[string]int64 `json:"status_breakdown"`
	RiskBreakdown     map[string]int64 `json:"risk_breakdown"`
	LatestReports     []model.Report   `json:"latest_reports"`
	PatientsToWatch   []model.Report   `json:"patients_to_watch"`
	UpcomingReminders []model.Reminder `json:"upcoming_reminders"`
	TipOfTheDay       string           `json:"tip_of_the_day"`
}

// Dashboard godoc
// @Summary      Dashboard summary
// @Description  Aggregate counts, status and risk breakdowns, latest reports, children to watch, upcoming reminders, and a daily tip
// @Tags         Dashboard
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=dashboardSummary} "Dashboard retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /dashboard/summary [get]
func Dashboard(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	summary := dashboardSummary{
		StatusBreakdown: map[string]int64{},
		RiskBreakdown:   map[string]int64{},
		TipOfTheDay:     healthTips[time.Now().YearDay()%len(healthTips)],
	}

	db.Model(&model.Patient{}).Where("user_id = ?", userID).Count(&summary.TotalPatients)
	db.Model(&model.Report{}).Where("user_id = ?", userID).Count(&summary.TotalReports)

	type bucket struct {
		Key   string
		Count int64
	}

	var statusRows []bucket
	if err := db.Model(&model.Report{}).
		Select("nutrition_status as `key`, count(*) as count").
		Where("user_id = ?", userID).
		Group("nutrition_status").
		Scan(&statusRows).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to aggregate reports", Err: err})
		return
	}
	for _, row := range statusRows {
		summary.StatusBreakdown[row.Key] = row.Count
	}

	var riskRows []bucket
	if err := db.Model(&model.Report{}).
		Select("risk_level as `key`, count(*) as count").
		Where("user_id = ?", userID).
		Group("risk_level").
		Scan(&riskRows).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to aggregate reports", Err: err})
		return
	}
	for _, row := range riskRows {
		summary.RiskBreakdown[row.Key] = row.Count
	}

	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Limit(5).Find(&summary.LatestReports).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve latest reports", Err: err})
		return
	}

	// Children whose most recent screening landed in a high band.
	if err := db.Where("user_id = ? AND risk_level IN ?", userID, []string{"High", "Critical"}).
		Order("created_at DESC").Limit(5).Find(&summary.PatientsToWatch).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve high-risk reports", Err: err})
		return
	}

	if err := db.Where("user_id = ? AND sent = ?", userID, false).
		Order("due_at ASC").Limit(5).Find(&summary.UpcomingReminders).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve reminders", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Dashboard retrieved",
		Data: summary,
	})
}

// StatusBreakdown godoc
// @Summary      Nutrition status breakdown
// @Description  Count of the user's reports per nutrition status
// @Tags         Dashboard
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=object} "Breakdown retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /dashboard/status-breakdown [get]
func StatusBreakdown(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var rows []bucket
	if err := db.Model(&model.Report{}).
		Select("nutrition_status as `key`, count(*) as count").
		Where("user_id = ?", userID).
		Group("nutrition_status").
		Scan(&rows).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to aggregate reports", Err: err})
		return
	}

	breakdown := map[string]int64{}
	for _, row := range rows {
		breakdown[row.Key] = row.Count
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Breakdown retrieved",
		Data: map[string]interface{}{"status_breakdown": breakdown},
	})
}
