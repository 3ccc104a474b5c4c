package endpoint

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutriscan-health/nutriscan-api/model"
	"github.com/nutriscan-health/nutriscan-api/util"
)

type reminderRequest struct {
	PatientID uint      `json:"patient_id" binding:"required" example:"3"`
	Title     string    `json:"title" binding:"required" example:"Follow-up screening"`
	Notes     string    `json:"notes" example:"Repeat measurement after diet adjustment"`
	DueAt     time.Time `json:"due_at" binding:"required" example:"2026-09-21T09:00:00Z"`
}

// CreateReminder godoc
// @Summary      Schedule a follow-up reminder
// @Description  Create a reminder tied to one of the user's child profiles
// @Tags         Reminder
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body reminderRequest true "Reminder details"
// @Success      200 {object} util.APIResponse{data=model.Reminder} "Reminder created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /reminder [post]
func CreateReminder(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}

	var req reminderRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	if req.DueAt.Before(time.Now()) {
		util.CallUserError(c, util.APIErrorParams{Msg: "Due date must be in the future", Err: fmt.Errorf("due_at in the past")})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	if _, ok := getOwnedPatient(c, db, userID, req.PatientID); !ok {
		return
	}

	reminder := model.Reminder{
		UserID:    userID,
		PatientID: req.PatientID,
		Title:     req.Title,
		Notes:     req.Notes,
		DueAt:     req.DueAt,
	}
	if err := db.Create(&reminder).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create reminder", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Reminder created",
		Data: reminder,
	})
}

// ListReminders godoc
// @Summary      List reminders
// @Description  Get the user's reminders, pending first, then by due date
// @Tags         Reminder
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        pending query bool false "Only reminders not yet sent"
// @Success      200 {object} util.APIResponse{data=object} "Reminders retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /reminder [get]
func ListReminders(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	query := db.Where("user_id = ?", userID)
	if c.Query("pending") == "true" {
		query = query.Where("sent = ?", false)
	}

	var reminders []model.Reminder
	if err := query.Order("sent ASC, due_at ASC").Find(&reminders).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve reminders", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Reminders retrieved",
		Data: map[string]interface{}{"total_fetched": len(reminders), "reminders": reminders},
	})
}

// CompleteReminder godoc
// @Summary      Complete a reminder
// @Description  Mark one of the user's reminders as handled so it stops showing as pending
// @Tags         Reminder
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Reminder ID"
// @Success      200 {object} util.APIResponse{data=model.Reminder} "Reminder completed"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Reminder not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /reminder/{id}/complete [patch]
func CompleteReminder(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	reminderID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var reminder model.Reminder
	if err := db.Where("id = ? AND user_id = ?", reminderID, userID).First(&reminder).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Reminder not found", Err: err})
		return
	}

	if !reminder.Sent {
		if err := db.Model(&reminder).Update("sent", true).Error; err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to complete reminder", Err: err})
			return
		}
		reminder.Sent = true
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Reminder completed",
		Data: reminder,
	})
}

// DeleteReminder godoc
// @Summary      Delete a reminder
// @Description  Soft delete one of the user's reminders
// @Tags         Reminder
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Reminder ID"
// @Success      200 {object} util.APIResponse "Reminder deleted"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Reminder not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /reminder/{id} [delete]
func DeleteReminder(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	reminderID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var reminder model.Reminder
	if err := db.Where("id = ? AND user_id = ?", reminderID, userID).First(&reminder).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Reminder not found", Err: err})
		return
	}

	if err := db.Delete(&reminder).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete reminder", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Reminder deleted",
	})
}
