package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutriscan-health/nutriscan-api/model"
	"github.com/nutriscan-health/nutriscan-api/util"
)

// ValidateToken godoc
// @Summary      Validate session token
// @Description  Validate if the session token is valid and not expired
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Valid session token"
// @Failure      401 {object} util.APIResponse "Invalid or expired session token"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /token/validate [get]
func ValidateToken(c *gin.Context) {
	sessionToken := c.GetHeader("session-token")
	if sessionToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
		c.Abort()
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var result struct {
		model.Session
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	err := db.Table("sessions").
		Select("sessions.*, users.name as name, users.email as email").
		Joins("JOIN users ON sessions.user_id = users.id").
		Where("session_token = ? AND expires_at > ? AND sessions.deleted_at IS NULL", sessionToken, time.Now()).
		First(&result).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
		c.Abort()
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Valid session token",
		Data: result,
	})
}
