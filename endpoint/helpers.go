package endpoint

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nutriscan-health/nutriscan-api/middleware"
	"github.com/nutriscan-health/nutriscan-api/util"
)

// clientInfo groups the request origin fields threaded into audit logs.
type clientInfo struct {
	IP    string
	Agent string
}

func clientInfoFrom(c *gin.Context) clientInfo {
	return clientInfo{IP: c.ClientIP(), Agent: c.Request.UserAgent()}
}

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

func getUserIDOrRespond(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "User not authenticated", Err: fmt.Errorf("user id not found in context")})
		return 0, false
	}
	return userID, true
}

func parseIDParamOrRespond(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		util.CallUserError(c, util.APIErrorParams{Msg: fmt.Sprintf("Invalid %s", name), Err: fmt.Errorf("%s must be a positive integer", name)})
		return 0, false
	}
	return uint(id), true
}
