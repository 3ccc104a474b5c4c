package endpoint

import (
	"github.com/gin-gonic/gin"

	"github.com/nutriscan-health/nutriscan-api/util"
)

// Healthz godoc
// @Summary      Health check
// @Description  Liveness probe; verifies the database connection
// @Tags         Health
// @Produce      json
// @Success      200 {object} util.APIResponse "Service healthy"
// @Failure      500 {object} util.APIResponse "Service unhealthy"
// @Router       /healthz [get]
func Healthz(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database unreachable", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Service healthy",
		Data: map[string]string{"status": "ok"},
	})
}
