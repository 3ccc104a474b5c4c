package endpoint

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nutriscan-health/nutriscan-api/model"
	"github.com/nutriscan-health/nutriscan-api/util"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required" example:"Dewi Lestari"`
	Email    string `json:"email" binding:"required,email" example:"dewi@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// Signup godoc
// @Summary      User signup
// @Description  Register a new caregiver account
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup details"
// @Success      200 {object} util.APIResponse{data=string} "Signup successful"
// @Failure      400 {object} util.APIResponse "Invalid request or email already exists"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /signup [post]
func Signup(c *gin.Context) {
	var req SignupRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	if !ensureEmailAvailable(c, db, req.Email) {
		return
	}

	newUser := model.User{
		Name:           util.NormalizeName(req.Name),
		Email:          req.Email,
		Password:       util.HashPassword(req.Password),
		FailedAttempts: 0,
		LockedUntil:    nil,
	}
	if err := db.Create(&newUser).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create new user", Err: err})
		return
	}

	ci := clientInfoFrom(c)
	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventSignupSuccess,
		UserID:    fmt.Sprintf("%d", newUser.ID),
		Email:     newUser.Email,
		IP:        ci.IP,
		UserAgent: ci.Agent,
		Message:   "User signed up successfully",
	})

	tokenString, ok := createSignupTokenOrRespond(c, req.Email)
	if !ok {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Signup successful",
		Data: tokenString,
	})
}

func ensureEmailAvailable(c *gin.Context, db *gorm.DB, email string) bool {
	var existingUser model.User
	err := db.First(&existingUser, "email = ?", email).Error
	if err != gorm.ErrRecordNotFound {
		if err == nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "Email already exists", Err: fmt.Errorf("email already exists")})
			return false
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
		return false
	}
	return true
}

func createSignupTokenOrRespond(c *gin.Context, email string) (string, bool) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(time.Hour * 1).Unix(),
	})

	tokenString, err := token.SignedString(util.GetJWTSecretByte())
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return "", false
	}
	return tokenString, true
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"dewi@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type LoginResponse struct {
	Token  string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	UserID uint   `json:"user_id" example:"1"`
	Name   string `json:"name" example:"Dewi Lestari"`
}

// helper bundle threaded through the Login flow
type loginContext struct {
	C     *gin.Context
	DB    *gorm.DB
	Email string
	CI    clientInfo
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with email and password, returns a session token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid request payload or credentials"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /login [post]
func Login(c *gin.Context) {
	var req LoginRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	ctx := loginContext{C: c, DB: db, Email: req.Email, CI: clientInfoFrom(c)}

	user, ok := loadUserForLogin(ctx)
	if !ok {
		return
	}

	if !ensureAccountNotLocked(ctx, &user) {
		return
	}

	if !verifyPasswordOrRespond(ctx, &user, req.Password) {
		return
	}

	finalizeLogin(ctx, &user)
}

func loadUserForLogin(ctx loginContext) (model.User, bool) {
	var user model.User
	err := ctx.DB.Model(&user).Where("email = ?", ctx.Email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "user not found")
		util.CallUserError(ctx.C, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("user not found")})
		return model.User{}, false
	}
	if err != nil {
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "database error")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Database error", Err: err})
		return model.User{}, false
	}
	return user, true
}

func ensureAccountNotLocked(ctx loginContext, user *model.User) bool {
	if user.LockedUntil != nil && *user.LockedUntil > time.Now().Unix() {
		expiry := time.Unix(*user.LockedUntil, 0)
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "account locked")
		util.CallUserError(ctx.C, util.APIErrorParams{
			Msg: fmt.Sprintf("Account is locked until %s due to multiple failed login attempts", expiry.Format(time.RFC3339)),
			Err: fmt.Errorf("account locked"),
		})
		return false
	}
	return true
}

func verifyPasswordOrRespond(ctx loginContext, user *model.User, plain string) bool {
	hashed := util.HashPassword(plain)
	if subtle.ConstantTimeCompare([]byte(hashed), []byte(user.Password)) != 1 {
		incrementFailedAttempts(ctx.DB, user, ctx.CI)
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "invalid password")
		util.CallUserError(ctx.C, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("invalid password")})
		return false
	}
	return true
}

func incrementFailedAttempts(db *gorm.DB, user *model.User, ci clientInfo) {
	user.FailedAttempts++
	if user.FailedAttempts >= 5 {
		lockUntil := time.Now().Add(15 * time.Minute).Unix()
		user.LockedUntil = &lockUntil
		util.LogAccountLocked(user.ID, user.Email, ci.IP, "too many failed login attempts")

		// A locked account forfeits its live sessions.
		if err := db.Where("user_id = ?", user.ID).Delete(&model.Session{}).Error; err != nil {
			logrus.Warnf("failed to clear sessions for locked user %d: %v", user.ID, err)
		}
		if err := util.RevokeUserSessions(user.ID); err != nil {
			logrus.Warnf("session cache revoke failed for locked user %d: %v", user.ID, err)
		}
	}
	if err := db.Save(user).Error; err != nil {
		util.LogLoginFailure(user.Email, ci.IP, ci.Agent, "failed to update failed attempts")
	}
}

func resetFailedAttempts(db *gorm.DB, user *model.User) error {
	if user.FailedAttempts > 0 || user.LockedUntil != nil {
		user.FailedAttempts = 0
		user.LockedUntil = nil
		return db.Save(user).Error
	}
	return nil
}

func createJWTToken(user model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":   user.Email,
		"user_id": user.ID,
		"exp":     time.Now().Add(time.Hour * 1).Unix(),
	})
	return token.SignedString(util.GetJWTSecretByte())
}

func finalizeLogin(ctx loginContext, user *model.User) {
	if err := resetFailedAttempts(ctx.DB, user); err != nil {
		util.LogAuditEvent(util.AuditEvent{
			EventType: util.EventLoginFailure,
			UserID:    fmt.Sprintf("%d", user.ID),
			Email:     user.Email,
			IP:        ctx.CI.IP,
			Message:   fmt.Sprintf("Failed to reset failed attempts: %v", err),
		})
	}

	tokenString, err := createJWTToken(*user)
	if err != nil {
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "token generation failed")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	session := model.Session{
		UserID:       user.ID,
		SessionToken: tokenString,
		ExpiresAt:    time.Now().Add(time.Hour * 1),
		ClientIP:     ctx.CI.IP,
		Browser:      ctx.CI.Agent,
	}
	if err := ctx.DB.Create(&session).Error; err != nil {
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "session creation failed")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Failed to record session", Err: err})
		return
	}

	// Mirror the session into Redis. Best-effort, but a degraded cache
	// should be visible in the logs.
	if err := util.MirrorSession(session.UserID, tokenString, time.Until(session.ExpiresAt)); err != nil {
		logrus.Warnf("session cache write failed for user %d: %v", session.UserID, err)
	}

	util.LogLoginSuccess(user.ID, user.Email, ctx.CI.IP, ctx.CI.Agent)
	util.CallSuccessOK(ctx.C, util.APISuccessParams{
		Msg:  "Login successful",
		Data: LoginResponse{Token: tokenString, UserID: user.ID, Name: user.Name},
	})
}

// Logout godoc
// @Summary      User logout
// @Description  Invalidate the user session token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Logout successful"
// @Failure      400 {object} util.APIResponse "Session not found"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /logout [delete]
func Logout(c *gin.Context) {
	sessionToken := c.GetHeader("session-token")
	if sessionToken == "" {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Session token not provided",
			Err: fmt.Errorf("session token not provided"),
		})
		c.Abort()
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var session model.Session
	if err := db.Where("session_token = ?", sessionToken).First(&session).Error; err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Session not found", Err: err})
		return
	}

	var user model.User
	if err := db.First(&user, session.UserID).Error; err == nil {
		util.LogLogout(user.ID, user.Email, c.ClientIP(), c.Request.UserAgent())
	}

	if err := db.Where("session_token = ?", sessionToken).Delete(&session).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete session", Err: err})
		return
	}

	if err := util.DropSession(session.UserID, sessionToken); err != nil {
		logrus.Warnf("session cache cleanup failed for user %d: %v", session.UserID, err)
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Logout successful",
	})
}
