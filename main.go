// main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nutriscan-health/nutriscan-api/config"
	"github.com/nutriscan-health/nutriscan-api/cron"
	_ "github.com/nutriscan-health/nutriscan-api/docs"
	"github.com/nutriscan-health/nutriscan-api/endpoint"
	"github.com/nutriscan-health/nutriscan-api/llm"
	"github.com/nutriscan-health/nutriscan-api/middleware"
	"github.com/nutriscan-health/nutriscan-api/model"
	"github.com/nutriscan-health/nutriscan-api/predict"
	"github.com/nutriscan-health/nutriscan-api/util"
	"github.com/nutriscan-health/nutriscan-api/who"
)

func main() {
	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectMySQL()
	if err != nil {
		logger.Fatalf("Error connecting to MySQL: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Patient{},
		&model.Report{},
		&model.Reminder{},
		&model.AuditLog{},
	); err != nil {
		logger.Fatalf("Error migrating schema: %v", err)
	}
	util.SetAuditLoggerDB(db)

	if _, err := config.ConnectRedis(); err != nil {
		logger.Warnf("Redis unavailable, sessions and rate limiting run on the database only: %v", err)
	}

	engine, err := who.NewEngine(who.EngineConfig{})
	if err != nil {
		logger.Fatalf("Error building assessment engine: %v", err)
	}
	endpoint.SetAnalysisDeps(engine, predict.NewHSVClassifier(predict.Thresholds{}))
	endpoint.SetExplainer(llm.NewExplainer(llm.Config{
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIModel:  cfg.OpenAIModel,
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
	}, logger))

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "session-token"},
		MaxAge:       12 * time.Hour,
	}))
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})
	router.GET("/healthz", endpoint.Healthz)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Credential endpoints carry a rate limit; everything else is
	// session-guarded.
	loginLimiter := middleware.RateLimiter(middleware.RateLimitConfig{})
	router.POST("/signup", loginLimiter, endpoint.Signup)
	router.POST("/login", loginLimiter, endpoint.Login)
	router.DELETE("/logout", endpoint.Logout)
	router.GET("/token/validate", endpoint.ValidateToken)

	authed := router.Group("/", middleware.SessionAuth())
	{
		authed.GET("/patient", endpoint.ListPatients)
		authed.POST("/patient", endpoint.CreatePatient)
		authed.GET("/patient/:id", endpoint.GetPatientInfo)
		authed.PATCH("/patient/:id", endpoint.UpdatePatient)
		authed.DELETE("/patient/:id", endpoint.DeletePatient)

		authed.POST("/analysis", endpoint.CreateAnalysis)

		authed.GET("/report", endpoint.ListReports)
		authed.GET("/report/export/excel", endpoint.ExportReportsExcel)
		authed.GET("/report/:id", endpoint.GetReport)
		authed.DELETE("/report/:id", endpoint.DeleteReport)
		authed.GET("/report/:id/pdf", endpoint.ExportReportPDF)

		authed.POST("/chat", endpoint.Chat)
		authed.GET("/dashboard/summary", endpoint.Dashboard)
		authed.GET("/dashboard/status-breakdown", endpoint.StatusBreakdown)

		authed.GET("/reminder", endpoint.ListReminders)
		authed.POST("/reminder", endpoint.CreateReminder)
		authed.PATCH("/reminder/:id/complete", endpoint.CompleteReminder)
		authed.DELETE("/reminder/:id", endpoint.DeleteReminder)
	}

	sweeper := cron.NewReminderSweeper(db, logger).Start()
	defer sweeper.Stop()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.AppPort),
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("error starting server: %v", err)
		}
	}()
	logger.Infof("%s listening on %s", cfg.AppName, server.Addr)

	waitForShutdown(server, logger)
}

func waitForShutdown(server *http.Server, logger *logrus.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
