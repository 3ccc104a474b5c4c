package endpoint

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nutriscan-health/nutriscan-api/config"
	"github.com/nutriscan-health/nutriscan-api/llm"
	"github.com/nutriscan-health/nutriscan-api/model"
	"github.com/nutriscan-health/nutriscan-api/util"
)

var (
	explainerOnce sync.Once
	explainer     *llm.Explainer
)

// SetExplainer overrides the chat explainer, for wiring a custom provider
// configuration in main or a stub in tests.
func SetExplainer(e *llm.Explainer) {
	explainerOnce.Do(func() {})
	explainer = e
}

func getExplainer() *llm.Explainer {
	explainerOnce.Do(func() {
		if explainer == nil {
			cfg := config.LoadConfig()
			explainer = llm.NewExplainer(llm.Config{
				OpenAIAPIKey: cfg.OpenAIAPIKey,
				OpenAIModel:  cfg.OpenAIModel,
				GeminiAPIKey: cfg.GeminiAPIKey,
				GeminiModel:  cfg.GeminiModel,
			}, logrus.StandardLogger())
		}
	})
	return explainer
}

type ChatRequest struct {
	Message  string `json:"message" binding:"required" example:"What does the z-score mean?"`
	ReportID uint   `json:"report_id" example:"12"`
}

type ChatResponse struct {
	Reply    string `json:"reply"`
	Provider string `json:"provider" example:"openai"`
}

// Chat godoc
// @Summary      Ask the nutrition assistant
// @Description  Answer a question about a screening report. When report_id is omitted the user's most recent report provides the context.
// @Tags         Chatbot
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body ChatRequest true "Question and optional report reference"
// @Success      200 {object} util.APIResponse{data=ChatResponse} "Reply generated"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /chat [post]
func Chat(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}

	var req ChatRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	reportCtx := loadChatContext(db, userID, req.ReportID)

	reply, provider := getExplainer().Explain(c.Request.Context(), req.Message, reportCtx)

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Reply generated",
		Data: ChatResponse{Reply: reply, Provider: provider},
	})
}

// loadChatContext fetches the referenced report, or the newest one when no
// ID was given. A missing report degrades to a context-free answer rather
// than failing the chat.
func loadChatContext(db *gorm.DB, userID, reportID uint) *llm.ReportContext {
	var report model.Report
	query := db.Where("user_id = ?", userID)
	if reportID > 0 {
		query = query.Where("id = ?", reportID)
	} else {
		query = query.Order("created_at DESC")
	}
	if err := query.First(&report).Error; err != nil {
		return nil
	}

	return &llm.ReportContext{
		ChildName:   report.ChildName,
		AgeMonths:   report.AgeMonths,
		BMI:         report.BMI,
		BMICategory: report.BMICategory,
		Percentile:  report.BMIPercentile,
		ZScore:      report.ZScore,
		SkinLabel:   report.SkinLabel,
		NailLabel:   report.NailLabel,
		RiskLevel:   report.RiskLevel,
	}
}
