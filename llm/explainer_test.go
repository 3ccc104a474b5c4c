package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestExplainFallbackWithoutKeys(t *testing.T) {
	explainer := NewExplainer(Config{}, silentLogger())

	reply, provider := explainer.Explain(context.Background(), "what does the report mean?", nil)
	assert.Equal(t, "fallback", provider)
	assert.Contains(t, reply, "consult a healthcare professional")
}

func TestExplainUsesOpenAI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"BMI is within normal range."}}]}`))
	}))
	defer server.Close()

	explainer := NewExplainer(Config{
		OpenAIAPIKey:  "test-key",
		OpenAIBaseURL: server.URL,
	}, silentLogger())

	reply, provider := explainer.Explain(context.Background(), "explain bmi", &ReportContext{
		ChildName: "Siti", AgeMonths: 54, BMI: 15.2, BMICategory: "Normal", RiskLevel: "Low",
	})
	assert.Equal(t, "openai", provider)
	assert.Equal(t, "BMI is within normal range.", reply)
}

func TestExplainFallsBackToGemini(t *testing.T) {
	openai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer openai.Close()

	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Focus on balanced meals."}]}}]}`))
	}))
	defer gemini.Close()

	explainer := NewExplainer(Config{
		OpenAIAPIKey:  "test-key",
		OpenAIBaseURL: openai.URL,
		GeminiAPIKey:  "gemini-key",
		GeminiBaseURL: gemini.URL,
	}, silentLogger())

	reply, provider := explainer.Explain(context.Background(), "advice please", nil)
	assert.Equal(t, "gemini", provider)
	assert.Equal(t, "Focus on balanced meals.", reply)
}

func TestExplainFallbackWhenAllProvidersFail(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer broken.Close()

	explainer := NewExplainer(Config{
		OpenAIAPIKey:  "k1",
		OpenAIBaseURL: broken.URL,
		GeminiAPIKey:  "k2",
		GeminiBaseURL: broken.URL,
	}, silentLogger())

	reply, provider := explainer.Explain(context.Background(), "hello", nil)
	assert.Equal(t, "fallback", provider)
	assert.NotEmpty(t, reply)
}

func TestExplainBreakerOpensAfterRepeatedFailures(t *testing.T) {
	calls := 0
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer broken.Close()

	explainer := NewExplainer(Config{
		OpenAIAPIKey:  "k1",
		OpenAIBaseURL: broken.URL,
	}, silentLogger())

	// Hammer the provider until the breaker trips; every reply must still
	// degrade to the fallback rather than error out.
	for i := 0; i < 10; i++ {
		reply, provider := explainer.Explain(context.Background(), "hello", nil)
		assert.Equal(t, "fallback", provider)
		assert.NotEmpty(t, reply)
	}
	// Once open, the breaker short-circuits and stops hitting the server.
	assert.Less(t, calls, 10)
}

func TestBuildPromptIncludesContext(t *testing.T) {
	prompt := buildPrompt("is this ok?", &ReportContext{
		ChildName:   "Budi",
		AgeMonths:   30,
		BMI:         13.9,
		BMICategory: "Underweight",
		Percentile:  3.2,
		ZScore:      -1.9,
		SkinLabel:   "unhealthy_skin",
		NailLabel:   "healthy_nails",
		RiskLevel:   "High",
	})

	assert.Contains(t, prompt, "Child: Budi")
	assert.Contains(t, prompt, "Age (years): 2.5")
	assert.Contains(t, prompt, "Risk Level: High")
	assert.Contains(t, prompt, "User question: is this ok?")
}

func TestBuildPromptWithoutReport(t *testing.T) {
	prompt := buildPrompt("hello", nil)
	assert.Contains(t, prompt, "Context (if present):\nNone")
}
