// Package llm generates conversational explanations of screening reports.
// It tries OpenAI first, then Gemini, and falls back to canned guidance when
// neither provider is configured or reachable. Each provider sits behind its
// own circuit breaker so a flapping upstream fails fast instead of stalling
// every chat request.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const systemPrompt = "You are a pediatric nutrition assistant. You explain BMI-for-age, WHO percentiles, z-scores, " +
	"skin and nail health indicators, and provide general, non-diagnostic advice. Be concise, clear, " +
	"supportive, and actionable. Encourage consulting healthcare professionals for severe findings."

const fallbackReply = "I can explain the report and offer general tips. Please ensure you've set an API key for an LLM. " +
	"Based on your inputs, focus on balanced meals, adequate hydration, regular sleep, and physical activity. " +
	"If severe concerns appear (very low/high BMI, persistent symptoms), consult a healthcare professional."

// ReportContext is the report summary injected into the prompt so answers
// reference the child's actual numbers.
type ReportContext struct {
	ChildName   string
	AgeMonths   int
	BMI         float64
	BMICategory string
	Percentile  float64
	ZScore      float64
	SkinLabel   string
	NailLabel   string
	RiskLevel   string
}

// Config holds provider credentials and endpoints. Base URLs exist so tests
// can point the explainer at a local server; empty values get the public
// endpoints.
type Config struct {
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	Timeout       time.Duration
}

// Explainer answers chat questions about a report.
type Explainer struct {
	cfg    Config
	client *http.Client
	log    *logrus.Logger

	openAIBreaker *gobreaker.CircuitBreaker
	geminiBreaker *gobreaker.CircuitBreaker
}

// NewExplainer builds an explainer with one circuit breaker per provider.
func NewExplainer(cfg Config, logger *logrus.Logger) *Explainer {
	if cfg.OpenAIBaseURL == "" {
		cfg.OpenAIBaseURL = "https://api.openai.com/v1"
	}
	if cfg.GeminiBaseURL == "" {
		cfg.GeminiBaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-1.5-flash"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	newBreaker := func(name string) *gobreaker.CircuitBreaker {
		return gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    30 * time.Second,
			Timeout:     60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("chat provider circuit breaker state changed")
			},
		})
	}

	return &Explainer{
		cfg:           cfg,
		client:        &http.Client{Timeout: cfg.Timeout},
		log:           logger,
		openAIBreaker: newBreaker("openai"),
		geminiBreaker: newBreaker("gemini"),
	}
}

// Explain answers the user's question, returning the reply text and the
// provider that produced it ("openai", "gemini" or "fallback"). It never
// returns an error: provider failures degrade to the canned reply.
func (e *Explainer) Explain(ctx context.Context, message string, report *ReportContext) (string, string) {
	prompt := buildPrompt(message, report)

	if e.cfg.OpenAIAPIKey != "" {
		reply, err := e.executeThroughBreaker(e.openAIBreaker, func() (string, error) {
			return e.callOpenAI(ctx, prompt)
		})
		if err == nil && reply != "" {
			return reply, "openai"
		}
		if err != nil {
			e.log.WithError(err).Warn("openai chat request failed")
		}
	}

	if e.cfg.GeminiAPIKey != "" {
		reply, err := e.executeThroughBreaker(e.geminiBreaker, func() (string, error) {
			return e.callGemini(ctx, prompt)
		})
		if err == nil && reply != "" {
			return reply, "gemini"
		}
		if err != nil {
			e.log.WithError(err).Warn("gemini chat request failed")
		}
	}

	return fallbackReply, "fallback"
}

func (e *Explainer) executeThroughBreaker(cb *gobreaker.CircuitBreaker, fn func() (string, error)) (string, error) {
	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return "", fmt.Errorf("%s unavailable (circuit breaker open)", cb.Name())
		}
		return "", err
	}
	return result.(string), nil
}

func buildPrompt(message string, report *ReportContext) string {
	contextText := "None"
	if report != nil {
		contextText = fmt.Sprintf(
			"Child: %s\nAge (years): %.1f\nBMI: %.1f (%s)\nWHO Percentile: %.1f%%\nZ-Score: %.2f\nSkin: %s\nNails: %s\nRisk Level: %s",
			orUnknown(report.ChildName, "the child"),
			float64(report.AgeMonths)/12,
			report.BMI,
			orUnknown(report.BMICategory, "Unknown"),
			report.Percentile,
			report.ZScore,
			orUnknown(report.SkinLabel, "unknown"),
			orUnknown(report.NailLabel, "unknown"),
			orUnknown(report.RiskLevel, "Unknown"),
		)
	}

	return "Context (if present):\n" + contextText + "\n\n" +
		"User question: " + message + "\n\n" +
		"Answer with: (1) an explanation in simple language, (2) a brief takeaway, (3) 2-4 actionable, safe, non-diagnostic tips."
}

func orUnknown(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

func (e *Explainer) callOpenAI(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(openAIRequest{
		Model: e.cfg.OpenAIModel,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.OpenAIBaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.OpenAIAPIKey)

	var parsed openAIResponse
	if err := e.doJSON(req, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response had no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (e *Explainer) callGemini(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: systemPrompt}, {Text: prompt}}},
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", e.cfg.GeminiBaseURL, e.cfg.GeminiModel, e.cfg.GeminiAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var parsed geminiResponse
	if err := e.doJSON(req, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response had no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func (e *Explainer) doJSON(req *http.Request, out interface{}) error {
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(snippet))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
