package config

import (
	"testing"
)

// Test that LoadConfig returns a non-nil config and that ConnectMySQL
// degrades to the in-memory database under APPENV=test.
func TestLoadConfigAndConnectMySQL_TestEnv(t *testing.T) {
	t.Setenv("APPENV", "test")

	cfg := LoadConfig()
	if cfg == nil {
		t.Fatalf("expected non-nil config")
	}

	// Defaults applied when the variables are unset.
	if cfg.UploadDir == "" {
		t.Fatalf("expected a default upload dir")
	}
	if cfg.OpenAIModel == "" || cfg.GeminiModel == "" {
		t.Fatalf("expected default chatbot model names")
	}

	db, err := ConnectMySQL()
	if err != nil {
		t.Fatalf("ConnectMySQL failed in test env: %v", err)
	}
	if db == nil {
		t.Fatalf("expected non-nil DB connection")
	}
}
