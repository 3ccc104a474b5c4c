package docs

import (
	"strings"
	"testing"
)

func TestSwaggerInfoBasic(t *testing.T) {
	if SwaggerInfo == nil {
		t.Fatalf("SwaggerInfo unexpectedly nil")
	}
	if SwaggerInfo.Title == "" {
		t.Fatalf("expected non-empty Title in SwaggerInfo")
	}
	if !strings.Contains(SwaggerInfo.SwaggerTemplate, "paths") {
		t.Fatalf("expected SwaggerTemplate to contain 'paths'")
	}
	for _, path := range []string{"/analysis", "/report", "/chat", "/dashboard"} {
		if !strings.Contains(SwaggerInfo.SwaggerTemplate, path) {
			t.Fatalf("expected SwaggerTemplate to document %s", path)
		}
	}
}
