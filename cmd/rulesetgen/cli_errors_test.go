package main

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/jllopis/rulesetgen/pkg/errors"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		wantHint string
	}{
		{"configuration", errors.Configuration("bad", nil), errors.CodeConfiguration, "--config"},
		{"validation", errors.Validation("project_category", "nope"), errors.CodeInvalidInput, "generate --help"},
		{"missing key", errors.MissingCredential("openai", "OPENAI_API_KEY"), errors.CodeUnauthorized, "API key"},
		{"plain", stderrors.New(`unknown flag: --nope`), errors.CodeInternal, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := wrapError(tt.err)
			if ce.Err.Code != tt.code {
				t.Errorf("expected %s, got %s", tt.code, ce.Err.Code)
			}
			if !strings.Contains(ce.Hint, tt.wantHint) {
				t.Errorf("expected hint containing %q, got %q", tt.wantHint, ce.Hint)
			}
			if wrapError(ce) != ce {
				t.Error("expected CLIError to pass through")
			}
		})
	}
}

func TestCLIErrorPrint(t *testing.T) {
	ce := wrapError(errors.Configuration("invalid log level", stderrors.New("verbose")))

	var text bytes.Buffer
	ce.Print(&text, false)
	for _, want := range []string{"Error [CONFIGURATION_ERROR]: invalid log level", "Cause: verbose", "Hint:"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("expected %q in %q", want, text.String())
		}
	}

	var js bytes.Buffer
	ce.Print(&js, true)
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(js.Bytes(), &payload); err != nil {
		t.Fatalf("expected json: %v", err)
	}
	if payload.Error.Code != "CONFIGURATION_ERROR" || payload.Error.Message != "invalid log level" {
		t.Errorf("unexpected payload %+v", payload)
	}
}
