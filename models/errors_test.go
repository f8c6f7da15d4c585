package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestAnalysisError_WrapsAndUnwraps(t *testing.T) {
	inner := errors.New("tcp timeout")
	ae := NewAnalysisError(ErrCodeExtractionFailed, "model call failed", inner)

	if !errors.Is(ae, inner) {
		t.Error("errors.Is should see the wrapped error")
	}

	wrapped := fmt.Errorf("analyze: %w", ae)
	var got *AnalysisError
	if !errors.As(wrapped, &got) {
		t.Fatal("errors.As should find the AnalysisError through wrapping")
	}
	if got.Code != ErrCodeExtractionFailed {
		t.Errorf("code = %s", got.Code)
	}
}

func TestAsAnalysisError_PassesThrough(t *testing.T) {
	ae := NewAnalysisError(ErrCodeSchemaViolation, "bad payload", nil)
	if got := AsAnalysisError(ae); got.Code != ErrCodeSchemaViolation {
		t.Errorf("code = %s, want SCHEMA_VIOLATION", got.Code)
	}
}

func TestAsAnalysisError_WrapsUnknownAsInternal(t *testing.T) {
	got := AsAnalysisError(errors.New("boom"))
	if got.Code != ErrCodeInternal {
		t.Errorf("code = %s, want INTERNAL_ERROR", got.Code)
	}
	if got.Message != "boom" {
		t.Errorf("message = %q", got.Message)
	}
}

func TestAnalysisError_ErrorString(t *testing.T) {
	ae := NewAnalysisError(ErrCodeEmptyResponse, "model reply was empty", nil)
	want := "EMPTY_RESPONSE: model reply was empty"
	if ae.Error() != want {
		t.Errorf("Error() = %q, want %q", ae.Error(), want)
	}
}
