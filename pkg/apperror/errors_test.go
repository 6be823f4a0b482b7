package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestGetAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind Kind
	}{
		{"not found", NewNotFoundError("Book"), http.StatusNotFound, KindNotFound},
		{"wrapped conflict", fmt.Errorf("create: %w", NewConflictError("Invoice number already exists")), http.StatusConflict, KindConflict},
		{"validation", NewValidationError([]FieldError{{Field: "rows[0]", Message: "unknown"}}), http.StatusUnprocessableEntity, KindValidation},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, KindInternal},
		{"status only", NewAppError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, KindRateLimited},
		{"bad request by status", NewAppError(http.StatusBadRequest, "nope"), http.StatusBadRequest, KindBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetAppError(tt.err)
			if got.Code != tt.wantCode || got.Kind != tt.wantKind {
				t.Errorf("GetAppError() = %d/%s, want %d/%s", got.Code, got.Kind, tt.wantCode, tt.wantKind)
			}
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := GetAppError(cause)
	if err.Message != "Internal server error" {
		t.Errorf("Message = %q", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should stay reachable through Unwrap")
	}

	wrapped := NewInternalError("Failed to create purchase", cause)
	if !errors.Is(wrapped, cause) || !IsKind(wrapped, KindInternal) {
		t.Errorf("NewInternalError lost its cause or kind: %v", wrapped)
	}
}
