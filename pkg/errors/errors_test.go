package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	unwrapped := errors.Unwrap(appErr)
	if unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)
	details := map[string]any{
		"field": "start_time",
		"error": "invalid format",
	}

	err = err.WithDetails(details)

	if err.Details["field"] != "start_time" {
		t.Errorf("expected field 'start_time', got %v", err.Details["field"])
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Order", "12345")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Details["id"] != "12345" {
		t.Errorf("expected id '12345', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Order" {
		t.Errorf("expected resource 'Order', got %v", err.Details["resource"])
	}
}

func TestSlotUnavailable(t *testing.T) {
	err := SlotUnavailable("vehicle is reserved for the requested window")

	if err.Code != CodeSlotUnavailable {
		t.Errorf("expected code %s, got %s", CodeSlotUnavailable, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
}

func TestRetriesExhausted(t *testing.T) {
	cause := errors.New("WriteConflict")
	err := RetriesExhausted("booking could not be completed", cause)

	if err.Code != CodeRetriesExhausted {
		t.Errorf("expected code %s, got %s", CodeRetriesExhausted, err.Code)
	}
	if err.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, err.HTTPStatus)
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to remain reachable via errors.Is")
	}
}

func TestGatewayFailure(t *testing.T) {
	cause := errors.New("connection refused")
	err := GatewayFailure("payment order could not be created", cause)

	if err.Code != CodeGatewayError {
		t.Errorf("expected code %s, got %s", CodeGatewayError, err.Code)
	}
	if err.HTTPStatus != http.StatusBadGateway {
		t.Errorf("expected status %d, got %d", http.StatusBadGateway, err.HTTPStatus)
	}
}

func TestSignatureInvalid(t *testing.T) {
	err := SignatureInvalid("signature verification failed")

	if err.Code != CodeSignatureInvalid {
		t.Errorf("expected code %s, got %s", CodeSignatureInvalid, err.Code)
	}
	if err.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, err.HTTPStatus)
	}
}

func TestHasCode(t *testing.T) {
	err := SlotUnavailable("taken")

	if !HasCode(err, CodeSlotUnavailable) {
		t.Error("HasCode should match the error's code")
	}
	if HasCode(err, CodeInternal) {
		t.Error("HasCode should not match a different code")
	}
	if HasCode(errors.New("plain"), CodeSlotUnavailable) {
		t.Error("HasCode should reject non-AppErrors")
	}
	if HasCode(nil, CodeSlotUnavailable) {
		t.Error("HasCode should reject nil")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(Internal("boom", nil)) {
		t.Error("expected AppError to be recognized")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("plain errors are not AppErrors")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := SlotUnavailable("taken")
	if AsAppError(appErr) != appErr {
		t.Error("existing AppError should be returned unchanged")
	}

	converted := AsAppError(errors.New("plain"))
	if converted.Code != CodeInternal {
		t.Errorf("plain errors should convert to %s, got %s", CodeInternal, converted.Code)
	}
	if converted.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, converted.HTTPStatus)
	}
}
