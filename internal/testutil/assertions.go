package testutil

import (
	"errors"
	"testing"

	apperrors "marketplace/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertFieldError checks that the field error list contains an entry for
// the given field.
func AssertFieldError(t *testing.T, fieldErrors []apperrors.FieldError, field string) {
	t.Helper()

	for _, fe := range fieldErrors {
		if fe.Field == field {
			return
		}
	}
	t.Errorf("expected a field error on %q, got %v", field, fieldErrors)
}
