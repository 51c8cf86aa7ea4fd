package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// TestProperty_ServiceErrorFormatConsistency verifies that for any service
// name and operation name, WrapError produces an error whose message
// contains both names in the [Service.Operation] form and whose Unwrap
// returns the original error.
func TestProperty_ServiceErrorFormatConsistency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		service := rapid.String().Draw(t, "service")
		operation := rapid.String().Draw(t, "operation")
		errMsg := rapid.String().Draw(t, "errMsg")

		original := fmt.Errorf("%s", errMsg)
		wrapped := WrapError(service, operation, original)

		if wrapped == nil {
			t.Fatal("WrapError with non-nil error should return non-nil")
		}

		errStr := wrapped.Error()
		if service != "" && !strings.Contains(errStr, service) {
			t.Fatalf("Error() %q should contain service name %q", errStr, service)
		}
		if operation != "" && !strings.Contains(errStr, operation) {
			t.Fatalf("Error() %q should contain operation name %q", errStr, operation)
		}

		var se *ServiceError
		if !errors.As(wrapped, &se) {
			t.Fatal("wrapped error should be *ServiceError")
		}
		if se.Unwrap() != original {
			t.Fatal("Unwrap() should return the original error")
		}

		expected := fmt.Sprintf("[%s.%s] %s", service, operation, errMsg)
		if errStr != expected {
			t.Fatalf("Error() = %q, want %q", errStr, expected)
		}
	})
}
