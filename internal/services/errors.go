package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks user-correctable input failures: missing submission
	// fields, unparseable provider URLs, ineligible videos.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks provider lookups that returned no result. Never retried.
	ErrNotFound = errors.New("not found")
	// ErrData marks malformed upstream payloads, such as a response missing
	// its own id. Never retried.
	ErrData = errors.New("data error")
	// ErrTransient marks upstream failures that were retried and exhausted.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsTerminal reports whether the error should not be retried.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrData)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
