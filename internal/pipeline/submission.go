package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"themerr/internal/services"
)

// Submission is the single-item input file: the provider URL naming the item
// and the proposed theme video.
type Submission struct {
	DatabaseURL     string `json:"database_url"`
	YouTubeThemeURL string `json:"youtube_theme_url"`
}

// ReadSubmission loads and validates the submission file. Both fields are
// required; a missing or empty field fails by name before any network call.
func ReadSubmission(path string) (Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Submission{}, services.Wrap(services.ErrValidation, "submission", "read", path, err)
	}

	var submission Submission
	if err := json.Unmarshal(data, &submission); err != nil {
		return Submission{}, services.Wrap(services.ErrValidation, "submission", "decode", path, err)
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"database_url", submission.DatabaseURL},
		{"youtube_theme_url", submission.YouTubeThemeURL},
	} {
		if strings.TrimSpace(field.value) == "" {
			return Submission{}, services.Wrap(services.ErrValidation, "submission", "validate",
				fmt.Sprintf("required field %q is missing or empty", field.name), nil)
		}
	}

	submission.DatabaseURL = strings.TrimSpace(submission.DatabaseURL)
	submission.YouTubeThemeURL = strings.TrimSpace(submission.YouTubeThemeURL)
	return submission, nil
}
