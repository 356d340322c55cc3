package pipeline

import (
	"time"

	"themerr/internal/catalog"
	"themerr/internal/database"
)

// Attribution identifies the contributor behind a single-item submission.
// Bulk refreshes carry no attribution and leave every stamp untouched.
type Attribution struct {
	Contributor string
	Now         time.Time
}

// Merge folds a fresh upstream payload into the stored record. Upstream
// values overwrite stored ones, the submitted theme URL overwrites whatever
// the upstream carried, and the category's deprecated fields are dropped.
// With attribution present the added stamps are filled only when absent while
// the edited stamps always move; the returned flag reports whether this was
// the contributor's first write to the record.
func Merge(existing database.Record, upstream map[string]any, category catalog.Category, themeURL string, attribution *Attribution) (database.Record, bool) {
	merged := existing.Clone()

	original := false
	if attribution != nil {
		now := attribution.Now.Unix()
		if _, ok := merged[database.FieldThemeAdded]; !ok {
			merged[database.FieldThemeAdded] = now
		}
		merged[database.FieldThemeEdited] = now

		if _, ok := merged[database.FieldThemeAddedBy]; !ok {
			original = true
			merged[database.FieldThemeAddedBy] = attribution.Contributor
		}
		merged[database.FieldThemeEditedBy] = attribution.Contributor
	}

	for key, value := range upstream {
		merged[key] = value
	}
	if themeURL != "" {
		merged[database.FieldThemeURL] = themeURL
	}
	for _, field := range category.DeprecatedFields {
		delete(merged, field)
	}
	return merged, original
}
