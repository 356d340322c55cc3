package database

import (
	"strconv"
)

// Theme attribution field keys shared across every category.
const (
	FieldID            = "id"
	FieldIMDBID        = "imdb_id"
	FieldThemeURL      = "youtube_theme_url"
	FieldThemeAdded    = "youtube_theme_added"
	FieldThemeAddedBy  = "youtube_theme_added_by"
	FieldThemeEdited   = "youtube_theme_edited"
	FieldThemeEditedBy = "youtube_theme_edited_by"
)

// Record is one persisted database document: a verbatim projection of the
// upstream provider payload plus the theme attribution fields. JSON decoding
// leaves numbers as float64; use the typed accessors.
type Record map[string]any

// ID returns the provider-assigned id, if present.
func (r Record) ID() (int64, bool) {
	return r.Int64(FieldID)
}

// Int64 coerces a numeric or numeric-string field to int64.
func (r Record) Int64(key string) (int64, bool) {
	switch v := r[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// String returns a string field, or "" when absent or non-string.
func (r Record) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
