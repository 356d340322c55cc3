package pipeline_test

import (
	"testing"
	"time"

	"themerr/internal/catalog"
	"themerr/internal/database"
	"themerr/internal/pipeline"
)

func gameCategory(t *testing.T) catalog.Category {
	t.Helper()
	category, ok := catalog.ByName("game")
	if !ok {
		t.Fatal("game category missing")
	}
	return category
}

func TestMergeUpstreamOverwrites(t *testing.T) {
	existing := database.Record{
		"id":                float64(1),
		"name":              "Old Name",
		"youtube_theme_url": "https://www.youtube.com/watch?v=old",
	}
	upstream := map[string]any{
		"id":   float64(1),
		"name": "New Name",
	}

	merged, _ := pipeline.Merge(existing, upstream, gameCategory(t), "", nil)
	if merged.String("name") != "New Name" {
		t.Fatalf("upstream value should win: %v", merged)
	}
	if merged.String(database.FieldThemeURL) != "https://www.youtube.com/watch?v=old" {
		t.Fatalf("stored theme url should survive: %v", merged)
	}
}

func TestMergeThemeURLWinsLast(t *testing.T) {
	existing := database.Record{"youtube_theme_url": "https://www.youtube.com/watch?v=old"}
	upstream := map[string]any{"id": float64(1), "youtube_theme_url": "https://www.youtube.com/watch?v=upstream"}

	merged, _ := pipeline.Merge(existing, upstream, gameCategory(t), "https://www.youtube.com/watch?v=submitted", nil)
	if merged.String(database.FieldThemeURL) != "https://www.youtube.com/watch?v=submitted" {
		t.Fatalf("submitted theme url should win: %v", merged)
	}
}

func TestMergeDropsDeprecatedFields(t *testing.T) {
	existing := database.Record{"igdb_id": float64(99)}
	merged, _ := pipeline.Merge(existing, map[string]any{"id": float64(1)}, gameCategory(t), "", nil)
	if _, present := merged["igdb_id"]; present {
		t.Fatalf("deprecated field should be removed: %v", merged)
	}
}

func TestMergeWithoutAttributionLeavesStamps(t *testing.T) {
	existing := database.Record{
		database.FieldThemeAdded:   int64(1000),
		database.FieldThemeAddedBy: "alice",
	}
	merged, original := pipeline.Merge(existing, map[string]any{"id": float64(1)}, gameCategory(t), "", nil)
	if original {
		t.Fatal("unattributed merge must not report an original submission")
	}
	if _, present := merged[database.FieldThemeEdited]; present {
		t.Fatalf("unattributed merge must not stamp edits: %v", merged)
	}
	if added, _ := merged.Int64(database.FieldThemeAdded); added != 1000 {
		t.Fatalf("added stamp must be preserved: %v", merged)
	}
}

func TestMergeFirstAttributedWrite(t *testing.T) {
	now := time.Unix(5000, 0)
	attribution := &pipeline.Attribution{Contributor: "alice", Now: now}

	merged, original := pipeline.Merge(database.Record{}, map[string]any{"id": float64(1)}, gameCategory(t), "", attribution)
	if !original {
		t.Fatal("first attributed write should be original")
	}
	if added, _ := merged.Int64(database.FieldThemeAdded); added != 5000 {
		t.Fatalf("unexpected added stamp: %v", merged)
	}
	if edited, _ := merged.Int64(database.FieldThemeEdited); edited != 5000 {
		t.Fatalf("unexpected edited stamp: %v", merged)
	}
	if merged.String(database.FieldThemeAddedBy) != "alice" || merged.String(database.FieldThemeEditedBy) != "alice" {
		t.Fatalf("unexpected attribution: %v", merged)
	}
}

func TestMergeLaterAttributedWrite(t *testing.T) {
	existing := database.Record{
		database.FieldThemeAdded:   int64(1000),
		database.FieldThemeAddedBy: "alice",
	}
	attribution := &pipeline.Attribution{Contributor: "bob", Now: time.Unix(9000, 0)}

	merged, original := pipeline.Merge(existing, map[string]any{"id": float64(1)}, gameCategory(t), "", attribution)
	if original {
		t.Fatal("second contributor should not be original")
	}
	if added, _ := merged.Int64(database.FieldThemeAdded); added != 1000 {
		t.Fatalf("added stamp must not move: %v", merged)
	}
	if merged.String(database.FieldThemeAddedBy) != "alice" {
		t.Fatalf("added-by must not move: %v", merged)
	}
	if edited, _ := merged.Int64(database.FieldThemeEdited); edited != 9000 {
		t.Fatalf("edited stamp must move: %v", merged)
	}
	if merged.String(database.FieldThemeEditedBy) != "bob" {
		t.Fatalf("edited-by must move: %v", merged)
	}
}
