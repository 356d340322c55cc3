package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"themerr/internal/catalog"
	"themerr/internal/database"
	"themerr/internal/logging"
)

const runLockFile = "daily.lock"

// Daily refreshes every stored record from its upstream provider and then
// rebuilds the per-group aggregates: paginated listings, page summaries, and
// the cumulative adoption series.
type Daily struct {
	store    *database.Store
	pipeline *Pipeline
	logger   *slog.Logger
	now      func() time.Time
}

// NewDaily constructs the bulk-refresh orchestrator.
func NewDaily(store *database.Store, pipeline *Pipeline, logger *slog.Logger) *Daily {
	return &Daily{
		store:    store,
		pipeline: pipeline,
		logger:   logging.NewComponentLogger(logger, "daily"),
		now:      time.Now,
	}
}

// Run walks every category directory, refreshes each item through the worker
// pool, and rebuilds aggregates once the pool has drained. Individual item
// failures are reported by the pipeline and do not abort the run. A file lock
// under the database root keeps concurrent runs from interleaving writes.
func (d *Daily) Run(ctx context.Context) error {
	if err := os.MkdirAll(d.store.Root(), 0o755); err != nil {
		return fmt.Errorf("create database root: %w", err)
	}
	lockPath := filepath.Join(d.store.Root(), runLockFile)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return errors.New("another refresh run already holds the database lock")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			d.logger.Warn("failed to release run lock", logging.String("path", lockPath), logging.Error(err))
		}
	}()

	d.pipeline.Start(ctx)

	enqueued := 0
	for _, category := range catalog.All() {
		ids, err := d.store.ListIDs(category)
		if err != nil {
			return err
		}
		for _, id := range ids {
			d.pipeline.Enqueue(Task{Category: category, Key: id})
			enqueued++
		}
	}
	d.logger.Info("bulk refresh enqueued", logging.Int("items", enqueued))

	if err := d.pipeline.Drain(); err != nil {
		return err
	}

	for _, category := range catalog.All() {
		results := d.pipeline.Results(category.Name)
		if len(results) == 0 {
			continue
		}
		if err := d.writeAggregates(category, results); err != nil {
			return err
		}
	}
	return nil
}

func (d *Daily) writeAggregates(category catalog.Category, results []Result) error {
	items := make([]database.ListingItem, 0, len(results))
	var timestamps []int64
	for _, result := range results {
		id, ok := result.Record.ID()
		if !ok {
			continue
		}
		items = append(items, database.ListingItem{
			ID:         id,
			Title:      result.Record.String(category.TitleField),
			IMDBID:     result.Record.String(database.FieldIMDBID),
			WithIMDBID: category.HasIMDBCrossRef,
		})
		if added, ok := result.Record.Int64(database.FieldThemeAdded); ok {
			timestamps = append(timestamps, added)
		}
	}
	database.SortByTitle(items)

	var imdbCount *int
	if category.HasIMDBCrossRef {
		count, err := d.store.IMDBCount()
		if err != nil {
			return err
		}
		imdbCount = &count
	}

	groupDir := category.GroupDir(d.store.Root())
	pages, err := database.WritePages(groupDir, items, imdbCount)
	if err != nil {
		return err
	}

	series := database.BuildAdoptionSeries(timestamps, d.now())
	if err := database.WriteAdoptionSeries(groupDir, category.Title, series); err != nil {
		return err
	}

	d.logger.Info("aggregates written",
		logging.String(logging.FieldCategory, category.Name),
		logging.Int("items", len(items)),
		logging.Int("pages", pages),
	)
	return nil
}
