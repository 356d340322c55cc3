package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"themerr/internal/catalog"
	"themerr/internal/database"
	"themerr/internal/logging"
	"themerr/internal/providers/igdb"
	"themerr/internal/providers/tmdb"
	"themerr/internal/services"
)

// Task addresses one catalog item to refresh. Key is a numeric provider id
// or, for slug-addressed categories, a slug. ThemeURL and Attribution are set
// only for single-item submissions.
type Task struct {
	Category    catalog.Category
	Key         string
	ThemeURL    string
	Attribution *Attribution
}

// Resolver runs the fetch-merge-write cycle for one task.
type Resolver struct {
	igdb   *igdb.Client
	tmdb   *tmdb.Client
	store  *database.Store
	logger *slog.Logger
}

// NewResolver constructs a Resolver over the two provider clients and the
// record store.
func NewResolver(igdbClient *igdb.Client, tmdbClient *tmdb.Client, store *database.Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		igdb:   igdbClient,
		tmdb:   tmdbClient,
		store:  store,
		logger: logging.NewComponentLogger(logger, "resolver"),
	}
}

// Process fetches the upstream payload for the task, merges it into the
// stored record, and writes the result. It returns the merged record and
// whether an attributed write was the contributor's first for this record.
func (r *Resolver) Process(ctx context.Context, task Task) (database.Record, bool, error) {
	upstream, err := r.fetch(ctx, task)
	if err != nil {
		return nil, false, err
	}

	payload := database.Record(upstream)
	id, ok := payload.ID()
	if !ok {
		return nil, false, services.Wrap(services.ErrData, "resolver", task.Category.Name, "upstream payload missing id", nil)
	}

	existing, found, err := r.store.Load(task.Category, id)
	if err != nil {
		return nil, false, err
	}

	merged, original := Merge(existing, upstream, task.Category, task.ThemeURL, task.Attribution)
	paths, err := r.store.Write(task.Category, merged)
	if err != nil {
		return nil, false, err
	}

	r.logger.Info("item refreshed",
		logging.String(logging.FieldCategory, task.Category.Name),
		logging.Int64(logging.FieldItemID, id),
		logging.Bool("created", !found),
		logging.Int("files", len(paths)),
	)
	return merged, original, nil
}

func (r *Resolver) fetch(ctx context.Context, task Task) (map[string]any, error) {
	switch task.Category.Provider {
	case catalog.ProviderIGDB:
		query := igdb.Query{
			Endpoint: task.Category.Endpoint,
			Fields:   task.Category.Fields,
		}
		if catalog.IsNumericID(task.Key) {
			id, err := strconv.ParseInt(task.Key, 10, 64)
			if err != nil {
				return nil, services.Wrap(services.ErrValidation, "resolver", task.Category.Name, "parse item id", err)
			}
			query.ID = id
		} else if task.Category.SlugAddressed {
			query.Slug = task.Key
		} else {
			return nil, services.Wrap(services.ErrValidation, "resolver", task.Category.Name,
				fmt.Sprintf("category requires a numeric id, got %q", task.Key), nil)
		}
		return r.igdb.Lookup(ctx, query)
	case catalog.ProviderTMDB:
		id, err := strconv.ParseInt(task.Key, 10, 64)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "resolver", task.Category.Name,
				fmt.Sprintf("category requires a numeric id, got %q", task.Key), nil)
		}
		return r.tmdb.Details(ctx, task.Category.Endpoint, id)
	default:
		return nil, services.Wrap(services.ErrValidation, "resolver", task.Category.Name,
			fmt.Sprintf("unknown provider %q", task.Category.Provider), nil)
	}
}
