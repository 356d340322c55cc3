package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"themerr/internal/catalog"
	"themerr/internal/database"
	"themerr/internal/logging"
	"themerr/internal/report"
	"themerr/internal/services"
	"themerr/internal/youtube"
)

// Issue processes one user submission: validate the theme video, match the
// provider URL to a category, refresh the record with attribution, and leave
// the title and comment artifacts behind for the submission workflow.
type Issue struct {
	resolver    *Resolver
	store       *database.Store
	youtube     *youtube.Client
	reporter    *report.Writer
	logger      *slog.Logger
	contributor string
	minSeconds  int
	maxSeconds  int
	now         func() time.Time
}

// NewIssue constructs the single-item orchestrator. The duration bounds are
// inclusive seconds.
func NewIssue(resolver *Resolver, store *database.Store, youtubeClient *youtube.Client, reporter *report.Writer, logger *slog.Logger, contributor string, minSeconds, maxSeconds int) *Issue {
	return &Issue{
		resolver:    resolver,
		store:       store,
		youtube:     youtubeClient,
		reporter:    reporter,
		logger:      logging.NewComponentLogger(logger, "issue"),
		contributor: contributor,
		minSeconds:  minSeconds,
		maxSeconds:  maxSeconds,
		now:         time.Now,
	}
}

// Run processes the submission file at path. Every failure is also written to
// the report artifacts so the submission workflow can surface it.
func (i *Issue) Run(ctx context.Context, path string) error {
	if err := i.reporter.Reset(); err != nil {
		return err
	}

	submission, err := ReadSubmission(path)
	if err != nil {
		i.reporter.WriteIncident("submission", err)
		return err
	}

	video, err := i.youtube.Resolve(ctx, submission.YouTubeThemeURL)
	if err != nil {
		i.reporter.WriteIncident("youtube", err)
		return err
	}
	if violations := youtube.ValidateRequirements(video, i.minSeconds, i.maxSeconds); len(violations) > 0 {
		err := services.Wrap(services.ErrValidation, "youtube", "validate", strings.Join(violations, "; "), nil)
		i.reporter.WriteIncident("youtube", err)
		return err
	}
	themeURL := youtube.WatchURL(video.ID)

	category, key, ok := catalog.Match(submission.DatabaseURL)
	if !ok {
		err := services.Wrap(services.ErrValidation, "submission", "match",
			"database_url does not match any supported provider url: "+submission.DatabaseURL, nil)
		i.reporter.WriteIncident("submission", err)
		return err
	}

	record, original, err := i.resolver.Process(ctx, Task{
		Category: category,
		Key:      key,
		ThemeURL: themeURL,
		Attribution: &Attribution{
			Contributor: i.contributor,
			Now:         i.now(),
		},
	})
	if err != nil {
		i.reporter.WriteIncident(category.Name, err)
		return err
	}

	if err := i.store.UpdateContributor(category.GroupDir(i.store.Root()), i.contributor, original); err != nil {
		i.reporter.WriteIncident(category.Name, err)
		return err
	}

	summary := report.BuildIssueSummary(category, record)
	if err := i.reporter.WriteIssueTitle(summary.Title); err != nil {
		return err
	}
	if err := i.reporter.AppendIssueComment(summary.Comment); err != nil {
		return err
	}

	id, _ := record.ID()
	i.logger.Info("submission processed",
		logging.String(logging.FieldCategory, category.Name),
		logging.Int64(logging.FieldItemID, id),
		logging.Bool("original", original),
	)
	return nil
}
