package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"themerr/internal/logging"
)

const (
	commentFile    = "comment.md"
	exceptionsFile = "exceptions.md"
	titleFile      = "title.md"
)

// Writer emits the markdown artifacts a run leaves behind: the persistent
// exception log, the per-run comment body, and the issue title.
type Writer struct {
	root   string
	logger *slog.Logger
}

// NewWriter constructs a Writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{
		root:   dir,
		logger: logging.NewComponentLogger(logger, "report"),
	}
}

// Reset truncates the per-run comment file. exceptions.md accumulates across
// runs and is left alone.
func (w *Writer) Reset() error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.root, commentFile), nil, 0o644); err != nil {
		return fmt.Errorf("truncate comment file: %w", err)
	}
	return nil
}

// WriteIncident appends a fenced error block to both the exception log and
// the current comment body. Report failures are logged, not propagated, so a
// broken report never masks the error being reported.
func (w *Writer) WriteIncident(component string, incident error) {
	w.logger.Error("incident",
		logging.String(logging.FieldComponent, component),
		logging.Error(incident),
	)

	block := fmt.Sprintf("# :bangbang: **Exception Occurred** :bangbang:\n\n```txt\n%v\n```\n\n", incident)
	for _, name := range []string{commentFile, exceptionsFile} {
		if err := w.appendFile(name, block); err != nil {
			w.logger.Error("write incident failed",
				logging.String("file", name),
				logging.Error(err),
			)
		}
	}
}

// WriteIssueTitle overwrites title.md with the issue title for the processed
// item.
func (w *Writer) WriteIssueTitle(title string) error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.root, titleFile), []byte(title), 0o644); err != nil {
		return fmt.Errorf("write issue title: %w", err)
	}
	return nil
}

// AppendIssueComment appends a comment block to the per-run comment body.
func (w *Writer) AppendIssueComment(comment string) error {
	return w.appendFile(commentFile, comment)
}

func (w *Writer) appendFile(name, content string) error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(w.root, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("append %s: %w", name, err)
	}
	return f.Close()
}
