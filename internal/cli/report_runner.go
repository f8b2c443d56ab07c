package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zafmy/sms-lms-v1-sub000/internal/pdf"
	"github.com/zafmy/sms-lms-v1-sub000/internal/report"
	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
)

// ReportRunner generates learner reports from the stored review history.
type ReportRunner struct {
	events       review.EventRepository
	stdoutWriter io.Writer
	nowFunc      func() time.Time
}

// ReportOptions selects the report output formats.
type ReportOptions struct {
	BaseIntervalDays int
	TemplatePath     string
	OutputDir        string // render to files instead of stdout when set
	PDF              bool
	YAML             bool
}

// NewReportRunner creates a new report runner
func NewReportRunner(events review.EventRepository) *ReportRunner {
	return &ReportRunner{
		events:       events,
		stdoutWriter: os.Stdout,
		nowFunc:      time.Now,
	}
}

func (r *ReportRunner) Run(ctx context.Context, ownerID int64, options ReportOptions) error {
	history, err := r.events.FindByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("events.FindByOwner(%d) > %w", ownerID, err)
	}
	if options.BaseIntervalDays <= 0 {
		options.BaseIntervalDays = 7
	}

	data := report.Build(ownerID, history, options.BaseIntervalDays, r.nowFunc())
	rendered, err := report.RenderMarkdown(data, options.TemplatePath)
	if err != nil {
		return fmt.Errorf("report.RenderMarkdown() > %w", err)
	}

	if options.OutputDir == "" {
		if _, err := r.stdoutWriter.Write(rendered); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		if options.YAML {
			contents, err := report.MarshalYAML(data)
			if err != nil {
				return fmt.Errorf("report.MarshalYAML() > %w", err)
			}
			if _, err := r.stdoutWriter.Write(contents); err != nil {
				return fmt.Errorf("failed to write to stdout: %w", err)
			}
		}
		return nil
	}

	baseName := fmt.Sprintf("review-report-%d-%s", ownerID, r.nowFunc().Format("2006-01-02"))
	markdownPath := filepath.Join(options.OutputDir, baseName+".md")
	if err := os.WriteFile(markdownPath, rendered, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
	}
	fmt.Fprintf(r.stdoutWriter, "Wrote %s\n", markdownPath)

	if options.YAML {
		yamlPath := filepath.Join(options.OutputDir, baseName+".yml")
		contents, err := report.MarshalYAML(data)
		if err != nil {
			return fmt.Errorf("report.MarshalYAML() > %w", err)
		}
		if err := os.WriteFile(yamlPath, contents, 0644); err != nil {
			return fmt.Errorf("os.WriteFile(%s) > %w", yamlPath, err)
		}
		fmt.Fprintf(r.stdoutWriter, "Wrote %s\n", yamlPath)
	}

	if options.PDF {
		pdfPath, err := pdf.RenderMarkdown(rendered, filepath.Join(options.OutputDir, baseName+".pdf"))
		if err != nil {
			return fmt.Errorf("pdf.RenderMarkdown() > %w", err)
		}
		fmt.Fprintf(r.stdoutWriter, "Wrote %s\n", pdfPath)
	}
	return nil
}
