package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zafmy/sms-lms-v1-sub000/internal/cli"
	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
	"github.com/zafmy/sms-lms-v1-sub000/internal/statistics"
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze review history and performance",
	}
	cmd.AddCommand(newAnalyzeReportCommand())
	cmd.AddCommand(newAnalyzeStatsCommand())
	return cmd
}

func newAnalyzeReportCommand() *cobra.Command {
	var ownerID int64
	var baseIntervalDays int
	var templatePath, outputDir string
	var asPDF, asYAML bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a learner performance report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ownerID <= 0 {
				return fmt.Errorf("--owner must be a positive learner ID")
			}
			if baseIntervalDays < 1 {
				return fmt.Errorf("--base-interval must be at least 1 day")
			}
			if asPDF && outputDir == "" {
				return fmt.Errorf("--pdf requires --output to be specified")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			runner := cli.NewReportRunner(review.NewDBEventRepository(db))
			return runner.Run(cmd.Context(), ownerID, cli.ReportOptions{
				BaseIntervalDays: baseIntervalDays,
				TemplatePath:     templatePath,
				OutputDir:        outputDir,
				PDF:              asPDF,
				YAML:             asYAML,
			})
		},
	}

	cmd.Flags().Int64Var(&ownerID, "owner", 0, "Learner ID (required)")
	cmd.Flags().IntVar(&baseIntervalDays, "base-interval", 7, "Baseline interval in days for the optimizer")
	cmd.Flags().StringVar(&templatePath, "template", "", "Custom report template path")
	cmd.Flags().StringVar(&outputDir, "output", "", "Write report files to this directory instead of stdout")
	cmd.Flags().BoolVar(&asPDF, "pdf", false, "Also render the report as PDF, requires --output")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Also export the report as YAML")

	return cmd
}

func newAnalyzeStatsCommand() *cobra.Command {
	var ownerID int64
	var year, month int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show monthly review statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ownerID <= 0 {
				return fmt.Errorf("--owner must be a positive learner ID")
			}
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year to be specified")
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			events, err := review.NewDBEventRepository(db).FindByOwner(cmd.Context(), ownerID)
			if err != nil {
				return fmt.Errorf("events.FindByOwner(%d) > %w", ownerID, err)
			}

			result := statistics.Calculate(events, year, month)
			contents, err := yaml.Marshal(result)
			if err != nil {
				return fmt.Errorf("yaml.Marshal() > %w", err)
			}
			cmd.Print(string(contents))
			return nil
		},
	}

	cmd.Flags().Int64Var(&ownerID, "owner", 0, "Learner ID (required)")
	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")

	return cmd
}
