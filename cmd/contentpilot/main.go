package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ContentPilot/internal/app"
	"ContentPilot/internal/config"
	"ContentPilot/internal/domain"
	"ContentPilot/internal/logging"
	"ContentPilot/internal/quality"
	"ContentPilot/internal/revision"
)

var (
	focusKeyword string
	siteHost     string
)

var rootCmd = &cobra.Command{
	Use:   "contentpilot",
	Short: "Automated article generation and publishing pipeline",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the automation loop until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger := logging.New(cfg.Logging)

		application, err := app.New(cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return application.Run(ctx)
	},
}

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Execute a single automation tick and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger := logging.New(cfg.Logging)

		application, err := app.New(cfg, logger)
		if err != nil {
			return err
		}

		return application.RunOnce(cmd.Context())
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <file.html>",
	Short: "Score an HTML file against the quality checklist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		thresholds := quality.DefaultThresholds()
		if siteHost != "" {
			thresholds.SiteHost = siteHost
		}

		assessment := quality.Score(string(raw), quality.ArticleMeta{FocusKeyword: focusKeyword}, thresholds)

		fmt.Printf("score: %d\n", assessment.Score)
		fmt.Printf("publishable: %v\n", assessment.CanPublish)
		fmt.Printf("risk: %s\n", quality.RiskLevel(assessment))
		for _, issue := range assessment.Issues {
			fmt.Printf("  - %s\n", issue)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <original.html> <revised.html> <feedback.json>",
	Short: "Check a revised article against a list of feedback items",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		original, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		revised, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[1], err)
		}
		rawFeedback, err := os.ReadFile(args[2])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[2], err)
		}

		var items []domain.FeedbackItem
		if err := json.Unmarshal(rawFeedback, &items); err != nil {
			return fmt.Errorf("parse feedback: %w", err)
		}

		report := revision.Validate(string(original), string(revised), items)

		fmt.Println(report.Summary)
		for i, result := range report.Items {
			fmt.Printf("  [%d] %s\n", i+1, result.Status)
			for _, w := range result.Warnings {
				fmt.Printf("      warning: %s\n", w)
			}
		}
		if !report.Success {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&focusKeyword, "focus-keyword", "", "Focus keyword for density checks")
	scoreCmd.Flags().StringVar(&siteHost, "site-host", "", "Host treated as internal for link counting")

	rootCmd.AddCommand(runCmd, onceCmd, scoreCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
