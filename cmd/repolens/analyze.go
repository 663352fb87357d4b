package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"repolens/internal/analyzer"
	"repolens/internal/export"
	"repolens/internal/gitrepo"
	"repolens/internal/store"
)

var (
	analyzeFormat   string
	analyzeOutput   string
	analyzeToken    string
	analyzeNoCache  bool
	analyzeProgress bool
	analyzeTimeout  time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <repository>",
	Short: "Run a full analysis of a repository",
	Long: `Run the complete analysis pipeline for a repository.

The repository argument is either a local directory or a git clone URL.
Remote repositories are cloned to a temporary directory that is removed when
the run finishes.

Examples:
  repolens analyze .
  repolens analyze https://github.com/vercel/next.js
  repolens analyze --format=human --output=report.json.zst ./my-app
  repolens analyze --no-cache --token=$GITHUB_TOKEN https://github.com/org/private`,
	Args: cobra.ExactArgs(1),
	Run:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "Output format (json, human)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "Also export the analysis to this file (.json, .yaml, optional .zst suffix)")
	analyzeCmd.Flags().StringVar(&analyzeToken, "token", "", "Access token for authenticated clones")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "Bypass the result cache")
	analyzeCmd.Flags().BoolVar(&analyzeProgress, "progress", true, "Report stage progress on stderr")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 10*time.Minute, "Overall analysis timeout")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	identifier := args[0]

	var st store.Store
	if !analyzeNoCache {
		var err error
		st, err = newStore(cfg, logger)
		if err != nil {
			// A broken cache should not block an analysis.
			logger.Warn("cache unavailable, continuing without it", map[string]interface{}{"error": err.Error()})
			st = nil
		}
	}
	if st != nil {
		defer st.Close()
	}

	fetcher := gitrepo.NewFetcher(analyzeToken, logger)
	svc := analyzer.NewService(cfg, fetcher, st, logger)

	var onProgress analyzer.ProgressFunc
	if analyzeProgress {
		onProgress = func(p analyzer.Progress) {
			if p.CurrentFile != "" {
				fmt.Fprintf(os.Stderr, "[%3d%%] %s: %s (%s)\n", p.Percent, p.Stage, p.Message, p.CurrentFile)
				return
			}
			fmt.Fprintf(os.Stderr, "[%3d%%] %s: %s\n", p.Percent, p.Stage, p.Message)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	start := time.Now()
	analysis, err := svc.Analyze(ctx, identifier, onProgress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: analysis failed: %v\n", err)
		os.Exit(1)
	}

	logger.Info("analysis finished", map[string]interface{}{
		"repository": identifier,
		"files":      len(analysis.Files),
		"durationMs": time.Since(start).Milliseconds(),
	})

	if analyzeOutput != "" {
		format := export.FormatJSON
		if f, err := formatFromPath(analyzeOutput); err == nil {
			format = f
		}
		if err := export.WriteFile(analyzeOutput, analysis, format); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Info("analysis exported", map[string]interface{}{"path": analyzeOutput})
	}

	output, err := FormatAnalysis(analysis, OutputFormat(analyzeFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
