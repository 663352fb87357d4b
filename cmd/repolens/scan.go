package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"repolens/internal/paths"
	"repolens/internal/scanner"
)

var scanFormat string

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "List the source files an analysis would cover",
	Long: `List the source files that pass the extension, ignore, and size filters.

Useful for checking scan configuration before running a full analysis.

Examples:
  repolens scan .
  repolens scan --format=json ./my-app`,
	Args: cobra.ExactArgs(1),
	Run:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(scanCmd)
}

type scanResponse struct {
	Root  string   `json:"root"`
	Count int      `json:"count"`
	Files []string `json:"files"`
}

func runScan(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	root := args[0]

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: not a directory: %s\n", root)
		os.Exit(1)
	}

	sc := scanner.New(scanner.Options{
		Extensions:       cfg.Scan.Extensions,
		Ignore:           cfg.Scan.Ignore,
		MaxFileSizeBytes: cfg.Scan.MaxFileSizeBytes,
	}, logger)

	found, err := sc.Scan(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: scan failed: %v\n", err)
		os.Exit(1)
	}

	resp := scanResponse{Root: root, Count: len(found)}
	for _, abs := range found {
		rel, err := paths.Canonicalize(abs, root)
		if err != nil {
			rel = abs
		}
		resp.Files = append(resp.Files, rel)
	}

	output, err := FormatScan(&resp, OutputFormat(scanFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
