package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"repolens/internal/complexity"
	"repolens/internal/parser"
)

var (
	complexityFormat           string
	complexityIncludeFunctions bool
	complexitySortBy           string
	complexityLimit            int
)

var complexityCmd = &cobra.Command{
	Use:   "complexity <file>",
	Short: "Get complexity metrics for a single source file",
	Long: `Get complexity metrics for a single JavaScript or TypeScript file.

Returns cyclomatic complexity and maintainability for the file and each of its
functions and classes.

Examples:
  repolens complexity src/api/handler.ts
  repolens complexity --sort=name --limit=10 src/app.js
  repolens complexity --format=human src/pages/index.tsx`,
	Args: cobra.ExactArgs(1),
	Run:  runComplexity,
}

func init() {
	complexityCmd.Flags().StringVar(&complexityFormat, "format", "json", "Output format (json, human)")
	complexityCmd.Flags().BoolVar(&complexityIncludeFunctions, "include-functions", true, "Include per-function complexity")
	complexityCmd.Flags().StringVar(&complexitySortBy, "sort", "cyclomatic", "Sort by: cyclomatic or name")
	complexityCmd.Flags().IntVar(&complexityLimit, "limit", 0, "Limit number of functions shown (0 for all)")
	rootCmd.AddCommand(complexityCmd)
}

type functionComplexityCLI struct {
	Name       string `json:"name"`
	StartLine  int    `json:"startLine"`
	EndLine    int    `json:"endLine"`
	Cyclomatic int    `json:"cyclomatic"`
	Risk       string `json:"risk"`
}

// riskBand labels a cyclomatic score for quick triage.
func riskBand(cyclomatic int) string {
	switch {
	case cyclomatic > 10:
		return "high"
	case cyclomatic > 5:
		return "medium"
	default:
		return "low"
	}
}

type complexityResponse struct {
	Path            string                  `json:"path"`
	Language        string                  `json:"language"`
	Lines           int                     `json:"lines"`
	Cyclomatic      int                     `json:"cyclomatic"`
	Maintainability float64                 `json:"maintainability"`
	TechnicalDebt   float64                 `json:"technicalDebt"`
	Functions       []functionComplexityCLI `json:"functions,omitempty"`
}

func runComplexity(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	filePath := args[0]

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot resolve path: %v\n", err)
		os.Exit(1)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", absPath)
		os.Exit(1)
	}

	if !parser.IsAvailable() {
		fmt.Fprintf(os.Stderr, "Error: complexity analysis requires CGO (tree-sitter)\n")
		fmt.Fprintf(os.Stderr, "This binary was built without CGO support.\n")
		os.Exit(1)
	}

	rec, err := parser.NewExtractor().ExtractFile(context.Background(), absPath, filepath.ToSlash(filePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing file: %v\n", err)
		os.Exit(1)
	}

	resp := &complexityResponse{
		Path:            filePath,
		Language:        rec.Language,
		Lines:           rec.Lines,
		Cyclomatic:      rec.Complexity.Cyclomatic,
		Maintainability: rec.Complexity.Maintainability,
		TechnicalDebt:   complexity.Debt(rec.Complexity.Cyclomatic, cfg.Complexity.DebtThreshold),
	}

	if complexityIncludeFunctions {
		for _, fn := range rec.Functions {
			resp.Functions = append(resp.Functions, functionComplexityCLI{
				Name:       fn.Name,
				StartLine:  fn.StartLine,
				EndLine:    fn.EndLine,
				Cyclomatic: fn.Complexity,
				Risk:       riskBand(fn.Complexity),
			})
		}
		if complexitySortBy == "name" {
			sort.Slice(resp.Functions, func(i, j int) bool { return resp.Functions[i].Name < resp.Functions[j].Name })
		} else {
			sort.Slice(resp.Functions, func(i, j int) bool {
				return resp.Functions[i].Cyclomatic > resp.Functions[j].Cyclomatic
			})
		}
		if complexityLimit > 0 && len(resp.Functions) > complexityLimit {
			resp.Functions = resp.Functions[:complexityLimit]
		}
	}

	output, err := FormatComplexity(resp, OutputFormat(complexityFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
