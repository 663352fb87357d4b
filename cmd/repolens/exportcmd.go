package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"repolens/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <analysis-file>",
	Short: "Convert an exported analysis between formats",
	Long: `Convert a previously exported analysis file to another format.

The input and output formats are inferred from the file extensions. A ".zst"
suffix selects zstd compression.

Examples:
  repolens export report.json --out report.yaml
  repolens export report.json --out report.json.zst
  repolens export report.yaml.zst --out report.json`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Destination file (required)")
	exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

// formatFromPath infers the export format from a file name, ignoring a
// trailing ".zst".
func formatFromPath(path string) (export.Format, error) {
	name := strings.TrimSuffix(path, ".zst")
	switch {
	case strings.HasSuffix(name, ".json"):
		return export.FormatJSON, nil
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return export.FormatYAML, nil
	default:
		return "", fmt.Errorf("cannot infer format from %q (expected .json or .yaml)", path)
	}
}

func runExport(cmd *cobra.Command, args []string) {
	analysis, err := export.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	format, err := formatFromPath(exportOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := export.WriteFile(exportOut, analysis, format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
