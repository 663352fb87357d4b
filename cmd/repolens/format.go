package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"repolens/internal/insights"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// FormatAnalysis renders a full analysis in the requested format.
func FormatAnalysis(analysis *insights.RepositoryAnalysis, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(analysis)
	case FormatHuman:
		return formatAnalysisHuman(analysis), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatAnalysisHuman(a *insights.RepositoryAnalysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Repository: %s\n", a.Repository))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	m := a.Metrics
	b.WriteString("Metrics:\n")
	b.WriteString(fmt.Sprintf("  Files:           %d\n", m.TotalFiles))
	b.WriteString(fmt.Sprintf("  Lines:           %d\n", m.TotalLines))
	b.WriteString(fmt.Sprintf("  Avg complexity:  %.2f (max %d)\n", m.AverageComplexity, m.MaxComplexity))
	b.WriteString(fmt.Sprintf("  Maintainability: %.1f\n", m.MaintainabilityIndex))
	b.WriteString(fmt.Sprintf("  Technical debt:  %.1f\n", m.TechnicalDebt))
	if len(m.Languages) > 0 {
		b.WriteString("  Languages:")
		for _, lang := range sortedKeys(m.Languages) {
			b.WriteString(fmt.Sprintf(" %s=%d", lang, m.Languages[lang]))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	ins := a.Insights
	b.WriteString("Insights:\n")
	b.WriteString(fmt.Sprintf("  Style:        %s\n", ins.ArchitecturalStyle))
	b.WriteString(fmt.Sprintf("  Quality:      %s\n", ins.QualityRating))
	b.WriteString(fmt.Sprintf("  Distribution: %s\n", ins.ComplexityDistribution))
	for _, issue := range ins.Issues {
		b.WriteString(fmt.Sprintf("  Issue: %s\n", issue))
	}
	for _, rec := range ins.Recommendations {
		b.WriteString(fmt.Sprintf("  Recommendation: %s\n", rec))
	}
	b.WriteString("\n")

	if len(a.Architecture.Components) > 0 {
		b.WriteString(fmt.Sprintf("Components (%d):\n", len(a.Architecture.Components)))
		for _, c := range a.Architecture.Components {
			b.WriteString(fmt.Sprintf("  %-24s %-10s files=%d complexity=%d\n",
				c.Name, c.Type, len(c.Files), c.Complexity))
		}
		b.WriteString("\n")
	}

	if len(ins.Hotspots) > 0 {
		b.WriteString("Hotspots:\n")
		for _, h := range ins.Hotspots {
			b.WriteString(fmt.Sprintf("  %s (%d commits)\n", h.Path, h.CommitCount))
		}
		b.WriteString("\n")
	}

	if len(ins.HighComplexity) > 0 {
		b.WriteString("High complexity:\n")
		for _, h := range ins.HighComplexity {
			b.WriteString(fmt.Sprintf("  %s (cyclomatic %d)\n", h.Path, h.Complexity))
		}
		b.WriteString("\n")
	}

	lp := ins.LearningPath
	b.WriteString(fmt.Sprintf("Learning path (%s, ~%dh):\n", lp.Difficulty, lp.EstimatedHours))
	for i, mod := range lp.Modules {
		b.WriteString(fmt.Sprintf("  %d. %s - %s\n", i+1, mod.Name, mod.Description))
		for _, f := range mod.Files {
			b.WriteString(fmt.Sprintf("     %s\n", f))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatScan renders a scan listing in the requested format.
func FormatScan(resp *scanResponse, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%d file(s) under %s\n", resp.Count, resp.Root))
		for _, f := range resp.Files {
			b.WriteString("  " + f + "\n")
		}
		return strings.TrimRight(b.String(), "\n"), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatComplexity renders single-file complexity in the requested format.
func FormatComplexity(resp *complexityResponse, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%s (%s, %d lines)\n", resp.Path, resp.Language, resp.Lines))
		b.WriteString(fmt.Sprintf("  Cyclomatic:      %d\n", resp.Cyclomatic))
		b.WriteString(fmt.Sprintf("  Maintainability: %.1f\n", resp.Maintainability))
		b.WriteString(fmt.Sprintf("  Technical debt:  %.1f\n", resp.TechnicalDebt))
		for _, fn := range resp.Functions {
			b.WriteString(fmt.Sprintf("  %-32s L%d-%d cyclomatic=%d risk=%s\n",
				fn.Name, fn.StartLine, fn.EndLine, fn.Cyclomatic, fn.Risk))
		}
		return strings.TrimRight(b.String(), "\n"), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
