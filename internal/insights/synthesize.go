package insights

import (
	"fmt"
	"sort"

	"repolens/internal/complexity"
	"repolens/internal/errors"
	"repolens/internal/graph"
	"repolens/internal/parser"
)

// Options tunes the synthesizer thresholds.
type Options struct {
	// DebtThreshold is the per-file cyclomatic score above which technical
	// debt accrues.
	DebtThreshold int
	// CoreFunctionThreshold selects core-material files for the learning
	// path: any file containing a function above this score qualifies.
	CoreFunctionThreshold int
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{DebtThreshold: 10, CoreFunctionThreshold: 10}
}

const emptyRepoMessage = "No supported source files were found in this repository."

// topN caps the hotspot and high-complexity lists.
const topN = 5

// Synthesize aggregates file and component data into repository metrics and
// insights. All divisions over possibly-empty sets are guarded; an empty
// file set yields a well-formed zero result, never an error.
func Synthesize(files []parser.FileRecord, arch *graph.Architecture, opts Options) (RepositoryMetrics, Insights, error) {
	if arch == nil {
		return RepositoryMetrics{}, Insights{}, errors.New(errors.AggregationFailed, "architecture graph is nil", nil)
	}

	metrics := computeMetrics(files, opts)

	ins := Insights{
		ArchitecturalStyle: architecturalStyle(arch.Components),
		QualityRating:      qualityRating(metrics.MaintainabilityIndex),
		Issues:             []string{},
		Recommendations:    []string{},
		Hotspots:           hotspots(files),
		HighComplexity:     highComplexity(files),
		EntryPoints:        entryPoints(files),
	}

	if metrics.TotalFiles == 0 {
		ins.ComplexityDistribution = emptyRepoMessage
		ins.LearningPath = LearningPath{Difficulty: "beginner", EstimatedHours: 0, Modules: []LearningModule{}}
		return metrics, ins, nil
	}

	ins.ComplexityDistribution = distributionNarrative(metrics.AverageComplexity)
	ins.Issues, ins.Recommendations = adviseOn(metrics, ins)
	ins.LearningPath = learningPath(files, arch, metrics, opts)

	return metrics, ins, nil
}

func computeMetrics(files []parser.FileRecord, opts Options) RepositoryMetrics {
	m := RepositoryMetrics{
		TotalFiles: len(files),
		Languages:  map[string]int{},
	}

	totalCyclomatic := 0
	for _, f := range files {
		m.TotalLines += f.Lines
		m.Languages[f.Language]++
		totalCyclomatic += f.Complexity.Cyclomatic
		if f.Complexity.Cyclomatic > m.MaxComplexity {
			m.MaxComplexity = f.Complexity.Cyclomatic
		}
		m.TechnicalDebt += complexity.Debt(f.Complexity.Cyclomatic, opts.DebtThreshold)
	}

	// Average over an empty set is 0, not NaN.
	if m.TotalFiles > 0 {
		m.AverageComplexity = float64(totalCyclomatic) / float64(m.TotalFiles)
	}
	m.MaintainabilityIndex = complexity.MaintainabilityIndex(totalCyclomatic, m.TotalLines)

	return m
}

// architecturalStyle applies the fixed decision table over the set of
// component types.
func architecturalStyle(components []graph.Component) string {
	types := map[graph.ComponentType]bool{}
	for _, c := range components {
		types[c.Type] = true
	}

	switch {
	case types[graph.TypePage] && types[graph.TypeAPI] && types[graph.TypeService]:
		return "Full-Stack Application"
	case types[graph.TypePage] && !types[graph.TypeAPI]:
		return "Frontend Application"
	case types[graph.TypeAPI] && !types[graph.TypePage]:
		return "Backend API"
	default:
		return "Component Library"
	}
}

// qualityRating maps the maintainability index to a label. Thresholds are
// strict greater-than; ties fall to the lower band.
func qualityRating(maintainability float64) string {
	switch {
	case maintainability > 80:
		return "Excellent"
	case maintainability > 60:
		return "Good"
	case maintainability > 40:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

func distributionNarrative(avg float64) string {
	switch {
	case avg < 5:
		return "Complexity is low: most files are simple and should be easy to follow."
	case avg < 10:
		return "Complexity is moderate: some files carry significant branching logic."
	default:
		return "Complexity is high: many files contain dense branching logic and will be hard to change safely."
	}
}

func adviseOn(m RepositoryMetrics, ins Insights) (issues, recommendations []string) {
	issues = []string{}
	recommendations = []string{}

	if m.AverageComplexity >= 10 {
		issues = append(issues, "average file complexity is high")
		recommendations = append(recommendations, "refactor the most complex files into smaller units")
	}
	if m.TechnicalDebt > 20 {
		issues = append(issues, fmt.Sprintf("estimated technical debt is %.1f points", m.TechnicalDebt))
		recommendations = append(recommendations, "schedule debt reduction for files above the complexity threshold")
	}
	if m.MaintainabilityIndex <= 60 {
		issues = append(issues, "maintainability index is below the comfortable range")
	}
	if len(ins.Hotspots) > 0 {
		recommendations = append(recommendations, "add regression tests around frequently changed files")
	}

	return issues, recommendations
}

// hotspots returns the top files by commit count. A file qualifies only with
// at least two recorded commits; without history data the list is empty.
func hotspots(files []parser.FileRecord) []HotspotFile {
	out := []HotspotFile{}
	for _, f := range files {
		if f.CommitCount >= 2 {
			out = append(out, HotspotFile{Path: f.Path, CommitCount: f.CommitCount})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CommitCount != out[j].CommitCount {
			return out[i].CommitCount > out[j].CommitCount
		}
		return out[i].Path < out[j].Path
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

func highComplexity(files []parser.FileRecord) []ComplexFile {
	out := []ComplexFile{}
	for _, f := range files {
		if f.Complexity.Cyclomatic > 0 {
			out = append(out, ComplexFile{Path: f.Path, Complexity: f.Complexity.Cyclomatic})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Complexity != out[j].Complexity {
			return out[i].Complexity > out[j].Complexity
		}
		return out[i].Path < out[j].Path
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// entryPoints lists every file with at least one export, carrying up to the
// first three export names.
func entryPoints(files []parser.FileRecord) []EntryPoint {
	out := []EntryPoint{}
	for _, f := range files {
		if len(f.Exports) == 0 {
			continue
		}
		ep := EntryPoint{Path: f.Path, Exports: []string{}}
		for i, exp := range f.Exports {
			if i == 3 {
				ep.Truncated = true
				break
			}
			ep.Exports = append(ep.Exports, exp.Name)
		}
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// learningPath derives a curriculum. Difficulty and hours step on a weighted
// size score; the module list always includes an architecture overview with
// one representative file per component, plus a core-functionality module
// when complex files exist.
func learningPath(files []parser.FileRecord, arch *graph.Architecture, m RepositoryMetrics, opts Options) LearningPath {
	totalCyclomatic := 0
	for _, f := range files {
		totalCyclomatic += f.Complexity.Cyclomatic
	}
	weighted := float64(totalCyclomatic) + float64(m.TotalLines)/100

	path := LearningPath{Modules: []LearningModule{}}
	switch {
	case weighted > 150:
		path.Difficulty = "advanced"
		path.EstimatedHours = 40
	case weighted > 60:
		path.Difficulty = "intermediate"
		path.EstimatedHours = 20
	default:
		path.Difficulty = "beginner"
		path.EstimatedHours = 8
	}

	if len(arch.Components) > 0 {
		overview := LearningModule{
			Name:        "Architecture Overview",
			Description: "One representative file per component to map the overall structure.",
			Files:       []string{},
		}
		for _, c := range arch.Components {
			if len(c.Files) > 0 {
				overview.Files = append(overview.Files, c.Files[0])
			}
		}
		path.Modules = append(path.Modules, overview)
	}

	core := coreFiles(files, opts.CoreFunctionThreshold)
	if len(core) > 0 {
		path.Modules = append(path.Modules, LearningModule{
			Name:        "Core Functionality",
			Description: "Files containing the most complex logic; read after the overview.",
			Files:       core,
		})
	}

	return path
}

// coreFiles returns up to five files containing a function or method above
// the threshold, ordered by file complexity descending.
func coreFiles(files []parser.FileRecord, threshold int) []string {
	type candidate struct {
		path       string
		complexity int
	}
	var out []candidate

	for _, f := range files {
		qualifies := false
		for _, fn := range f.Functions {
			if fn.Complexity > threshold {
				qualifies = true
				break
			}
		}
		if !qualifies {
			for _, cls := range f.Classes {
				for _, m := range cls.Methods {
					if m.Complexity > threshold {
						qualifies = true
						break
					}
				}
			}
		}
		if qualifies {
			out = append(out, candidate{path: f.Path, complexity: f.Complexity.Cyclomatic})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].complexity != out[j].complexity {
			return out[i].complexity > out[j].complexity
		}
		return out[i].path < out[j].path
	})
	if len(out) > topN {
		out = out[:topN]
	}

	paths := make([]string, 0, len(out))
	for _, c := range out {
		paths = append(paths, c.path)
	}
	return paths
}
