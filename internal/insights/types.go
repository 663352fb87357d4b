// Package insights aggregates file and component data into repository-level
// metrics and the final analysis record.
package insights

import (
	"time"

	"repolens/internal/graph"
	"repolens/internal/parser"
)

// RepositoryMetrics holds repo-wide aggregates.
type RepositoryMetrics struct {
	TotalFiles int `json:"totalFiles"`
	TotalLines int `json:"totalLines"`

	// Languages maps language tag to file count.
	Languages map[string]int `json:"languages"`

	AverageComplexity    float64 `json:"averageComplexity"`
	MaxComplexity        int     `json:"maxComplexity"`
	MaintainabilityIndex float64 `json:"maintainabilityIndex"`
	TechnicalDebt        float64 `json:"technicalDebt"`
}

// HotspotFile is a file with unusually high historical change frequency.
type HotspotFile struct {
	Path        string `json:"path"`
	CommitCount int    `json:"commitCount"`
}

// ComplexFile is a file flagged for high cyclomatic complexity.
type ComplexFile struct {
	Path       string `json:"path"`
	Complexity int    `json:"complexity"`
}

// EntryPoint is a file exporting at least one public symbol.
type EntryPoint struct {
	Path string `json:"path"`
	// Exports holds up to the first three export names.
	Exports []string `json:"exports"`
	// Truncated indicates the file has more exports than listed.
	Truncated bool `json:"truncated"`
}

// LearningModule is one unit of the generated curriculum.
type LearningModule struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Files       []string `json:"files"`
}

// LearningPath is the generated curriculum for reading the repository.
type LearningPath struct {
	Difficulty     string           `json:"difficulty"` // beginner | intermediate | advanced
	EstimatedHours int              `json:"estimatedHours"`
	Modules        []LearningModule `json:"modules"`
}

// Insights holds the heuristic classification of a repository.
type Insights struct {
	ArchitecturalStyle     string        `json:"architecturalStyle"`
	QualityRating          string        `json:"qualityRating"`
	ComplexityDistribution string        `json:"complexityDistribution"`
	Issues                 []string      `json:"issues"`
	Recommendations        []string      `json:"recommendations"`
	Hotspots               []HotspotFile `json:"hotspots"`
	HighComplexity         []ComplexFile `json:"highComplexity"`
	EntryPoints            []EntryPoint  `json:"entryPoints"`
	LearningPath           LearningPath  `json:"learningPath"`
}

// RepositoryAnalysis is the terminal aggregate produced once per run. It is
// immutable output; callers may cache it keyed by repository identifier.
type RepositoryAnalysis struct {
	ID           string              `json:"id"`
	Repository   string              `json:"repository"`
	Files        []parser.FileRecord `json:"files"`
	Architecture graph.Architecture  `json:"architecture"`
	Metrics      RepositoryMetrics   `json:"metrics"`
	Insights     Insights            `json:"insights"`
	CreatedAt    time.Time           `json:"createdAt"`
}
