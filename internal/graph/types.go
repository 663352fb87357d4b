// Package graph groups files into components and infers the directed
// relationship graph between them.
package graph

// ComponentType classifies a component by path heuristics.
type ComponentType string

const (
	TypeComponent ComponentType = "component"
	TypeService   ComponentType = "service"
	TypeUtility   ComponentType = "utility"
	TypePage      ComponentType = "page"
	TypeAPI       ComponentType = "api"
)

// Component is a named grouping of files treated as one architectural unit.
// Every file belongs to exactly one component; component names are unique
// within an analysis run.
type Component struct {
	Name         string        `json:"name"`
	Type         ComponentType `json:"type"`
	Files        []string      `json:"files"`
	Dependencies []string      `json:"dependencies"`
	Complexity   int           `json:"complexity"`
	Description  string        `json:"description"`
	Patterns     []string      `json:"patterns"`
}

// RelationKind is the type of a relationship edge.
type RelationKind string

const (
	RelationImports RelationKind = "imports"
	RelationExtends RelationKind = "extends"
)

// relationStrength is the fixed edge strength per kind.
var relationStrength = map[RelationKind]float64{
	RelationImports: 0.8,
	RelationExtends: 0.7,
}

// Relationship is a directed edge between two components. Self-edges are
// never emitted.
type Relationship struct {
	From     string       `json:"from"`
	To       string       `json:"to"`
	Kind     RelationKind `json:"kind"`
	Strength float64      `json:"strength"`
}

// Architecture is the component graph for one analysis run.
type Architecture struct {
	Components    []Component    `json:"components"`
	Relationships []Relationship `json:"relationships"`
}
