// Package domain defines the core types for discovered test positions and
// run outcomes.
package domain

import "strings"

// Kind represents the level of a discovered position.
type Kind string

// Position kinds, outermost first.
const (
	// KindFile is the root position for one source file.
	KindFile Kind = "file"
	// KindNamespace is a test-grouping construct (a describe block).
	KindNamespace Kind = "namespace"
	// KindTest is an individual test declaration (it/test).
	KindTest Kind = "test"
)

// Range is the 0-based source span of a position's defining call.
type Range struct {
	StartLine int `json:"startLine"`
	StartCol  int `json:"startCol"`
	EndLine   int `json:"endLine"`
	EndCol    int `json:"endCol"`
}

// Contains reports whether other lies entirely within r.
func (r Range) Contains(other Range) bool {
	startsBefore := r.StartLine < other.StartLine ||
		(r.StartLine == other.StartLine && r.StartCol <= other.StartCol)
	endsAfter := r.EndLine > other.EndLine ||
		(r.EndLine == other.EndLine && r.EndCol >= other.EndCol)
	return startsBefore && endsAfter
}

// Position is a node in the discovered file → namespace → test hierarchy.
// Positions are created fresh on every discovery call and carry no state
// across runs.
type Position struct {
	// Kind is the level of this node.
	Kind Kind `json:"kind"`
	// Name is the literal string argument as written in source, including
	// its quote characters. Empty for file positions.
	Name string `json:"name"`
	// Path is the absolute file path, identical for all positions of one file.
	Path string `json:"path"`
	// Range is the defining span of the declaration.
	Range Range `json:"range"`
	// Children contains nested positions in source order.
	Children []*Position `json:"children,omitempty"`

	id PositionID
}

// ID returns the structured identifier assigned at discovery time.
func (p *Position) ID() PositionID { return p.id }

// SetID assigns the identifier. Called once by discovery; exposed so hosts
// building their own trees can satisfy the same contract.
func (p *Position) SetID(id PositionID) { p.id = id }

// Walk visits p and all descendants in pre-order.
func (p *Position) Walk(visit func(*Position)) {
	visit(p)
	for _, c := range p.Children {
		c.Walk(visit)
	}
}

// CountTests returns the number of test positions under p, inclusive.
func (p *Position) CountTests() int {
	count := 0
	p.Walk(func(pos *Position) {
		if pos.Kind == KindTest {
			count++
		}
	})
	return count
}

// Separator joins identifier segments. Shared by position IDs and the
// report-side composite identifiers so the two key spaces line up.
const Separator = "::"

// PositionID identifies a position by its file path plus the ordered chain
// of ancestor names leading to it. IDs are compared by value; String renders
// the form the report-side composite identifiers must be matched against.
// Invariant: two positions of the same file with the same ancestor-name
// chain render to the same string.
type PositionID struct {
	// Path is the absolute file path.
	Path string
	// Segments holds ancestor names outermost first, each still carrying its
	// source quote characters.
	Segments []string
}

// Child returns a new ID extended with one more segment.
func (id PositionID) Child(segment string) PositionID {
	segments := make([]string, 0, len(id.Segments)+1)
	segments = append(segments, id.Segments...)
	segments = append(segments, segment)
	return PositionID{Path: id.Path, Segments: segments}
}

// String renders the identifier as path::segment::...::segment.
func (id PositionID) String() string {
	if len(id.Segments) == 0 {
		return id.Path
	}
	return id.Path + Separator + strings.Join(id.Segments, Separator)
}

// NormalizeID unifies the quoting convention of a rendered identifier with
// the report side, which always double-quotes its segments. This is the only
// conversion applied when joining the two key spaces; it deliberately does
// not touch backtick template literals, which the runner reports verbatim.
func NormalizeID(id string) string {
	return strings.ReplaceAll(id, "'", `"`)
}

// CompositeID builds the report-side identifier for one assertion result:
// the file path joined with each ancestor title and the test title, every
// segment double-quoted.
func CompositeID(path string, ancestors []string, title string) string {
	var b strings.Builder
	b.WriteString(path)
	for _, a := range ancestors {
		b.WriteString(Separator)
		b.WriteString(`"`)
		b.WriteString(a)
		b.WriteString(`"`)
	}
	b.WriteString(Separator)
	b.WriteString(`"`)
	b.WriteString(title)
	b.WriteString(`"`)
	return b.String()
}
