// Package sourcemap defines the position, span, and line-mapping types
// shared by every stage of the compiler, from the import preprocessor
// through diagnostics rendering.
package sourcemap

import "fmt"

// Pos is a single point in the unified source: a 1-based line/column pair
// plus the byte offset used for span arithmetic.
type Pos struct {
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) into the unified source,
// carried by every token and AST/HIR/MIR node.
type Span struct {
	Start Pos
	End   Pos
}

// Merge returns the smallest span covering both a and b.
func Merge(a, b Span) Span {
	start := a.Start
	if b.Start.Offset < start.Offset {
		start = b.Start
	}
	end := a.End
	if b.End.Offset > end.Offset {
		end = b.End
	}
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// LineInfo records where one line of the unified (post-preprocessor)
// source text came from: the original file, its original line number,
// and the chain of import specifiers that caused it to be inlined
// (outermost first). Compiler-generated lines (e.g. synthesized
// `namespace X {` wrappers) use OriginalFile == Generated.
type LineInfo struct {
	OriginalFile string
	OriginalLine int
	ImportChain  []string
}

// Generated marks a LineInfo produced by the preprocessor itself rather
// than copied from a source file.
const Generated = "<generated>"

// IsGenerated reports whether this line was synthesized by the
// preprocessor (namespace wrapper braces, splice markers, ...).
func (l LineInfo) IsGenerated() bool {
	return l.OriginalFile == Generated
}

// SourceMap maps each 1-based line of the unified source produced by the
// import preprocessor back to its origin. Line i (1-based) is stored at
// index i-1.
type SourceMap struct {
	lines []LineInfo
}

// New creates an empty SourceMap.
func New() *SourceMap {
	return &SourceMap{}
}

// Append records the origin of the next line and returns its new
// 1-based line number in the unified source.
func (m *SourceMap) Append(info LineInfo) int {
	m.lines = append(m.lines, info)
	return len(m.lines)
}

// Len reports how many lines are tracked; callers use this to check the
// invariant len(lines(output)) == source_map.size().
func (m *SourceMap) Len() int {
	return len(m.lines)
}

// Lookup returns the origin of unified-source line (1-based). The zero
// value and false are returned for an out-of-range line.
func (m *SourceMap) Lookup(unifiedLine int) (LineInfo, bool) {
	if unifiedLine < 1 || unifiedLine > len(m.lines) {
		return LineInfo{}, false
	}
	return m.lines[unifiedLine-1], true
}

// BackMap resolves a Pos in the unified source to its originating file
// and line, following the same line through the import chain that
// produced it.
func (m *SourceMap) BackMap(p Pos) (file string, line int, chain []string, ok bool) {
	info, found := m.Lookup(p.Line)
	if !found {
		return "", 0, nil, false
	}
	return info.OriginalFile, info.OriginalLine, info.ImportChain, true
}
