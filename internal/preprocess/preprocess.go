// Package preprocess implements the C1 import preprocessor: given a
// root source file, it recursively resolves, loads, inlines, and
// namespace-wraps every import, producing one unified source string
// plus a line-accurate SourceMap.
//
// The cycle-detection/load-stack/search-path idiom uses a stack of
// canonical paths entered/left around each recursive Load call, and a
// layered search-path list (project root, cwd, CM_MODULE_PATH entries,
// stdlib). Statement joining is comment/string-aware, and the
// `module NAME;` first-line sniff tolerates leading blank lines and
// line comments before it.
package preprocess

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cm-lang/cmc/internal/diag"
	"github.com/cm-lang/cmc/internal/sourcemap"
	"github.com/sirupsen/logrus"
)

// Result is the C1 output contract.
type Result struct {
	ProcessedSource string
	SourceMap       *sourcemap.SourceMap
	ImportedModules []string
	ModuleRanges    map[string][2]int // canonical path -> [startLine, endLine] in ProcessedSource
	Success         bool
	ErrorMessage    string
}

// Preprocessor recursively inlines imports into one unified source.
type Preprocessor struct {
	SearchPaths []string
	Logger      *logrus.Entry

	loadStack    []string          // canonical paths currently being processed, for cycle detection
	fullyInlined map[string]bool   // canonical path -> already spliced in full (wildcard/namespace/alias)
	selective    map[string]map[string]bool // canonical path -> already-spliced selective symbol names
	out          strings.Builder
	sm           *sourcemap.SourceMap
	imported     []string
	ranges       map[string][2]int
}

// New constructs a Preprocessor with the given search paths, the
// current-file directory resolution being handled per-import at
// ResolveImport time.
func New(searchPaths []string, logger *logrus.Entry) *Preprocessor {
	return &Preprocessor{
		SearchPaths:  searchPaths,
		Logger:       logger,
		fullyInlined: map[string]bool{},
		selective:    map[string]map[string]bool{},
		sm:           sourcemap.New(),
		ranges:       map[string][2]int{},
	}
}

// Process is the C1 entry point.
func (p *Preprocessor) Process(rootPath string) *Result {
	data, err := os.ReadFile(rootPath)
	if err != nil {
		return p.fail(diag.PP003IOError, fmt.Sprintf("cannot read %s: %v", rootPath, err))
	}
	canon, err := canonicalize(rootPath)
	if err != nil {
		canon = rootPath
	}
	if err := p.inlineFile(canon, string(data), nil); err != nil {
		if r, ok := diag.AsReport(err); ok {
			return p.fail(r.Code, r.Message)
		}
		return p.fail(diag.PP003IOError, err.Error())
	}
	return &Result{
		ProcessedSource: p.out.String(),
		SourceMap:       p.sm,
		ImportedModules: p.importedModules(),
		ModuleRanges:    p.ranges,
		Success:         true,
	}
}

// importedModules reports every canonical path this run inlined, in
// first-seen order, merging full and selective inlining records.
func (p *Preprocessor) importedModules() []string {
	order := make([]string, 0, len(p.fullyInlined)+len(p.selective))
	seen := map[string]bool{}
	for path := range p.fullyInlined {
		if !seen[path] {
			seen[path] = true
			order = append(order, path)
		}
	}
	for path := range p.selective {
		if !seen[path] {
			seen[path] = true
			order = append(order, path)
		}
	}
	return order
}

func (p *Preprocessor) fail(code, msg string) *Result {
	return &Result{Success: false, ErrorMessage: fmt.Sprintf("%s: %s", code, msg)}
}

// inlineFile processes one file's body: joins multi-line import
// statements, recognizes and resolves each import form, recursively
// inlines the target, and otherwise copies source lines through
// verbatim while updating the source map.
func (p *Preprocessor) inlineFile(canonPath, source string, chain []string) error {
	if err := p.pushStack(canonPath, chain); err != nil {
		return err
	}
	defer p.popStack()

	startLine := p.sm.Len() + 1
	stmts := splitStatements(source)
	importChain := append(append([]string(nil), chain...), canonPath)

	for _, st := range stmts {
		if st.IsImport {
			if err := p.handleImport(st.Text, canonPath, importChain); err != nil {
				return err
			}
			continue
		}
		for _, line := range st.Lines {
			p.sm.Append(sourcemap.LineInfo{
				OriginalFile: canonPath,
				OriginalLine: line.lineNo,
				ImportChain:  chain,
			})
			p.out.WriteString(line.text)
			p.out.WriteByte('\n')
		}
	}
	endLine := p.sm.Len()
	p.ranges[canonPath] = [2]int{startLine, endLine}
	return nil
}

func (p *Preprocessor) pushStack(canonPath string, chain []string) error {
	for i, entry := range p.loadStack {
		if entry == canonPath {
			cycle := append(append([]string(nil), p.loadStack[i:]...), canonPath)
			return diag.Wrap(diag.New(diag.PhasePreprocess, diag.PP002Circular,
				"Circular dependency: "+strings.Join(cycle, " -> ")).WithChain(chain))
		}
	}
	p.loadStack = append(p.loadStack, canonPath)
	return nil
}

func (p *Preprocessor) popStack() {
	p.loadStack = p.loadStack[:len(p.loadStack)-1]
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", err
	}
	return resolved, nil
}

func (p *Preprocessor) writeGenerated(line string) {
	p.sm.Append(sourcemap.LineInfo{OriginalFile: sourcemap.Generated})
	p.out.WriteString(line)
	p.out.WriteByte('\n')
}
