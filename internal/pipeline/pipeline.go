// Package pipeline wires the compiler's front stages end to end: import
// preprocessing, lexing, parsing, target filtering, HIR lowering, MIR
// lowering, MIR optimization, and whole-program DCE. cmd/cmc then
// hands the Result to either the C9 backend driver or the C10
// interpreter; this package calls neither. This system has no
// typeclass dictionary-passing stage, no separate module-linking
// stage, and no REPL mode to branch on, so Pipeline.Compile is one
// straight-line sequence rather than a mode-switched, option-heavy
// config.
//
// Propagation policy: every stage either succeeds or returns one fatal
// error that ends the run; there is no partial,
// diagnostics-plus-result stage in this system, except C1's own
// Result.Success flag which already encodes this.
package pipeline

import (
	"fmt"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/config"
	"github.com/cm-lang/cmc/internal/dce"
	"github.com/cm-lang/cmc/internal/diag"
	"github.com/cm-lang/cmc/internal/hir"
	"github.com/cm-lang/cmc/internal/lexer"
	"github.com/cm-lang/cmc/internal/mir"
	"github.com/cm-lang/cmc/internal/miropt"
	"github.com/cm-lang/cmc/internal/parser"
	"github.com/cm-lang/cmc/internal/preprocess"
	"github.com/cm-lang/cmc/internal/sourcemap"
	"github.com/cm-lang/cmc/internal/target"
)

// Dumps selects which intermediate stage, if any, a caller wants
// rendered instead of continuing the pipeline.
type Dumps struct {
	AST    bool
	HIR    bool
	MIR    bool
	MIROpt bool
}

// Result carries every stage's output a caller might need: the final
// pruned MIR program for the backend or interpreter to consume, plus
// enough of the earlier stages (source map, raw AST) to render
// diagnostics or satisfy a dump flag.
type Result struct {
	Preprocessed *preprocess.Result
	AST          *ast.Program
	Filtered     *ast.Program
	HIR          *hir.Program
	MIR          *mir.Program
	DCEReport    *dce.Report
}

// Pipeline runs the shared front half of both the C9 (codegen) and
// C10 (interpreter) execution paths against one Config.
type Pipeline struct {
	Cfg *config.Config
}

// New builds a Pipeline bound to cfg.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{Cfg: cfg}
}

// Compile runs C1 through C8 against the file at path, stopping early
// and returning the first stage's error (wrapped as a *diag.Report
// where the stage produces one) when a stage fails. dumps, if any
// field is set, stops the pipeline immediately after that stage
// without running the remaining ones — the caller is expected to
// render Result and exit rather than pass it on to C9/C10.
func (p *Pipeline) Compile(path string, dumps Dumps) (*Result, error) {
	log := p.Cfg.WithLogger("preprocess")
	pre := preprocess.New(p.Cfg.SearchPaths, log)
	ppResult := pre.Process(path)
	if !ppResult.Success {
		return nil, fmt.Errorf("preprocess: %s", ppResult.ErrorMessage)
	}
	result := &Result{Preprocessed: ppResult}

	prog, err := p.parse(ppResult)
	if err != nil {
		return result, err
	}
	result.AST = prog
	if dumps.AST {
		return result, nil
	}

	filtered := target.Filter(prog, p.Cfg.Target)
	result.Filtered = filtered

	h, err := hir.Lower(filtered)
	if err != nil {
		return result, fmt.Errorf("hir lowering: %w", err)
	}
	result.HIR = h
	if dumps.HIR {
		return result, nil
	}

	m, err := mir.Lower(h, filtered)
	if err != nil {
		return result, fmt.Errorf("mir lowering: %w", err)
	}
	result.MIR = m
	if dumps.MIR {
		return result, nil
	}

	miropt.NewManager(p.Cfg.OptLevel).Run(m)
	if dumps.MIROpt {
		return result, nil
	}

	result.DCEReport = dce.Prune(m)
	return result, nil
}

// parse runs C2 (lexing, internal to parser.New) and C3 (parsing),
// failing on the first syntax error rather than attempting error
// recovery across the whole file.
func (p *Pipeline) parse(pp *preprocess.Result) (*ast.Program, error) {
	normalized := lexer.Normalize([]byte(pp.ProcessedSource))
	l := lexer.New(string(normalized), p.Cfg.ProjectRoot)
	ps := parser.New(l, p.Cfg.ProjectRoot)
	prog := ps.ParseProgram()
	if errs := ps.Errors(); len(errs) > 0 {
		return nil, renderParseErrors(errs, pp.ProcessedSource, pp.SourceMap, diag.Lang(p.Cfg.Lang))
	}
	return prog, nil
}

func renderParseErrors(errs []*diag.Report, src string, sm *sourcemap.SourceMap, lang diag.Lang) error {
	msg := fmt.Sprintf("%d parse error(s):\n", len(errs))
	for _, r := range errs {
		msg += diag.Render(r, src, sm, lang) + "\n"
	}
	return fmt.Errorf("%s", msg)
}
