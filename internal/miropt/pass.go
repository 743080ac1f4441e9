package miropt

import (
	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/mir"
)

// Pass is one optimization pass over a single function's basic
// blocks. RunFunction must never alter a block whose label is present
// in must (a must-block marker carried forward from C5/C6) and
// reports whether it changed anything, so the manager can iterate to
// a fixpoint.
type Pass interface {
	Name() string
	RunFunction(fn *mir.Function) bool
}

// Manager runs a fixed list of passes to a fixpoint (or until an
// iteration cap is hit, the standard safety valve against a
// mis-behaving pass oscillating forever).
type Manager struct {
	Passes   []Pass
	MaxIters int
}

// NewManager builds a manager with the standard pass list scaled to
// an optimization level (0 disables all but the cheapest passes, 3
// runs everything).
func NewManager(level int) *Manager {
	return &Manager{Passes: AddStandardPasses(level), MaxIters: 25}
}

// Run drives every function in the program to a fixpoint independently.
func (m *Manager) Run(prog *mir.Program) {
	for _, fn := range prog.Functions {
		m.RunUntilFixpoint(fn)
	}
}

// RunUntilFixpoint repeatedly runs every pass over one function until
// a full round changes nothing, or MaxIters is reached.
func (m *Manager) RunUntilFixpoint(fn *mir.Function) {
	max := m.MaxIters
	if max <= 0 {
		max = 25
	}
	for i := 0; i < max; i++ {
		changed := false
		for _, p := range m.Passes {
			if p.RunFunction(fn) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// AddStandardPasses returns the spec's nine MIR passes, scaled by
// optimization level: level 0 runs only the cheapest cleanup passes,
// levels 1-3 add progressively more aggressive rewrites.
func AddStandardPasses(level int) []Pass {
	passes := []Pass{
		exprPass{name: "constant-folding", transform: constFold},
		exprPass{name: "algebraic-simplification", transform: algebraicSimplify},
		deadInstructionElim{},
	}
	if level >= 1 {
		passes = append(passes,
			exprPass{name: "strength-reduction", transform: strengthReduce},
			loadAfterStoreForwarding{},
			deadStoreElim{},
		)
	}
	if level >= 2 {
		passes = append(passes, trivialJumpMerge{}, selectSimplify{})
	}
	if level >= 3 {
		passes = append(passes, exprPass{name: "cast-simplification", transform: castSimplify})
	}
	return passes
}

// exprPass wraps a pure per-expression transform into a Pass that
// applies it to every reachable expression in every non-must block.
type exprPass struct {
	name      string
	transform func(ast.Expr) ast.Expr
}

func (p exprPass) Name() string { return p.name }

func (p exprPass) RunFunction(fn *mir.Function) bool {
	changed := false
	for _, blk := range fn.Blocks {
		if fn.MustLabels[blk.Label] {
			continue
		}
		for i, instr := range blk.Instrs {
			next, ok := rewriteInstr(instr, p.transform)
			if ok {
				blk.Instrs[i] = next
				changed = true
			}
		}
		if nt, ok := rewriteTerm(blk.Term, p.transform); ok {
			blk.Term = nt
			changed = true
		}
	}
	return changed
}

func rewriteInstr(instr mir.Instruction, f func(ast.Expr) ast.Expr) (mir.Instruction, bool) {
	switch in := instr.(type) {
	case mir.Assign:
		nv := rewriteExpr(in.Value, f)
		if nv.String() == in.Value.String() {
			return instr, false
		}
		return mir.Assign{Dest: in.Dest, Value: nv}, true
	case mir.ExprInstr:
		nv := rewriteExpr(in.X, f)
		if in.X == nil || nv.String() == in.X.String() {
			return instr, false
		}
		return mir.ExprInstr{X: nv}, true
	case mir.Store:
		nv := rewriteExpr(in.Value, f)
		if nv.String() == in.Value.String() {
			return instr, false
		}
		return mir.Store{Target: in.Target, Value: nv}, true
	default:
		return instr, false
	}
}

func rewriteTerm(term mir.Terminator, f func(ast.Expr) ast.Expr) (mir.Terminator, bool) {
	switch t := term.(type) {
	case mir.Branch:
		nc := rewriteExpr(t.Cond, f)
		if nc.String() == t.Cond.String() {
			return term, false
		}
		return mir.Branch{Cond: nc, Then: t.Then, Else: t.Else}, true
	case mir.Ret:
		if t.Value == nil {
			return term, false
		}
		nv := rewriteExpr(t.Value, f)
		if nv.String() == t.Value.String() {
			return term, false
		}
		return mir.Ret{Value: nv}, true
	default:
		return term, false
	}
}
