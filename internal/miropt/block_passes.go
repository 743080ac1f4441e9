package miropt

import (
	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/mir"
)

func blockByLabel(fn *mir.Function) map[string]*mir.BasicBlock {
	m := make(map[string]*mir.BasicBlock, len(fn.Blocks))
	for _, b := range fn.Blocks {
		m[b.Label] = b
	}
	return m
}

// litOrIdent reports whether e is a bare literal or identifier
// reference: evaluating either for side effects alone does nothing,
// since neither can call into anything.
func litOrIdent(e ast.Expr) bool {
	switch e.(type) {
	case nil, *ast.IntLit, *ast.FloatLit, *ast.StringLit, *ast.CharLit, *ast.BoolLit, *ast.NullLit, *ast.Ident:
		return true
	default:
		return false
	}
}

// identOf reports the name of e when it is a bare identifier.
func identOf(e ast.Expr) (string, bool) {
	id, ok := e.(*ast.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}

// exprReferences reports whether instr's operand expressions mention
// name anywhere, a conservative (syntactic, not aliasing-aware) use
// check good enough to guard dead-store elimination within one block.
func exprReferences(instr mir.Instruction, name string) bool {
	switch in := instr.(type) {
	case mir.Assign:
		return exprMentions(in.Value, name)
	case mir.ExprInstr:
		return exprMentions(in.X, name)
	case mir.Call:
		for _, a := range in.Args {
			if exprMentions(a, name) {
				return true
			}
		}
		return false
	case mir.Store:
		return exprMentions(in.Target, name) || exprMentions(in.Value, name)
	case mir.InlineAsm:
		return true
	default:
		return false
	}
}

func exprMentions(e ast.Expr, name string) bool {
	found := false
	rewriteExpr(e, func(x ast.Expr) ast.Expr {
		if id, ok := x.(*ast.Ident); ok && id.Name == name {
			found = true
		}
		return x
	})
	return found
}

// deadInstructionElim drops an ExprInstr whose expression is a bare
// literal or identifier: evaluating it for side effects does nothing,
// since neither form can have one.
type deadInstructionElim struct{}

func (deadInstructionElim) Name() string { return "dead-instruction-elimination" }

func (deadInstructionElim) RunFunction(fn *mir.Function) bool {
	changed := false
	for _, blk := range fn.Blocks {
		if fn.MustLabels[blk.Label] {
			continue
		}
		out := blk.Instrs[:0]
		for _, instr := range blk.Instrs {
			if ei, ok := instr.(mir.ExprInstr); ok && litOrIdent(ei.X) {
				changed = true
				continue
			}
			out = append(out, instr)
		}
		blk.Instrs = out
	}
	return changed
}

// loadAfterStoreForwarding rewrites a `y := x` that immediately follows
// `x := e` in the same block into `y := e`, the basic-block-local form
// of load-after-store forwarding (no separate memory op exists in this
// IR; an identifier read stands in for the load). The `x := e`
// assignment itself is kept, and later uses of x are not examined.
type loadAfterStoreForwarding struct{}

func (loadAfterStoreForwarding) Name() string { return "load-after-store-forwarding" }

func (loadAfterStoreForwarding) RunFunction(fn *mir.Function) bool {
	changed := false
	for _, blk := range fn.Blocks {
		if fn.MustLabels[blk.Label] {
			continue
		}
		for i := 0; i+1 < len(blk.Instrs); i++ {
			store, ok := blk.Instrs[i].(mir.Assign)
			if !ok {
				continue
			}
			load, ok := blk.Instrs[i+1].(mir.Assign)
			if !ok {
				continue
			}
			if name, ok := identOf(load.Value); ok && name == store.Dest {
				blk.Instrs[i+1] = mir.Assign{Dest: load.Dest, Value: store.Value}
				changed = true
			}
		}
	}
	return changed
}

// deadStoreElim removes an `x := v1` immediately superseded by another
// `x := v2` in the same block with no read of x in between.
type deadStoreElim struct{}

func (deadStoreElim) Name() string { return "dead-store-elimination" }

func (deadStoreElim) RunFunction(fn *mir.Function) bool {
	changed := false
	for _, blk := range fn.Blocks {
		if fn.MustLabels[blk.Label] {
			continue
		}
		keep := make([]bool, len(blk.Instrs))
		for i := range keep {
			keep[i] = true
		}
		for i := 0; i < len(blk.Instrs); i++ {
			a, ok := blk.Instrs[i].(mir.Assign)
			if !ok {
				continue
			}
			for j := i + 1; j < len(blk.Instrs); j++ {
				if exprReferences(blk.Instrs[j], a.Dest) {
					break
				}
				if b, ok := blk.Instrs[j].(mir.Assign); ok && b.Dest == a.Dest {
					keep[i] = false
					break
				}
			}
		}
		var out []mir.Instruction
		for i, k := range keep {
			if k {
				out = append(out, blk.Instrs[i])
			} else {
				changed = true
			}
		}
		blk.Instrs = out
	}
	return changed
}

// trivialJumpMerge folds a block that does nothing but jump into its
// sole successor when that successor has exactly one predecessor,
// removing the now-pointless block boundary a real SSA form would
// otherwise need a phi node to reconcile.
type trivialJumpMerge struct{}

func (trivialJumpMerge) Name() string { return "phi-simplification" }

func (trivialJumpMerge) RunFunction(fn *mir.Function) bool {
	preds := map[string]int{}
	for _, b := range fn.Blocks {
		for _, t := range successors(b.Term) {
			preds[t]++
		}
	}
	byLabel := blockByLabel(fn)
	changed := false
	for _, blk := range fn.Blocks {
		if _, live := byLabel[blk.Label]; !live {
			continue // already folded into a predecessor this round
		}
		if fn.MustLabels[blk.Label] || len(blk.Instrs) > 0 {
			continue
		}
		jump, ok := blk.Term.(mir.Jump)
		if !ok || jump.Target == blk.Label {
			continue
		}
		if preds[jump.Target] != 1 {
			continue
		}
		target := byLabel[jump.Target]
		if target == nil || fn.MustLabels[target.Label] {
			continue
		}
		blk.Instrs = target.Instrs
		blk.Term = target.Term
		delete(byLabel, target.Label)
		changed = true
	}
	if changed {
		var out []*mir.BasicBlock
		for _, b := range fn.Blocks {
			if _, ok := byLabel[b.Label]; ok || b.Label == fn.Entry {
				out = append(out, b)
			}
		}
		fn.Blocks = out
	}
	return changed
}

func successors(t mir.Terminator) []string {
	switch term := t.(type) {
	case mir.Jump:
		return []string{term.Target}
	case mir.Branch:
		return []string{term.Then, term.Else}
	default:
		return nil
	}
}

// selectSimplify collapses a branch whose two arms compute the exact
// same value into the conditional's unconditional result, the
// select-simplification counterpart of constant folding for
// control-flow-shaped selects.
type selectSimplify struct{}

func (selectSimplify) Name() string { return "select-simplification" }

func (selectSimplify) RunFunction(fn *mir.Function) bool {
	byLabel := blockByLabel(fn)
	changed := false
	for _, blk := range fn.Blocks {
		if fn.MustLabels[blk.Label] {
			continue
		}
		br, ok := blk.Term.(mir.Branch)
		if !ok {
			continue
		}
		thenBlk, thenOK := byLabel[br.Then]
		elseBlk, elseOK := byLabel[br.Else]
		if !thenOK || !elseOK || len(thenBlk.Instrs) != 1 || len(elseBlk.Instrs) != 1 {
			continue
		}
		ta, ok1 := thenBlk.Instrs[0].(mir.Assign)
		ea, ok2 := elseBlk.Instrs[0].(mir.Assign)
		if !ok1 || !ok2 || ta.Dest != ea.Dest || ta.Value.String() != ea.Value.String() {
			continue
		}
		tj, ok1 := thenBlk.Term.(mir.Jump)
		ej, ok2 := elseBlk.Term.(mir.Jump)
		if !ok1 || !ok2 || tj.Target != ej.Target {
			continue
		}
		blk.Instrs = append(blk.Instrs, ta)
		blk.Term = mir.Jump{Target: tj.Target}
		changed = true
	}
	return changed
}
