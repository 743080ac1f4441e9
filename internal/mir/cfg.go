package mir

import (
	"fmt"

	"github.com/cm-lang/cmc/internal/hir"
)

// builder assembles one function's basic blocks from its HIR body.
type builder struct {
	fn        *Function
	cur       *BasicBlock
	nextLabel int
	loopStack []loopCtx
	deferred  []hir.Expr // pending defer calls, LIFO order; defer scope is function-wide at this level of lowering
}

type loopCtx struct {
	continueTarget string
	breakTarget    string
}

func newBuilder(name string) *builder {
	b := &builder{fn: &Function{Name: name, MustLabels: map[string]bool{}}}
	entry := b.freshBlock("entry")
	b.fn.Entry = entry.Label
	b.cur = entry
	return b
}

func (b *builder) freshBlock(prefix string) *BasicBlock {
	label := fmt.Sprintf("%s_%d", prefix, b.nextLabel)
	b.nextLabel++
	blk := &BasicBlock{Label: label}
	b.fn.Blocks = append(b.fn.Blocks, blk)
	return blk
}

func (b *builder) setTerm(blk *BasicBlock, t Terminator) {
	if blk.Term == nil {
		blk.Term = t
	}
}

// lowerFunction builds the CFG for one hir.Function.
func lowerFunction(f *hir.Function) *Function {
	b := newBuilder(f.Name)
	b.fn.Params = f.Params
	b.fn.ReturnType = f.ReturnType
	b.fn.IsExport = f.IsExport
	b.fn.Attrs = f.Attrs

	b.lowerBlock(f.Body)
	b.emitDefers(b.cur)
	b.setTerm(b.cur, Ret{})
	return b.fn
}

func (b *builder) lowerBlock(blk *hir.Block) {
	if blk == nil {
		return
	}
	for _, s := range blk.Stmts {
		b.lowerStmt(s)
	}
}

func (b *builder) lowerStmt(s hir.Stmt) {
	switch st := s.(type) {
	case *hir.Let:
		if st.CtorCall != nil {
			b.cur.Instrs = append(b.cur.Instrs, Call{Dest: st.Name, Callee: ctorName(*st.CtorCall), Args: ctorArgs(*st.CtorCall)})
			return
		}
		b.cur.Instrs = append(b.cur.Instrs, Assign{Dest: st.Name, Value: st.Init})
	case *hir.Return:
		b.emitDefers(b.cur)
		b.setTerm(b.cur, Ret{Value: st.Value})
		b.cur = b.freshBlock("unreachable")
	case *hir.ExprStmt:
		b.cur.Instrs = append(b.cur.Instrs, ExprInstr{X: st.X})
	case *hir.Assign:
		if id := identName(st.Target); id != "" {
			b.cur.Instrs = append(b.cur.Instrs, Assign{Dest: id, Value: st.Value})
			return
		}
		b.cur.Instrs = append(b.cur.Instrs, Store{Target: st.Target, Value: st.Value})
	case *hir.If:
		b.lowerIf(st)
	case *hir.While:
		b.lowerWhile(st)
	case *hir.For:
		b.lowerFor(st)
	case *hir.Switch:
		b.lowerSwitch(st)
	case *hir.Break:
		if n := len(b.loopStack); n > 0 {
			b.setTerm(b.cur, Jump{Target: b.loopStack[n-1].breakTarget})
			b.cur = b.freshBlock("after_break")
		}
	case *hir.Continue:
		if n := len(b.loopStack); n > 0 {
			b.setTerm(b.cur, Jump{Target: b.loopStack[n-1].continueTarget})
			b.cur = b.freshBlock("after_continue")
		}
	case *hir.Defer:
		b.deferred = append(b.deferred, st.Call)
	case *hir.MustBlock:
		startIdx := len(b.fn.Blocks) - 1
		b.lowerBlock(st.Body)
		for _, blk := range b.fn.Blocks[startIdx:] {
			b.fn.MustLabels[blk.Label] = true
		}
	case *hir.Asm:
		b.cur.Instrs = append(b.cur.Instrs, InlineAsm{Asm: st})
	}
}

// emitDefers expands pending defers in LIFO order as plain calls
// immediately before a return or natural function exit.
func (b *builder) emitDefers(blk *BasicBlock) {
	for i := len(b.deferred) - 1; i >= 0; i-- {
		blk.Instrs = append(blk.Instrs, Call{Callee: ctorName(b.deferred[i]), Args: ctorArgs(b.deferred[i])})
	}
}

func (b *builder) lowerIf(st *hir.If) {
	thenBlk := b.freshBlock("then")
	joinBlk := b.freshBlock("endif")
	var elseLabel string

	if st.Else != nil {
		elseBlk := b.freshBlock("else")
		elseLabel = elseBlk.Label
		b.setTerm(b.cur, Branch{Cond: st.Cond, Then: thenBlk.Label, Else: elseBlk.Label})
		b.cur = elseBlk
		b.lowerStmt(st.Else)
		b.setTerm(b.cur, Jump{Target: joinBlk.Label})
	} else {
		elseLabel = joinBlk.Label
		b.setTerm(b.cur, Branch{Cond: st.Cond, Then: thenBlk.Label, Else: elseLabel})
	}

	b.cur = thenBlk
	b.lowerBlock(st.Then)
	b.setTerm(b.cur, Jump{Target: joinBlk.Label})

	b.cur = joinBlk
}

func (b *builder) lowerWhile(st *hir.While) {
	condBlk := b.freshBlock("while_cond")
	bodyBlk := b.freshBlock("while_body")
	endBlk := b.freshBlock("while_end")

	b.setTerm(b.cur, Jump{Target: condBlk.Label})
	condBlk.Term = Branch{Cond: st.Cond, Then: bodyBlk.Label, Else: endBlk.Label}

	b.loopStack = append(b.loopStack, loopCtx{continueTarget: condBlk.Label, breakTarget: endBlk.Label})
	b.cur = bodyBlk
	b.lowerBlock(st.Body)
	b.setTerm(b.cur, Jump{Target: condBlk.Label})
	b.loopStack = b.loopStack[:len(b.loopStack)-1]

	b.cur = endBlk
}

func (b *builder) lowerFor(st *hir.For) {
	if st.Init != nil {
		b.lowerStmt(st.Init)
	}
	condBlk := b.freshBlock("for_cond")
	bodyBlk := b.freshBlock("for_body")
	postBlk := b.freshBlock("for_post")
	endBlk := b.freshBlock("for_end")

	b.setTerm(b.cur, Jump{Target: condBlk.Label})
	if st.Cond != nil {
		condBlk.Term = Branch{Cond: st.Cond, Then: bodyBlk.Label, Else: endBlk.Label}
	} else {
		condBlk.Term = Jump{Target: bodyBlk.Label}
	}

	b.loopStack = append(b.loopStack, loopCtx{continueTarget: postBlk.Label, breakTarget: endBlk.Label})
	b.cur = bodyBlk
	b.lowerBlock(st.Body)
	b.setTerm(b.cur, Jump{Target: postBlk.Label})
	b.loopStack = b.loopStack[:len(b.loopStack)-1]

	b.cur = postBlk
	if st.Post != nil {
		b.lowerStmt(st.Post)
	}
	b.setTerm(b.cur, Jump{Target: condBlk.Label})

	b.cur = endBlk
}

// lowerSwitch lowers the already-desugared if/else-if chain shape
// (HIR's Switch) into a sequence of conditional branches, one per arm,
// falling through to Default (or straight to the join block if there
// is none).
func (b *builder) lowerSwitch(st *hir.Switch) {
	joinBlk := b.freshBlock("endswitch")

	for _, arm := range st.Arms {
		armBlk := b.freshBlock("arm")
		nextBlk := b.freshBlock("arm_next")
		b.setTerm(b.cur, Branch{Cond: arm.Cond, Then: armBlk.Label, Else: nextBlk.Label})

		b.cur = armBlk
		b.lowerBlock(arm.Body)
		b.setTerm(b.cur, Jump{Target: joinBlk.Label})

		b.cur = nextBlk
	}

	if st.Default != nil {
		b.lowerBlock(st.Default)
	}
	b.setTerm(b.cur, Jump{Target: joinBlk.Label})

	b.cur = joinBlk
}
