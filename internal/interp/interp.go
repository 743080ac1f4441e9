// Package interp implements the C10 alternative execution path: a
// direct tree-walker over the C6 MIR (not the C3 AST, since MIR has
// already resolved monomorphization and struct/enum layout, which this
// package would otherwise have to reimplement from scratch). `cmc run`
// takes this path instead of handing the module to the C9 backend; it
// is a debugging/scripting convenience, never an interactive REPL.
package interp

import (
	"fmt"
	"io"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/hir"
	"github.com/cm-lang/cmc/internal/mir"
)

// Interp owns one program's static lookup tables (functions, struct
// and enum declarations, global initializers) and the writer builtins
// like println target.
type Interp struct {
	funcs        map[string]*mir.Function
	structs      map[string]*hir.Struct
	enums        map[string]*hir.Enum
	variantOwner map[string]string // variant name -> owning enum name
	globals      []*hir.Global
	out          io.Writer
}

// New builds an Interp's static tables from a fully lowered program.
func New(prog *mir.Program, out io.Writer) *Interp {
	it := &Interp{
		funcs:        make(map[string]*mir.Function, len(prog.Functions)),
		structs:      make(map[string]*hir.Struct, len(prog.Structs)),
		enums:        make(map[string]*hir.Enum, len(prog.Enums)),
		variantOwner: make(map[string]string),
		globals:      prog.Globals,
		out:          out,
	}
	for _, fn := range prog.Functions {
		it.funcs[fn.Name] = fn
	}
	for _, s := range prog.Structs {
		it.structs[s.Name] = s
	}
	for _, e := range prog.Enums {
		it.enums[e.Name] = e
		for _, v := range e.Variants {
			it.variantOwner[v.Name] = e.Name
		}
	}
	return it
}

// Run evaluates `main` with no arguments, the entry point `cmc run`
// always asks for; the interpreted path has no notion of argv
// passthrough beyond this.
func (it *Interp) Run() (Value, error) {
	fn, ok := it.funcs["main"]
	if !ok {
		return nil, fmt.Errorf("interp: no main function in program")
	}
	root := NewEnvironment()
	for _, g := range it.globals {
		v, err := it.evalExpr(root, g.Init)
		if err != nil {
			return nil, fmt.Errorf("interp: global %s: %w", g.Name, err)
		}
		root.Define(g.Name, v)
	}
	return it.call(fn, nil, root)
}

// call runs one function to completion against a fresh child frame
// (globals stay visible through the parent link; parameters and
// locals shadow them).
func (it *Interp) call(fn *mir.Function, args []Value, parent *Environment) (Value, error) {
	env := NewChildEnvironment(parent)
	for i, p := range fn.Params {
		if i < len(args) {
			env.Define(p.Name, args[i])
		}
	}

	blocks := make(map[string]*mir.BasicBlock, len(fn.Blocks))
	for _, b := range fn.Blocks {
		blocks[b.Label] = b
	}

	label := fn.Entry
	for steps := 0; ; steps++ {
		if steps > 10_000_000 {
			return nil, fmt.Errorf("interp: function %s exceeded step budget (runaway loop?)", fn.Name)
		}
		blk, ok := blocks[label]
		if !ok {
			return nil, fmt.Errorf("interp: function %s: unknown block %q", fn.Name, label)
		}
		for _, instr := range blk.Instrs {
			if err := it.exec(env, instr); err != nil {
				return nil, err
			}
		}
		switch term := blk.Term.(type) {
		case mir.Jump:
			label = term.Target
		case mir.Branch:
			cond, err := it.evalExpr(env, term.Cond)
			if err != nil {
				return nil, err
			}
			if truthy(cond) {
				label = term.Then
			} else {
				label = term.Else
			}
		case mir.Ret:
			if term.Value == nil {
				return &UnitValue{}, nil
			}
			return it.evalExpr(env, term.Value)
		default:
			return nil, fmt.Errorf("interp: function %s: unhandled terminator %T", fn.Name, term)
		}
	}
}

// exec runs one non-control-flow MIR instruction against env.
func (it *Interp) exec(env *Environment, instr mir.Instruction) error {
	switch ins := instr.(type) {
	case mir.Assign:
		v, err := it.evalExpr(env, ins.Value)
		if err != nil {
			return err
		}
		env.Set(ins.Dest, v)
	case mir.ExprInstr:
		_, err := it.evalExpr(env, ins.X)
		return err
	case mir.Call:
		v, err := it.evalCallByName(env, ins.Callee, ins.Args)
		if err != nil {
			return err
		}
		if ins.Dest != "" {
			env.Set(ins.Dest, v)
		}
	case mir.Store:
		return it.execStore(env, ins.Target, ins.Value)
	case mir.InlineAsm:
		return fmt.Errorf("interp: inline asm block is not interpretable, only codegen targets it")
	default:
		return fmt.Errorf("interp: unhandled instruction %T", instr)
	}
	return nil
}

// execStore writes through a field or index lvalue in place; struct
// and array values are always shared by pointer (see value.go) so the
// mutation is visible to every other binding of the same value.
func (it *Interp) execStore(env *Environment, target ast.Expr, valueExpr ast.Expr) error {
	v, err := it.evalExpr(env, valueExpr)
	if err != nil {
		return err
	}
	switch t := target.(type) {
	case *ast.FieldExpr:
		recv, err := it.evalExpr(env, t.Target)
		if err != nil {
			return err
		}
		sv, ok := recv.(*StructValue)
		if !ok {
			return fmt.Errorf("interp: field store target is not a struct (got %s)", recv.Type())
		}
		sv.Fields[t.Field] = v
		return nil
	case *ast.IndexExpr:
		recv, err := it.evalExpr(env, t.Array)
		if err != nil {
			return err
		}
		idx, err := it.evalExpr(env, t.Index)
		if err != nil {
			return err
		}
		av, ok := recv.(*ArrayValue)
		if !ok {
			return fmt.Errorf("interp: index store target is not an array (got %s)", recv.Type())
		}
		i := idx.(*IntValue).Value
		if i < 0 || int(i) >= len(av.Elements) {
			return fmt.Errorf("interp: index %d out of bounds (len %d)", i, len(av.Elements))
		}
		av.Elements[i] = v
		return nil
	default:
		return fmt.Errorf("interp: unsupported store lvalue %T", target)
	}
}

func truthy(v Value) bool {
	b, ok := v.(*BoolValue)
	return ok && b.Value
}
