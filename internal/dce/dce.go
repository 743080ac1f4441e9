// Package dce implements the C8 whole-program dead-code elimination
// pass: reachability from the retained entry set (main plus every
// exported function) over the call graph, breadth-first, pruning every
// unreachable function and struct from a lowered mir.Program.
package dce

import (
	"sort"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/hir"
	"github.com/cm-lang/cmc/internal/mir"
)

// Report records what this pass removed, for the `--mir-opt`/`-d` dump
// commands to surface.
type Report struct {
	RemovedFunctions []string
	RemovedStructs   []string
	RemovedEnums     []string
	RemovedVTables   []string
}

// Prune removes every function, struct, and enum (a tagged union is
// exactly as prunable as a struct) unreachable from prog's entry set,
// mutating prog in place and returning a report of what was removed.
func Prune(prog *mir.Program) *Report {
	byName := map[string]*mir.Function{}
	for _, f := range prog.Functions {
		byName[f.Name] = f
	}

	reachableFns := map[string]bool{}
	var work []string
	for _, f := range prog.Functions {
		if f.Name == "main" || f.IsExport {
			reachableFns[f.Name] = true
			work = append(work, f.Name)
		}
	}
	// Every vtable method is treated as an additional root: static
	// reachability can't know which concrete type an interface call
	// site resolves to at runtime, so pruning a method only because no
	// direct call names it would risk breaking dynamic dispatch.
	for _, vt := range prog.VTables {
		for _, m := range vt.Methods {
			if m != "" && !reachableFns[m] {
				reachableFns[m] = true
				work = append(work, m)
			}
		}
	}

	for len(work) > 0 {
		name := work[0]
		work = work[1:]
		fn, ok := byName[name]
		if !ok {
			continue
		}
		for _, callee := range calleesOf(fn) {
			if !reachableFns[callee] {
				reachableFns[callee] = true
				work = append(work, callee)
			}
		}
	}

	structsByName := map[string]*hir.Struct{}
	for _, s := range prog.Structs {
		structsByName[s.Name] = s
	}
	enumsByName := map[string]*hir.Enum{}
	for _, e := range prog.Enums {
		enumsByName[e.Name] = e
	}

	reachableTypes := map[string]bool{}
	var typeWork []string
	addType := func(t ast.Type) {
		for _, name := range namedTypeNames(t) {
			if !reachableTypes[name] {
				reachableTypes[name] = true
				typeWork = append(typeWork, name)
			}
		}
	}
	for _, name := range sortedKeys(reachableFns) {
		fn, ok := byName[name]
		if !ok {
			continue
		}
		for _, p := range fn.Params {
			addType(p.Type)
		}
		addType(fn.ReturnType)
	}
	for _, g := range prog.Globals {
		addType(g.Type)
	}
	for _, vt := range prog.VTables {
		reachableTypes[vt.ForType] = true
		typeWork = append(typeWork, vt.ForType)
	}

	for len(typeWork) > 0 {
		name := typeWork[0]
		typeWork = typeWork[1:]
		if s, ok := structsByName[name]; ok {
			for _, f := range s.Fields {
				addType(f.Type)
			}
		}
		if e, ok := enumsByName[name]; ok {
			for _, v := range e.Variants {
				for _, t := range v.Fields {
					addType(t)
				}
			}
		}
	}

	report := &Report{}
	prog.Functions = filterFunctions(prog.Functions, reachableFns, &report.RemovedFunctions)
	prog.Structs = filterStructs(prog.Structs, reachableTypes, &report.RemovedStructs)
	prog.Enums = filterEnums(prog.Enums, reachableTypes, &report.RemovedEnums)
	prog.VTables = filterVTables(prog.VTables, reachableTypes, &report.RemovedVTables)
	return report
}

func filterFunctions(fns []*mir.Function, keep map[string]bool, removed *[]string) []*mir.Function {
	var out []*mir.Function
	for _, f := range fns {
		if keep[f.Name] {
			out = append(out, f)
		} else {
			*removed = append(*removed, f.Name)
		}
	}
	return out
}

func filterStructs(structs []*hir.Struct, keep map[string]bool, removed *[]string) []*hir.Struct {
	var out []*hir.Struct
	for _, s := range structs {
		if keep[s.Name] {
			out = append(out, s)
		} else {
			*removed = append(*removed, s.Name)
		}
	}
	return out
}

func filterEnums(enums []*hir.Enum, keep map[string]bool, removed *[]string) []*hir.Enum {
	var out []*hir.Enum
	for _, e := range enums {
		if keep[e.Name] {
			out = append(out, e)
		} else {
			*removed = append(*removed, e.Name)
		}
	}
	return out
}

func filterVTables(vts []*mir.VTable, keep map[string]bool, removed *[]string) []*mir.VTable {
	var out []*mir.VTable
	for _, vt := range vts {
		if keep[vt.ForType] {
			out = append(out, vt)
		} else {
			*removed = append(*removed, vt.Interface+" for "+vt.ForType)
		}
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// namedTypeNames extracts every struct/enum-name reference reachable
// from t (recursing through pointers, references, and array element
// types; a primitive or function-pointer type contributes nothing).
func namedTypeNames(t ast.Type) []string {
	switch ty := t.(type) {
	case nil:
		return nil
	case *ast.NamedType:
		out := []string{ty.Name}
		for _, a := range ty.TypeArgs {
			out = append(out, namedTypeNames(a)...)
		}
		return out
	case *ast.PointerType:
		return namedTypeNames(ty.Elem)
	case *ast.ReferenceType:
		return namedTypeNames(ty.Elem)
	case *ast.ArrayType:
		return namedTypeNames(ty.Elem)
	case *ast.FunctionPointerType:
		var out []string
		for _, p := range ty.Params {
			out = append(out, namedTypeNames(p)...)
		}
		return append(out, namedTypeNames(ty.Return)...)
	default:
		return nil
	}
}

// calleesOf collects the name of every function this one's body
// directly calls: mir.Call instructions name their callee explicitly;
// every other instruction and terminator may still embed an
// ast.CallExpr (e.g. `x := f() + 1`), so every expression position is
// scanned too.
func calleesOf(fn *mir.Function) []string {
	var out []string
	visit := func(e ast.Expr) {
		walkExpr(e, func(x ast.Expr) {
			if call, ok := x.(*ast.CallExpr); ok {
				if id, ok := call.Callee.(*ast.Ident); ok {
					out = append(out, id.Name)
				}
			}
		})
	}
	for _, blk := range fn.Blocks {
		for _, instr := range blk.Instrs {
			switch in := instr.(type) {
			case mir.Call:
				out = append(out, in.Callee)
				for _, a := range in.Args {
					visit(a)
				}
			case mir.Assign:
				visit(in.Value)
			case mir.ExprInstr:
				visit(in.X)
			case mir.Store:
				visit(in.Target)
				visit(in.Value)
			}
		}
		switch t := blk.Term.(type) {
		case mir.Branch:
			visit(t.Cond)
		case mir.Ret:
			visit(t.Value)
		}
	}
	return out
}

// walkExpr visits e and every subexpression it contains.
func walkExpr(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch ex := e.(type) {
	case *ast.BinaryExpr:
		walkExpr(ex.Left, visit)
		walkExpr(ex.Right, visit)
	case *ast.UnaryExpr:
		walkExpr(ex.Operand, visit)
	case *ast.CallExpr:
		walkExpr(ex.Callee, visit)
		for _, a := range ex.Args {
			walkExpr(a, visit)
		}
	case *ast.IndexExpr:
		walkExpr(ex.Array, visit)
		walkExpr(ex.Index, visit)
	case *ast.FieldExpr:
		walkExpr(ex.Target, visit)
	case *ast.StructLiteralExpr:
		for _, f := range ex.Fields {
			walkExpr(f.Value, visit)
		}
	case *ast.ArrayLiteralExpr:
		for _, el := range ex.Elements {
			walkExpr(el, visit)
		}
	case *ast.CastExpr:
		walkExpr(ex.Operand, visit)
	case *ast.MoveExpr:
		walkExpr(ex.Operand, visit)
	}
}
