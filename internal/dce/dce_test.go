package dce

import (
	"testing"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/hir"
	"github.com/cm-lang/cmc/internal/mir"
)

func block(term mir.Terminator, instrs ...mir.Instruction) *mir.BasicBlock {
	return &mir.BasicBlock{Label: "entry", Instrs: instrs, Term: term}
}

func TestPruneKeepsMainAndItsTransitiveCallees(t *testing.T) {
	prog := &mir.Program{
		Functions: []*mir.Function{
			{Name: "main", Entry: "entry", Blocks: []*mir.BasicBlock{
				block(mir.Ret{}, mir.Call{Callee: "helper"}),
			}},
			{Name: "helper", Entry: "entry", Blocks: []*mir.BasicBlock{block(mir.Ret{})}},
			{Name: "unused", Entry: "entry", Blocks: []*mir.BasicBlock{block(mir.Ret{})}},
		},
	}
	report := Prune(prog)
	if len(prog.Functions) != 2 {
		t.Fatalf("want main+helper kept, got %v", names(prog.Functions))
	}
	if len(report.RemovedFunctions) != 1 || report.RemovedFunctions[0] != "unused" {
		t.Fatalf("want unused reported removed, got %v", report.RemovedFunctions)
	}
}

func TestPruneFindsCallsEmbeddedInExpressions(t *testing.T) {
	prog := &mir.Program{
		Functions: []*mir.Function{
			{Name: "main", Entry: "entry", Blocks: []*mir.BasicBlock{
				block(mir.Ret{}, mir.Assign{Dest: "x", Value: &ast.BinaryExpr{
					Op:    "+",
					Left:  &ast.CallExpr{Callee: &ast.Ident{Name: "compute"}},
					Right: &ast.IntLit{Value: 1},
				}}),
			}},
			{Name: "compute", Entry: "entry", Blocks: []*mir.BasicBlock{block(mir.Ret{})}},
		},
	}
	Prune(prog)
	if !containsName(prog.Functions, "compute") {
		t.Fatalf("want compute kept, it's called from within an expression")
	}
}

func TestPruneKeepsExportedEvenWithNoCaller(t *testing.T) {
	prog := &mir.Program{
		Functions: []*mir.Function{
			{Name: "main", Entry: "entry", Blocks: []*mir.BasicBlock{block(mir.Ret{})}},
			{Name: "libfn", IsExport: true, Entry: "entry", Blocks: []*mir.BasicBlock{block(mir.Ret{})}},
		},
	}
	Prune(prog)
	if !containsName(prog.Functions, "libfn") {
		t.Fatalf("want exported function kept even though nothing calls it")
	}
}

func TestPruneKeepsVTableMethodsAsConservativeRoots(t *testing.T) {
	prog := &mir.Program{
		Functions: []*mir.Function{
			{Name: "main", Entry: "entry", Blocks: []*mir.BasicBlock{block(mir.Ret{})}},
			{Name: "Circle__area", Entry: "entry", Blocks: []*mir.BasicBlock{block(mir.Ret{})}},
		},
		Structs: []*hir.Struct{{Name: "Circle"}},
		VTables: []*mir.VTable{{Interface: "Shape", ForType: "Circle", Methods: []string{"Circle__area"}}},
	}
	Prune(prog)
	if !containsName(prog.Functions, "Circle__area") {
		t.Fatalf("want vtable method kept even with no static caller")
	}
	if len(prog.Structs) != 1 {
		t.Fatalf("want Circle struct kept, its vtable's ForType names it")
	}
}

func TestPruneRemovesUnreferencedStruct(t *testing.T) {
	prog := &mir.Program{
		Functions: []*mir.Function{
			{Name: "main", Entry: "entry", Params: []hir.Param{{Name: "p", Type: &ast.NamedType{Name: "Used"}}},
				Blocks: []*mir.BasicBlock{block(mir.Ret{})}},
		},
		Structs: []*hir.Struct{{Name: "Used"}, {Name: "Unused"}},
	}
	report := Prune(prog)
	if len(prog.Structs) != 1 || prog.Structs[0].Name != "Used" {
		t.Fatalf("want only Used kept, got %v", report.RemovedStructs)
	}
}

func TestPruneFollowsStructFieldsTransitively(t *testing.T) {
	prog := &mir.Program{
		Functions: []*mir.Function{
			{Name: "main", Entry: "entry", ReturnType: &ast.NamedType{Name: "Outer"},
				Blocks: []*mir.BasicBlock{block(mir.Ret{})}},
		},
		Structs: []*hir.Struct{
			{Name: "Outer", Fields: []hir.Field{{Name: "inner", Type: &ast.NamedType{Name: "Inner"}}}},
			{Name: "Inner"},
			{Name: "Orphan"},
		},
	}
	Prune(prog)
	if !containsStruct(prog.Structs, "Outer") || !containsStruct(prog.Structs, "Inner") {
		t.Fatalf("want Outer and Inner kept, got %v", structNames(prog.Structs))
	}
	if containsStruct(prog.Structs, "Orphan") {
		t.Fatalf("want Orphan removed")
	}
}

func names(fns []*mir.Function) []string {
	out := make([]string, len(fns))
	for i, f := range fns {
		out[i] = f.Name
	}
	return out
}

func containsName(fns []*mir.Function, name string) bool {
	for _, f := range fns {
		if f.Name == name {
			return true
		}
	}
	return false
}

func structNames(structs []*hir.Struct) []string {
	out := make([]string, len(structs))
	for i, s := range structs {
		out[i] = s.Name
	}
	return out
}

func containsStruct(structs []*hir.Struct, name string) bool {
	for _, s := range structs {
		if s.Name == name {
			return true
		}
	}
	return false
}
