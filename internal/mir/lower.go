package mir

import (
	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/hir"
)

// Lower is the C6 entry point: given the HIR program and the
// (target-filtered) AST it was lowered from — the AST is still needed
// here since interface/impl declarations carry the method-order
// information HIR's free-function flattening discards — it runs
// monomorphization, builds the CFG for every resulting concrete
// function, and constructs one VTable per interface implementation.
func Lower(h *hir.Program, filtered *ast.Program) (*Program, error) {
	byName := map[string]*hir.Function{}
	for _, f := range h.Functions {
		byName[f.Name] = f
	}
	concrete, err := monomorphize(byName)
	if err != nil {
		return nil, err
	}

	out := &Program{
		Structs: h.Structs,
		Enums:   h.Enums,
		Globals: h.Globals,
		VTables: buildVTables(filtered.Declarations),
	}
	for _, f := range concrete {
		out.Functions = append(out.Functions, lowerFunction(f))
	}
	return out, nil
}
