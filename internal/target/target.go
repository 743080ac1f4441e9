// Package target implements the C4 target filter:
// pruning declarations whose #[target(...)] attribute does not match
// the active build target. Keep reads every `target` entry of a
// declaration's ast.DeclAttrs.Attributes list directly, so several
// #[target(...)] attributes on one declaration AND together.
package target

import (
	"strings"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/config"
)

// Atom is one recognized #[target(...)] argument.
type Atom string

const (
	AtomJS     Atom = "js"
	AtomWeb    Atom = "web"
	AtomWasm   Atom = "wasm"
	AtomNative Atom = "native"
	AtomActive Atom = "active"
)

// Matches reports whether a single atom (optionally negated with a
// leading '!') evaluates true against the active target, following
// "js" matches both JS and Web; "active" always matches.
func matches(arg string, active config.Target) bool {
	negate := false
	if strings.HasPrefix(arg, "!") {
		negate = true
		arg = strings.TrimPrefix(arg, "!")
	}
	arg = strings.TrimSpace(arg)

	var result bool
	switch Atom(arg) {
	case AtomActive:
		result = true
	case AtomJS:
		result = active == config.TargetJS || active == config.TargetWeb
	case AtomWeb:
		result = active == config.TargetWeb
	case AtomWasm:
		result = active == config.TargetWasm
	case AtomNative:
		result = active == config.TargetNative
	default:
		result = string(active) == arg
	}
	if negate {
		return !result
	}
	return result
}

// Eval evaluates one #[target(a, b, ...)] attribute's argument list: OR
// across arguments.
func Eval(args []string, active config.Target) bool {
	if len(args) == 0 {
		return true
	}
	for _, a := range args {
		if matches(a, active) {
			return true
		}
	}
	return false
}

// Keep reports whether a declaration survives the target filter: every
// #[target(...)] attribute attached to it must evaluate true (multiple
// attributes AND together.
func Keep(d ast.Decl, active config.Target) bool {
	attrs := d.Attrs()
	if attrs == nil {
		return true
	}
	kept := true
	for _, a := range attrs.Attributes {
		if a.Name != "target" {
			continue
		}
		if !Eval(a.Args, active) {
			kept = false
		}
	}
	return kept
}

// Filter removes every declaration that fails Keep, preserving relative
// order. It additionally descends into ImplDecl method lists and
// ExternBlockDecl function lists, since those carry their own
// #[target(...)] attributes independently of their enclosing block.
func Filter(prog *ast.Program, active config.Target) *ast.Program {
	out := make([]ast.Decl, 0, len(prog.Declarations))
	for _, d := range prog.Declarations {
		if !Keep(d, active) {
			continue
		}
		switch decl := d.(type) {
		case *ast.ImplDecl:
			decl.Methods = filterFuncs(decl.Methods, active)
		case *ast.ExternBlockDecl:
			decl.Decls = filterFuncs(decl.Decls, active)
		case *ast.NamespaceDecl:
			decl.Declarations = Filter(&ast.Program{Declarations: decl.Declarations}, active).Declarations
		}
		out = append(out, d)
	}
	return &ast.Program{Declarations: out, Filename: prog.Filename}
}

func filterFuncs(fns []*ast.FunctionDecl, active config.Target) []*ast.FunctionDecl {
	out := make([]*ast.FunctionDecl, 0, len(fns))
	for _, fn := range fns {
		if Keep(fn, active) {
			out = append(out, fn)
		}
	}
	return out
}
