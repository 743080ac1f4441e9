package hir

import (
	"strconv"
	"strings"

	"github.com/cm-lang/cmc/internal/ast"
)

// lowerAsm rewrites a `__llvm__ { template; constraints: vars }` block's
// `${constraint:varname}` interpolations into positional `$N`
// placeholders, one index per unique (constraint, varname) pair,
// outputs numbered before inputs to match the usual LLVM inline-asm
// convention the block is destined to compile down to.
func lowerAsm(s *ast.AsmStmt) *Asm {
	var operands []AsmOperand
	key := func(o ast.AsmOperand) string { return o.Constraint + ":" + o.Var.String() }
	seen := map[string]int{}

	addAll := func(ops []ast.AsmOperand) {
		for _, o := range ops {
			k := key(o)
			if _, ok := seen[k]; ok {
				continue
			}
			idx := len(operands)
			seen[k] = idx
			operands = append(operands, AsmOperand{Index: idx, Constraint: o.Constraint, Var: o.Var})
		}
	}
	addAll(s.Outputs)
	addAll(s.Inputs)

	template := s.Template
	byVar := map[string]int{}
	for k := range seen {
		byVar[strings.SplitN(k, ":", 2)[1]]++
	}
	for k, idx := range seen {
		parts := strings.SplitN(k, ":", 2)
		varname := parts[1]
		// Two textual spellings are accepted from the parser: the full
		// "${constraint:varname}" form and the shorthand "${varname}"
		// when the operand list has only one entry under that name.
		template = strings.ReplaceAll(template, "${"+k+"}", "$"+strconv.Itoa(idx))
		if byVar[varname] == 1 {
			template = strings.ReplaceAll(template, "${"+varname+"}", "$"+strconv.Itoa(idx))
		}
	}

	return &Asm{Template: template, Operands: operands, Span: s.Span}
}
