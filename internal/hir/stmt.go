package hir

import "github.com/cm-lang/cmc/internal/sourcemap"

// Let declares a local binding. CtorCall is set when the initializer
// was a `T(args)` constructor-call form stripped during lowering; the
// MIR lowerer emits a post-init call to T__ctor[_N] for it.
type Let struct {
	Name     string
	Type     Type
	Init     Expr
	CtorCall *Expr // non-nil: args were stripped from Init, this is the original call
	Span     sourcemap.Span
}

// Return is `return [expr];`.
type Return struct {
	Value Expr
	Span  sourcemap.Span
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	X    Expr
	Span sourcemap.Span
}

// Assign is a plain (non-compound) assignment; compound assignments
// are desugared into this form plus an explicit binary read during
// lowering.
type Assign struct {
	Target Expr
	Value  Expr
	Span   sourcemap.Span
}

// If is `if cond { then } [else elseBranch]`.
type If struct {
	Cond  Expr
	Then  *Block
	Else  Stmt // nil or another *If; a plain else block is wrapped in an always-true *If
	Span  sourcemap.Span
}

// While is a condition-guarded loop.
type While struct {
	Cond Expr
	Body *Block
	Span sourcemap.Span
}

// For is the lowered C-style three-clause loop, also the desugared
// target of array/slice for-in iteration.
type For struct {
	Init Stmt
	Cond Expr
	Post Stmt
	Body *Block
	Span sourcemap.Span
}

// Switch is the lowered form of a match used in expression-discarding
// (statement) position: an ordered list of condition/body arms plus an
// optional default, mirroring an if/else-if/.../else chain.
type Switch struct {
	Arms    []SwitchArm
	Default *Block
	Span    sourcemap.Span
}

// SwitchArm is one condition-guarded arm of a Switch.
type SwitchArm struct {
	Cond Expr
	Body *Block
}

// Break exits the nearest enclosing loop.
type Break struct{ Span sourcemap.Span }

// Continue skips to the next iteration of the nearest enclosing loop.
type Continue struct{ Span sourcemap.Span }

// Defer schedules Call to run at scope exit; the MIR lowerer is
// responsible for LIFO ordering relative to sibling defers.
type Defer struct {
	Call Expr
	Span sourcemap.Span
}

// MustBlock marks a region that no MIR optimizer pass may alter. It is
// preserved verbatim through HIR lowering; its Body's statements are
// lowered like any other block, but the MustBlock wrapper itself
// carries the do-not-touch marker forward to MIR.
type MustBlock struct {
	Body *Block
	Span sourcemap.Span
}

// AsmOperand is one numbered inline-asm operand after constraint/name
// interpolation has been resolved to a stable index.
type AsmOperand struct {
	Index      int
	Constraint string
	Var        Expr
}

// Asm is the lowered form of a `__llvm__ { ... }` block: the template
// text has `${constraint:varname}` interpolations rewritten to `$N`
// placeholders, one per unique (constraint, varname) pair.
type Asm struct {
	Template string
	Operands []AsmOperand
	Span     sourcemap.Span
}

func (s *Let) hirStmtNode()       {}
func (s *Return) hirStmtNode()    {}
func (s *ExprStmt) hirStmtNode()  {}
func (s *Assign) hirStmtNode()    {}
func (s *If) hirStmtNode()        {}
func (s *While) hirStmtNode()     {}
func (s *For) hirStmtNode()       {}
func (s *Switch) hirStmtNode()    {}
func (s *Break) hirStmtNode()     {}
func (s *Continue) hirStmtNode() {}
func (s *Defer) hirStmtNode()     {}
func (s *MustBlock) hirStmtNode() {}
func (s *Asm) hirStmtNode()       {}

func (s *Let) Position() sourcemap.Span       { return s.Span }
func (s *Return) Position() sourcemap.Span    { return s.Span }
func (s *ExprStmt) Position() sourcemap.Span  { return s.Span }
func (s *Assign) Position() sourcemap.Span    { return s.Span }
func (s *If) Position() sourcemap.Span        { return s.Span }
func (s *While) Position() sourcemap.Span     { return s.Span }
func (s *For) Position() sourcemap.Span       { return s.Span }
func (s *Switch) Position() sourcemap.Span    { return s.Span }
func (s *Break) Position() sourcemap.Span     { return s.Span }
func (s *Continue) Position() sourcemap.Span  { return s.Span }
func (s *Defer) Position() sourcemap.Span     { return s.Span }
func (s *MustBlock) Position() sourcemap.Span { return s.Span }
func (s *Asm) Position() sourcemap.Span       { return s.Span }
