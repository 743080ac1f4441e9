// Package mir implements the C6 HIR-to-MIR lowering: a basic-block,
// control-flow-graph intermediate representation grounded on the
// pass-manager-friendly IR shape go-corset uses for its own constraint
// IR (a flat instruction list per block plus an explicit terminator,
// rather than a nested-statement tree), sized down from full SSA since
// this stage's job is monomorphization, interface/tagged-union
// lowering, and defer-LIFO expansion, not register allocation.
package mir

import "github.com/cm-lang/cmc/internal/hir"

// Program is the fully lowered, monomorphized translation unit: every
// generic function instantiation has its own concrete Function, every
// interface implementation has a VTable.
type Program struct {
	Functions []*Function
	Structs   []*hir.Struct
	Enums     []*hir.Enum
	Globals   []*hir.Global
	VTables   []*VTable
}

// Function is a lowered, monomorphized function body as a
// control-flow graph of basic blocks.
type Function struct {
	Name       string
	Params     []hir.Param
	ReturnType hir.Type
	Blocks     []*BasicBlock
	Entry      string
	IsExport   bool
	Attrs      map[string][]string
	MustLabels map[string]bool // block labels originating from a must-block; the optimizer must not alter these
}

// BasicBlock is a straight-line instruction sequence ending in exactly
// one Terminator.
type BasicBlock struct {
	Label  string
	Instrs []Instruction
	Term   Terminator
}

// Instruction is one non-control-flow operation within a block.
type Instruction interface{ instrNode() }

// Assign evaluates Value and stores it to the named local.
type Assign struct {
	Dest  string
	Value hir.Expr
}

// ExprInstr evaluates an expression for its side effects only.
type ExprInstr struct{ X hir.Expr }

// Call is a direct call to a statically resolved MIR function name
// (post-monomorphization and post-vtable-lowering, every call site
// names a concrete function).
type Call struct {
	Dest     string // empty when the result is discarded
	Callee   string
	Args     []hir.Expr
}

// Store writes Value through a non-identifier lvalue (a field or
// index expression); Assign covers the simpler bare-local case.
type Store struct {
	Target hir.Expr
	Value  hir.Expr
}

// InlineAsm carries a lowered `__llvm__` block through unchanged; the
// backend driver is responsible for emitting it verbatim.
type InlineAsm struct{ Asm *hir.Asm }

func (Assign) instrNode()    {}
func (ExprInstr) instrNode() {}
func (Call) instrNode()      {}
func (Store) instrNode()     {}
func (InlineAsm) instrNode() {}

// Terminator is the control-flow-transferring final operation of a
// block.
type Terminator interface{ termNode() }

// Jump is an unconditional branch.
type Jump struct{ Target string }

// Branch is a two-way conditional branch.
type Branch struct {
	Cond       hir.Expr
	Then, Else string
}

// Ret exits the function, running any pending deferred calls first
// (already expanded into the block by the defer-lowering pass).
type Ret struct{ Value hir.Expr }

func (Jump) termNode()   {}
func (Branch) termNode() {}
func (Ret) termNode()    {}

// VTable is a fixed declared-method-order dispatch table binding one
// concrete type's methods to one interface it implements; interface
// values lower to a fat (data_ptr, vtable_ptr) reference at this
// table.
type VTable struct {
	Interface string
	ForType   string
	Methods   []string // MIR function names, in interface-declaration method order
}
