// Package diag provides the compiler's structured diagnostic type and
// its error-code taxonomy, covering every pipeline phase from import
// preprocessing through backend emission.
package diag

// Error codes are grouped by phase, one constant block per pipeline
// stage.
const (
	// Preprocessor (C1)
	PP001ModuleNotFound  = "PP001"
	PP002Circular        = "PP002"
	PP003IOError         = "PP003"
	PP004DuplicateImport = "PP004"
	PP005BadExportList   = "PP005"

	// Lexer (C2)
	LEX001UnterminatedString = "LEX001"
	LEX002BadEscape          = "LEX002"
	LEX003BadNumericLiteral  = "LEX003"

	// Parser (C3)
	PAR001UnexpectedToken     = "PAR001"
	PAR002MissingIdentifier   = "PAR002"
	PAR003MismatchedDelimiter = "PAR003"
	PAR004ParserStuck         = "PAR004"

	// Type checking (external, consumed only)
	TC001Failed = "TC001"

	// HIR/MIR lowering
	HIR001MissingEnumDefinition = "HIR001"
	MIR001UnresolvedSymbol      = "MIR001"
	MIR002MangleCollision       = "MIR002"

	// Optimizer
	OPT001FixpointNotReached = "OPT001"

	// Codegen / backend driver
	BKD001ValidationRejected = "BKD001"
	BKD002EmissionTimeout    = "BKD002"
	BKD003OutputTooLarge     = "BKD003"

	// Internal invariant violations
	INT001EmptyBasicBlock  = "INT001"
	INT002InvariantFailure = "INT002"
)

// Phase names, used as the Report.Phase field.
const (
	PhasePreprocess = "preprocess"
	PhaseLex        = "lex"
	PhaseParse      = "parse"
	PhaseTypecheck  = "typecheck"
	PhaseHIR        = "hir"
	PhaseMIR        = "mir"
	PhaseOptimize   = "optimize"
	PhaseDCE        = "dce"
	PhaseBackend    = "backend"
	PhaseInterp     = "interp"
)
