package main

import (
	"github.com/cm-lang/cmc/internal/config"
	"github.com/cm-lang/cmc/internal/pipeline"
)

func buildConfig() *config.Config {
	cfg := config.New(config.Target(flagTarget), flagOptLevel, flagLang, flagDebug)
	cfg.BareMetal = flagBareMetal
	return cfg
}

func buildDumps() pipeline.Dumps {
	return pipeline.Dumps{
		AST:    flagDumpAST,
		HIR:    flagDumpHIR,
		MIR:    flagDumpMIR,
		MIROpt: flagDumpMIRO,
	}
}

func anyDumpRequested() bool {
	return flagDumpAST || flagDumpHIR || flagDumpMIR || flagDumpMIRO
}

// exitCodeError lets a command report a specific process exit code
// without cobra printing the message twice.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string { return "" }
