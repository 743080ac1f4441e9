// Command cmc is the driver binary for the compiler core: it parses
// a CLI surface of run/compile/check subcommands (with
// -o/-O/--target/--emit-llvm/--emit-js/--run/--ast|--hir|--mir|
// --mir-opt/--debug/--lang/--version/--verbose) and hands the parsed
// form to internal/pipeline, internal/backend, and internal/interp.
// Built on github.com/spf13/cobra in place of a hand-rolled flag/switch
// dispatch.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version info, set by ldflags during release builds.
var (
	Version = "dev"
	Commit  = "unknown"
)

var (
	flagOutput    string
	flagOptLevel  int
	flagTarget    string
	flagEmitLLVM  bool
	flagEmitJS    bool
	flagRun       bool
	flagDumpAST   bool
	flagDumpHIR   bool
	flagDumpMIR   bool
	flagDumpMIRO  bool
	flagDebug     string
	flagLang      string
	flagVerbose   bool
	flagBareMetal bool
)

func main() {
	err := newRootCmd().Execute()
	if err == nil {
		return
	}
	if ec, ok := err.(*exitCodeError); ok {
		os.Exit(ec.code)
	}
	fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error:"), err)
	os.Exit(1)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cmc",
		Short:         "Whole-program ahead-of-time compiler",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
	}

	root.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "output path")
	root.PersistentFlags().IntVarP(&flagOptLevel, "O", "O", 0, "optimization level 0-3")
	root.PersistentFlags().StringVar(&flagTarget, "target", "native", "build target: native|wasm|js|web")
	root.PersistentFlags().BoolVar(&flagEmitLLVM, "emit-llvm", false, "emit LLVM IR text instead of an object file")
	root.PersistentFlags().BoolVar(&flagEmitJS, "emit-js", false, "emit JS instead of an object file")
	root.PersistentFlags().BoolVar(&flagRun, "run", false, "execute the produced artifact after a successful compile")
	root.PersistentFlags().BoolVar(&flagDumpAST, "ast", false, "dump after C3 parsing and stop")
	root.PersistentFlags().BoolVar(&flagDumpHIR, "hir", false, "dump after C5 HIR lowering and stop")
	root.PersistentFlags().BoolVar(&flagDumpMIR, "mir", false, "dump after C6 MIR lowering and stop")
	root.PersistentFlags().BoolVar(&flagDumpMIRO, "mir-opt", false, "dump after C7 MIR optimization and stop")
	root.PersistentFlags().StringVarP(&flagDebug, "debug", "d", "warn", "debug tracing level: trace|debug|info|warn|error")
	root.PersistentFlags().StringVar(&flagLang, "lang", "en", "diagnostic language")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose stage logging")
	root.PersistentFlags().BoolVar(&flagBareMetal, "bare-metal", false, "bypass the pre-codegen validator for UEFI/bare-metal targets")

	root.AddCommand(newRunCmd(), newCompileCmd(), newCheckCmd())
	return root
}
