package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cm-lang/cmc/internal/interp"
	"github.com/cm-lang/cmc/internal/pipeline"
)

// newRunCmd wires `cmc run FILE`: the C10 interpreted execution path,
// a debugging/scripting convenience taken instead of the C9 backend
//, never an interactive REPL. Exit code
// forwards the program's own integer return
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE",
		Short: "Interpret a source file directly, skipping codegen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := buildConfig()
			p := pipeline.New(cfg)
			dumps := buildDumps()
			res, err := p.Compile(args[0], dumps)
			if err != nil {
				return err
			}
			if anyDumpRequested() {
				fmt.Println(renderStage(dumps, res))
				return nil
			}

			it := interp.New(res.MIR, os.Stdout)
			v, err := it.Run()
			if err != nil {
				return err
			}
			if iv, ok := v.(*interp.IntValue); ok && iv.Value != 0 {
				return &exitCodeError{code: int(iv.Value)}
			}
			return nil
		},
	}
}
