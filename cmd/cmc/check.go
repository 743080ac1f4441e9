package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cm-lang/cmc/internal/pipeline"
)

// newCheckCmd wires `cmc check FILE`: run the front end through C8
// (whole-program DCE) with no backend/interpreter invocation, the way
// `check` is a distinct command from `compile`/`run`.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Type-check and lower a source file without generating or running anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := buildConfig()
			p := pipeline.New(cfg)
			res, err := p.Compile(args[0], buildDumps())
			if err != nil {
				return err
			}
			if anyDumpRequested() {
				fmt.Println(renderStage(buildDumps(), res))
				return nil
			}
			fmt.Println("ok")
			return nil
		},
	}
}
