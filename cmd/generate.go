package cmd

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/memsim/memsim/sim"
	"github.com/memsim/memsim/workload"
)

var (
	genScenario  string
	genOutPath   string
	genCount     int
	genLineBytes uint32
	genSeed      int64
	genNumLines  int
	genGapLines  int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Emit a synthetic CSV trace for one of the built-in scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		rng := rand.New(rand.NewSource(genSeed))

		var trace sim.Trace
		switch genScenario {
		case "sequential":
			trace = workload.SequentialScenario(genCount, genLineBytes)
		case "hotset":
			trace = workload.HotSetScenario(rng, genCount, genNumLines, genLineBytes)
		case "scatter":
			trace = workload.ScatterScenario(rng, genCount, genNumLines, genLineBytes)
		case "disarm":
			trace = workload.DisarmScenario(0, genCount, genGapLines, genLineBytes)
		default:
			return fmt.Errorf("unknown scenario %q (want sequential, hotset, scatter, disarm)", genScenario)
		}

		if err := writeTraceCSV(genOutPath, trace); err != nil {
			return err
		}
		logrus.Infof("wrote %d operations to %s (scenario=%s)", len(trace), genOutPath, genScenario)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&genScenario, "scenario", "sequential", "sequential, hotset, scatter, or disarm")
	generateCmd.Flags().StringVar(&genOutPath, "out", "", "output CSV path (required)")
	generateCmd.Flags().IntVar(&genCount, "n", 10000, "number of reads to generate (per run for disarm)")
	generateCmd.Flags().Uint32Var(&genLineBytes, "line-bytes", 128, "line size in bytes")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 1, "PRNG seed for hotset/scatter")
	generateCmd.Flags().IntVar(&genNumLines, "num-lines", 64, "distinct line count for hotset/scatter")
	generateCmd.Flags().IntVar(&genGapLines, "gap-lines", 4096, "forward jump size in lines for disarm")
	generateCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(generateCmd)
}
