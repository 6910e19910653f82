package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	_ "github.com/memsim/memsim/streamprefetch" // registers sim.NewPrefetcherFunc

	"github.com/memsim/memsim/sim"
	"github.com/memsim/memsim/tracelog"
)

var (
	runConfigPath string
	runTracePath  string
	runLogLevel   string
	runTraceLevel string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a trace against a memory hierarchy configuration and print metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(runLogLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", runLogLevel)
		}
		logrus.SetLevel(level)

		if !tracelog.IsValidLevel(runTraceLevel) {
			logrus.Fatalf("invalid trace level: %s", runTraceLevel)
		}

		cfg, err := loadConfig(runConfigPath)
		if err != nil {
			return err
		}
		trace, err := readTraceCSV(runTracePath)
		if err != nil {
			return err
		}

		logrus.Infof("starting run: %d operations, t1=%d lines/%d banks, t2=%d lines/%d banks",
			len(trace), cfg.T1TotalLines, cfg.NumT1Banks, cfg.T2TotalLines, cfg.NumT2Banks)

		collector := tracelog.NewCollector(tracelog.Level(runTraceLevel))
		simulator, err := sim.NewSimulator(cfg, collector)
		if err != nil {
			return err
		}

		metrics, err := simulator.Run(trace)
		if err != nil {
			return err
		}

		metrics.Print()
		if runTraceLevel != string(tracelog.LevelNone) {
			summary := tracelog.Summarize(collector)
			logrus.Infof("prefetcher bursts: %d, cycles streaming: %d, longest streak: %d",
				summary.Bursts, summary.CyclesStreaming, summary.LongestStreak)
		}
		logrus.Info("run complete")
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to a YAML hierarchy config (required)")
	runCmd.Flags().StringVar(&runTracePath, "trace", "", "path to a CSV trace file (required)")
	runCmd.Flags().StringVar(&runLogLevel, "log", "info", "log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runTraceLevel, "trace-level", "none", "event trace level (none, transitions, full)")
	runCmd.MarkFlagRequired("config")
	runCmd.MarkFlagRequired("trace")

	rootCmd.AddCommand(runCmd)
}
