package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/memsim/memsim/sim"
)

// fileConfig is the YAML shape of a hierarchy configuration file. All
// fields are listed so strict KnownFields(true) decoding catches typos
// instead of silently ignoring unrecognised keys, the same contract the
// donor applies to defaults.yaml.
type fileConfig struct {
	T1TotalLines int `yaml:"t1_total_lines"`
	NumT1Banks   int `yaml:"num_t1_banks"`
	T2TotalLines int `yaml:"t2_total_lines"`
	NumT2Banks   int `yaml:"num_t2_banks"`

	LineBytes uint32 `yaml:"line_bytes"`

	T1Latency uint64 `yaml:"t1_latency"`
	T2Latency uint64 `yaml:"t2_latency"`

	PrefetchTrigger    int `yaml:"prefetch_trigger"`
	PrefetchLookahead  int `yaml:"prefetch_lookahead"`
	PrefetchIssueWidth int `yaml:"prefetch_issue_width"`

	CycleBudget uint64 `yaml:"cycle_budget"`
}

// loadConfig reads and strictly decodes a hierarchy configuration file,
// layering it over sim.DefaultConfig so a file only needs to set the
// fields it wants to override.
func loadConfig(path string) (sim.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Config{}, fmt.Errorf("reading config file %q: %w", path, err)
	}

	var fc fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil {
		return sim.Config{}, fmt.Errorf("parsing config file %q: %w", path, err)
	}

	cfg := sim.DefaultConfig()
	cfg.T1TotalLines = fc.T1TotalLines
	cfg.NumT1Banks = fc.NumT1Banks
	cfg.T2TotalLines = fc.T2TotalLines
	cfg.NumT2Banks = fc.NumT2Banks
	if fc.LineBytes != 0 {
		cfg.LineBytes = fc.LineBytes
	}
	if fc.T1Latency != 0 {
		cfg.T1Latency = fc.T1Latency
	}
	if fc.T2Latency != 0 {
		cfg.T2Latency = fc.T2Latency
	}
	if fc.PrefetchTrigger != 0 {
		cfg.PrefetchTrigger = fc.PrefetchTrigger
	}
	if fc.PrefetchLookahead != 0 {
		cfg.PrefetchLookahead = fc.PrefetchLookahead
	}
	if fc.PrefetchIssueWidth != 0 {
		cfg.PrefetchIssueWidth = fc.PrefetchIssueWidth
	}
	cfg.CycleBudget = fc.CycleBudget

	return cfg, nil
}
