package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/memsim/memsim/sim"
)

// readTraceCSV reads a trace file of "op,address" rows (op is "READ" or
// "WRITE", address is a decimal or 0x-prefixed hex byte address). The
// core's Trace type is read-only input; this is the CLI's own file
// format, not a format the simulator itself prescribes (spec §6: "the
// core does not impose a wire format").
func readTraceCSV(path string) (sim.Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace file %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading trace file %q: %w", path, err)
	}

	trace := make(sim.Trace, 0, len(rows))
	for i, row := range rows {
		kind, err := parseOpKind(row[0])
		if err != nil {
			return nil, fmt.Errorf("trace file %q, row %d: %w", path, i+1, err)
		}
		addr, err := strconv.ParseUint(strings.TrimSpace(row[1]), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("trace file %q, row %d: bad address %q: %w", path, i+1, row[1], err)
		}
		trace = append(trace, sim.Operation{Kind: kind, Address: addr})
	}
	return trace, nil
}

// writeTraceCSV writes trace as "op,address" rows.
func writeTraceCSV(path string, trace sim.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, op := range trace {
		if err := w.Write([]string{op.Kind.String(), strconv.FormatUint(op.Address, 10)}); err != nil {
			return fmt.Errorf("writing trace file %q: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

func parseOpKind(s string) (sim.OpKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "READ":
		return sim.Read, nil
	case "WRITE":
		return sim.Write, nil
	default:
		return 0, fmt.Errorf("unrecognised op kind %q (want READ or WRITE)", s)
	}
}
