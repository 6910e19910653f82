// Package sim provides the core cycle-accurate simulation engine for the
// two-tier on-chip memory hierarchy and stream prefetcher.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - operation.go: Operation/Trace, the only input the scheduler consumes.
//   - addr.go: line address normalisation and bank routing.
//   - tier.go / lruset.go: the banked LRU cache used for both tiers.
//   - inflight.go: in-flight fill bookkeeping and retirement ordering.
//   - prefetcher.go: the Prefetcher extension point.
//   - scheduler.go: the Simulator event loop and the per-operation timing
//     model.
//   - metrics.go: the Metrics snapshot returned at the end of a run.
//
// # Architecture
//
// sim defines the Prefetcher interface and a registration variable; the
// default stream implementation lives in streamprefetch/ and wires itself
// in via an init() function, breaking the import cycle between sim (the
// interface owner) and streamprefetch (the implementation) the same way
// the donor codebase wires its LatencyModel and KVStore extension points.
//
// # Determinism
//
// A Simulator is single-threaded and holds no shared state: running the
// same (Config, Trace) through two independently constructed Simulators
// always produces byte-identical Metrics. Independent runs may be executed
// concurrently by the caller; the package itself introduces no concurrency.
package sim
