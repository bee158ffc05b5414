// Package sim provides the core cache-hierarchy simulation model.
//
// # Reading Guide
//
// Start with these three files to understand the model:
//   - cache.go: one set-associative level — address decomposition,
//     associative lookup, strict-LRU replacement, silent probe/fill
//   - hierarchy.go: L1/L2/L3 routing with inclusive fill-on-miss and
//     lazily created private L1 caches keyed by core id
//   - simulator.go: the sequential replay loop over a trace source
//
// Trace ingestion (line parsing, streaming reads, malformed-record
// policy) lives in sim/trace. Metrics aggregation and rendering live in
// metrics.go.
//
// The simulator is single-threaded by design: trace records are replayed
// strictly in stream order, so the LRU logical clock has a well-defined
// meaning. Thread ids in the trace are partition labels selecting a
// private L1, not concurrency within the simulator.
package sim
