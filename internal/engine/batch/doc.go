// Package batch calculates many scenario records in parallel.
//
// Scenarios are split into fixed-size batches. Within a batch up to the
// configured number of scenarios run concurrently on an errgroup, each worker
// owning its own record; batches run in sequence so memory stays bounded by
// one batch of results regardless of how many files are processed.
//
// A scenario that fails to calculate is reported in its Outcome and the run
// carries on. Cancelling the context stops new scenarios from starting.
package batch
