// Package combined exercises the queue, pool, cancel and tick packages
// together.
//
// The benchmarks here measure whole worker loops (pop, check for a
// stop, check for periodic work) rather than single operations, and
// compare the blocking queue with a buffered channel and a lock-free
// ring in producer/consumer pipelines.
package combined
