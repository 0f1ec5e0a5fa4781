// Package driver runs batches of generation invocations. Each declaration
// is generated independently under an errgroup worker limit; results keep
// declaration order regardless of scheduling. The driver owns all I/O:
// manifest loading, artifact writing, and the msgpack origin sidecars. The
// generator itself stays pure.
package driver
