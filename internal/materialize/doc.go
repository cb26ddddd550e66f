// Package materialize turns a REPL session into a single C translation unit.
//
// The generated program runs in four phases inside one main function:
//
//  1. suppress: stdout and stderr are each redirected to the discard sink
//     through their own redirect handle, which owns a saved duplicate of the
//     original descriptor;
//  2. replay: the session's prior statements run verbatim, their output
//     swallowed by the sink;
//  3. resume: each handle checks its descriptor still points at the sink,
//     flushes its stream, reattaches the saved descriptor and closes it;
//  4. reveal: the current input runs with visible I/O, printing its value
//     when it is an expression.
//
// Both suppress calls complete before the first replayed statement, and both
// resume calls complete before the current input. Any failure inside the
// harness terminates the generated program immediately with a diagnostic
// line and the exit status of its FailureKind. Nothing is flushed before
// suppression: a prior round already flushed its own output when it exited.
//
// Materialization is pure. It performs no I/O, keeps no state between calls
// and yields byte-identical text for identical inputs, so it may be called
// concurrently.
package materialize
