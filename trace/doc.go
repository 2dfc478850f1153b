// Package trace parses and writes the FTL trace-replay wire format: an
// "io count"-delimited list of (type, lba, ppn) triples read as input, and
// a newline-terminated list of decimal PPNs written as replay output.
//
// Parsing, output writing, and file comparison are the engine's thin I/O
// adapters; this package owns only their file-format contract, not the
// replay loop itself (cmd/ftl-replay owns that).
package trace
