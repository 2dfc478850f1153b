// Command ftl-replay drives a trace through an ftl.Engine and reports
// accuracy against a known-good validation trace.
package main
