// Package diag exposes process diagnostics for the monitoring endpoints:
// a masked environment snapshot, Go runtime statistics, full goroutine
// stack dumps and pprof heap profiles.
//
// Environment masking is fragment-based: any variable whose name contains
// KEY, TOKEN, SECRET, PASSWORD or CREDENTIAL (or a caller-supplied
// fragment) has its value replaced before it leaves the process.
package diag
