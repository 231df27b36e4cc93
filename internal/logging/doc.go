// Package logging configures zerolog for pagedview.
//
// It builds the root logger from configuration (level, console or JSON
// format, stderr or file output), derives component loggers, and carries
// the logger and a per-invocation trace ID through context.Context so that
// every fetch can be correlated in the logs.
package logging
