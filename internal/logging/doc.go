// Package logging provides structured logging for ragindex.
//
// Without --debug, warnings and errors go to stderr as text. With --debug,
// JSON logs are also written to <config-dir>/logs/ragindex.log with
// size-based rotation, and can be read back with `ragindex logs`.
package logging
