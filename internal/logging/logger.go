// Package logging is the logger every filevault component receives by
// injection. The CLI writes it to stderr so log lines never mix with the
// tables rendered on stdout.
package logging

import "context"

// Logger takes a message and alternating key/value args:
//
//	log.Debug(ctx, "request", "method", "GET", "path", "/files/", "status", 200)
//	log.Warn(ctx, "upload failed", "upload", id, "kind", "transport")
//
// Components add their own fixed attributes with With, e.g.
// logger.With("component", "sync").
type Logger interface {
	// Debug is for per-request and per-flight detail.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is for failures the client degrades around, such as a stats
	// refresh that falls back to the cached copy.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	With(args ...any) Logger
}
