// Package cli provides the interactive filevault command-line client.
//
// It wires configuration, the local snapshot database, the REST client and
// the synchronization coordinator, then runs a REPL that renders the file
// listing, storage statistics and upload progress from the coordinator's
// caches.
//
// Key features:
//   - Browse: list, next/prev/page, sort
//   - Filter: search, type, size, dates, reset
//   - Upload several files concurrently and watch their progress
//   - Delete and download files
//   - Storage statistics, refreshed in the background
//   - Light/dark theme
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
