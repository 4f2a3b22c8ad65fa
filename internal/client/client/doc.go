// Package client contains the remote resource layer of the filevault client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering the
//     backend operations: Upload, ListFiles, DeleteFile, FetchStats,
//     FetchFileTypes and Download.
//  2. A REST implementation (see HTTPClient) that encodes queries, streams
//     multipart uploads with progress reporting, and maps transport failures
//     and HTTP status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrValidation, ErrTransport, ErrRejected, ErrNotFound and ErrFetch.
// Nothing in this package retries; retry policy belongs to callers.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and timeouts.
package client
