// Package uploads tracks concurrent file uploads for the lifetime of a
// session.
//
// Every Enqueue creates an UploadTask with a session-unique ClientID and runs
// the transfer in its own goroutine. Uploads are independent: a failed or
// rejected upload never blocks, cancels or rolls back another one. Progress
// and terminal outcomes are published to Observers; the synchronization
// coordinator is one of them and invalidates cached views on success.
//
// Terminal tasks stay visible for a retention window (3 seconds by default)
// and are then forgotten. Nothing here is persisted.
package uploads
