package models

import "time"

// UploadState is the lifecycle state of an UploadTask.
type UploadState string

const (
	UploadQueued    UploadState = "queued"
	UploadUploading UploadState = "uploading"
	UploadSucceeded UploadState = "succeeded"
	UploadFailed    UploadState = "failed"
)

// Terminal reports whether no further transitions can happen.
func (s UploadState) Terminal() bool {
	return s == UploadSucceeded || s == UploadFailed
}

// FailureKind classifies why an upload failed.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureValidation FailureKind = "validation"
	FailureTransport  FailureKind = "transport"
	FailureRejected   FailureKind = "rejected"
	FailureOther      FailureKind = "other"
)

// UploadTask tracks one local upload for the lifetime of the session.
type UploadTask struct {
	// ClientID is generated locally and unique for the session.
	ClientID    string
	FileName    string
	Size        int64
	ContentType string
	// ContentHash is the hex BLAKE2b-256 digest of the local content, if known.
	ContentHash string
	// SameContentAs names an earlier upload of this session with the same
	// ContentHash. The upload still runs; the server decides deduplication.
	SameContentAs string

	State    UploadState
	Progress int

	// Set on success.
	Duplicate bool
	Record    *FileRecord

	// Set on failure.
	Err     error
	Failure FailureKind

	StartedAt  time.Time
	FinishedAt time.Time
}

// Outcome is a short human-readable summary of the task state.
func (t UploadTask) Outcome() string {
	switch t.State {
	case UploadSucceeded:
		if t.Duplicate {
			return "duplicate"
		}
		return "uploaded"
	case UploadFailed:
		if t.Err != nil {
			return "failed: " + t.Err.Error()
		}
		return "failed"
	default:
		return string(t.State)
	}
}

// ShortHash is the first 8 hex digits of ContentHash, or "-" when unknown.
func (t UploadTask) ShortHash() string {
	if len(t.ContentHash) < 8 {
		return "-"
	}
	return t.ContentHash[:8]
}
