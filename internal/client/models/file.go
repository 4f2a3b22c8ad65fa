package models

import "time"

// FileRecord is a read-only copy of a server-side file row.
type FileRecord struct {
	// ID is the server-assigned identity.
	ID int64 `json:"id"`

	// Name is the display name (base name of the uploaded file).
	Name string `json:"name"`

	// FileURL is the absolute URL the content can be downloaded from.
	FileURL string `json:"file"`

	// FileType is the lowercase extension token, e.g. "pdf".
	FileType string `json:"file_type"`

	// Size is the content length in bytes.
	Size int64 `json:"size"`

	// UploadDate is the server-side creation instant.
	UploadDate time.Time `json:"upload_date"`

	// IsDuplicate is true when the server matched an existing file.
	IsDuplicate bool `json:"is_duplicate"`

	// OriginalFile references the record this one duplicates. Set iff IsDuplicate.
	OriginalFile *int64 `json:"original_file"`

	// Hash is the optional content hash reported by the server.
	Hash string `json:"hash,omitempty"`
}

// Status returns the label shown in listings.
func (f FileRecord) Status() string {
	if f.IsDuplicate {
		return "Duplicate"
	}
	return "Unique"
}

// StorageStats are aggregate counters reported by the server. The client does
// not assume TotalFiles == UniqueFiles + DuplicateFiles.
type StorageStats struct {
	TotalFiles     int64 `json:"total_files"`
	UniqueFiles    int64 `json:"unique_files"`
	DuplicateFiles int64 `json:"duplicate_files"`
	StorageSaved   int64 `json:"storage_saved"`
}
