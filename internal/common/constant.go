// Package common contains limits and constants shared by the client layers.
package common

// MaxUploadSize is the largest file the client will try to upload.
const MaxUploadSize int64 = 10 * 1024 * 1024

// UploadFieldName is the multipart form field carrying the file content.
const UploadFieldName = "file"

// AllowedContentTypes lists the MIME types accepted for upload.
var AllowedContentTypes = []string{
	"image/jpeg",
	"image/png",
	"application/pdf",
	"text/plain",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// IsAllowedContentType reports whether ct is in AllowedContentTypes.
func IsAllowedContentType(ct string) bool {
	for _, a := range AllowedContentTypes {
		if a == ct {
			return true
		}
	}
	return false
}
