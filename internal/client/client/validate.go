package client

import (
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// Validate performs the client-side upload pre-check.
func Validate(f File) error {
	if f.Size() > common.MaxUploadSize {
		return fmt.Errorf("%w: file size exceeds 10MB limit", ErrValidation)
	}
	if !common.IsAllowedContentType(f.ContentType()) {
		return fmt.Errorf("%w: file type %q not allowed", ErrValidation, f.ContentType())
	}
	return nil
}
