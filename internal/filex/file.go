// Package filex contains local filesystem helpers: directory bootstrap for
// the client cache database and LocalFile, an upload source backed by a file
// on disk.
package filex

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/crypto/blake2b"
)

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// LocalFile is a file on disk prepared for upload.
type LocalFile struct {
	path        string
	name        string
	size        int64
	contentType string
	hash        string
}

// Open stats path, sniffs its MIME type from content and, for files within the
// upload limit, computes a BLAKE2b-256 digest.
func Open(path string) (*LocalFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	lf := &LocalFile{path: path, name: filepath.Base(path), size: fi.Size()}

	m, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect type of %s: %w", path, err)
	}
	lf.contentType, _, _ = strings.Cut(m.String(), ";")

	if lf.size <= common.MaxUploadSize {
		if lf.hash, err = hashFile(path); err != nil {
			return nil, err
		}
	}

	return lf, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (f *LocalFile) Name() string        { return f.name }
func (f *LocalFile) Size() int64         { return f.size }
func (f *LocalFile) ContentType() string { return f.contentType }
func (f *LocalFile) Hash() string        { return f.hash }
func (f *LocalFile) Path() string        { return f.path }

// Open returns a fresh reader over the content.
func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}
