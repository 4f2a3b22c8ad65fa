// Package netx holds small transport helpers: a progress-reporting reader and
// a streaming multipart body builder used for file uploads.
package netx

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sync"
)

// ProgressReader wraps r and reports integer percentages of total read so far.
// Reports are strictly increasing and never exceed 100.
type ProgressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report func(int)
	mu     sync.Mutex
}

// NewProgressReader returns a reader reporting progress to fn. A nil fn or a
// non-positive total disables reporting.
func NewProgressReader(r io.Reader, total int64, fn func(int)) *ProgressReader {
	return &ProgressReader{r: r, total: total, last: -1, report: fn}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.advance(int64(n))
	}
	if err == io.EOF {
		p.finish()
	}
	return n, err
}

func (p *ProgressReader) advance(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.read += n
	if p.report == nil || p.total <= 0 {
		return
	}
	pct := int(p.read * 100 / p.total)
	if pct > 100 {
		pct = 100
	}
	if pct > p.last {
		p.last = pct
		p.report(pct)
	}
}

func (p *ProgressReader) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.report != nil && p.total > 0 && p.last < 100 {
		p.last = 100
		p.report(100)
	}
}

// MultipartBody streams content as a single-file multipart form without
// buffering it in memory. The returned content type carries the boundary.
// The caller must close the body.
func MultipartBody(field, fileName, contentType string, content io.Reader) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fileName))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	return pr, mw.FormDataContentType()
}
