package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/filevault/internal/client/models"
	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/netx"
)

const maxErrorBody = 4096

// StatusError is a non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is match the sentinel implied by the status code.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrTransport
	default:
		return nil
	}
}

// HTTPClient talks to the REST backend rooted at baseURL.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return mapError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request", "method", method, "path", path, "status", resp.StatusCode, "dur", time.Since(start))

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Code: resp.StatusCode, Message: errorMessage(b)}
}

// errorMessage extracts a readable message from a JSON error body such as
// {"detail": "..."} or {"file": ["..."]}; otherwise returns the trimmed body.
func errorMessage(b []byte) string {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err == nil {
		for _, k := range []string{"detail", "error", "message"} {
			if s, ok := m[k].(string); ok {
				return s
			}
		}
		for k, v := range m {
			if list, ok := v.([]any); ok && len(list) > 0 {
				return fmt.Sprintf("%s: %v", k, list[0])
			}
		}
	}
	return strings.TrimSpace(string(b))
}

// Upload validates f locally and then streams it as multipart/form-data.
func (c *HTTPClient) Upload(ctx context.Context, f File, progress ProgressFunc) (*models.FileRecord, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}

	content, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name(), err)
	}
	defer content.Close()

	pr := netx.NewProgressReader(content, f.Size(), progress)
	body, ct := netx.MultipartBody(common.UploadFieldName, f.Name(), f.ContentType(), pr)
	defer body.Close()

	var rec models.FileRecord
	err = c.do(ctx, http.MethodPost, "/files/", nil, body, ct, &rec)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %s", ErrRejected, se.Message)
		}
		return nil, err
	}

	return &rec, nil
}

func (c *HTTPClient) ListFiles(ctx context.Context, q models.QuerySpec) (*models.Page[models.FileRecord], error) {
	var page models.Page[models.FileRecord]
	if err := c.do(ctx, http.MethodGet, "/files/", q.Values(), nil, "", &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []models.FileRecord{}
	}
	if page.CurrentPage == 0 {
		page.CurrentPage = q.Page
	}
	if page.PageCount == 0 && page.TotalCount > 0 {
		page.PageCount = models.PageCount(page.TotalCount, q.PageSize)
	}
	return &page, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/files/"+strconv.FormatInt(id, 10)+"/", nil, nil, "", nil)
}

func (c *HTTPClient) FetchStats(ctx context.Context) (*models.StorageStats, error) {
	var s models.StorageStats
	if err := c.do(ctx, http.MethodGet, "/files/stats/", nil, nil, "", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) FetchFileTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := c.do(ctx, http.MethodGet, "/files/file_types/", nil, nil, "", &types); err != nil {
		return nil, err
	}
	return types, nil
}

// Download streams the content behind rec.FileURL into w. Relative URLs are
// resolved against the base URL.
func (c *HTTPClient) Download(ctx context.Context, rec models.FileRecord, w io.Writer) error {
	u, err := c.resolve(rec.FileURL)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *HTTPClient) resolve(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: record has no download url", ErrNotFound)
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse file url: %w", err)
	}
	return base.ResolveReference(r).String(), nil
}
