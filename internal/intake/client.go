// Package intake is the HTTP client for the AMIE manuscript-intake backend.
// The backend exposes upload, status, record, history, retry and delete
// endpoints; all processing happens server-side and is opaque to this client.
package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"amie/internal/pipeline"
)

// ErrUnauthorized is returned when the backend rejects the access code.
// It is terminal for polling: the caller must stop and surface it, never
// retry automatically.
var ErrUnauthorized = errors.New("intake: unauthorized")

// APIError is returned when the backend responds with an unexpected status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("intake: HTTP %d: %s", e.StatusCode, e.Body)
}

// Client defines the intake backend operations.
type Client interface {
	Upload(ctx context.Context, path string) (*UploadResponse, error)
	Status(ctx context.Context, id string) (pipeline.Status, error)
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context) ([]RequestSummary, error)
	Retry(ctx context.Context, id string) (*RetryResponse, error)
	Delete(ctx context.Context, id string) error
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.hc = hc
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.hc.Timeout = d
	}
}

type httpClient struct {
	baseURL string
	code    string
	hc      *http.Client
	tracer  oteltrace.Tracer
}

// New creates a Client for the given base URL. code is the function access
// key appended as the `code` query parameter on every request; empty means
// anonymous access (local mock backend).
func New(baseURL, code string, opts ...Option) Client {
	c := &httpClient{
		baseURL: baseURL,
		code:    code,
		hc:      &http.Client{Timeout: 30 * time.Second},
		tracer:  otel.Tracer("amie/intake"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload sends the file at path as a multipart POST /upload.
func (c *httpClient) Upload(ctx context.Context, path string) (*UploadResponse, error) {
	ctx, span := c.tracer.Start(ctx, "intake.upload",
		oteltrace.WithAttributes(attribute.String("amie.file", filepath.Base(path))))
	defer span.End()

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "intake: open upload file")
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, eris.Wrap(err, "intake: create form file")
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, eris.Wrap(err, "intake: read upload file")
	}
	if err := mw.Close(); err != nil {
		return nil, eris.Wrap(err, "intake: finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/upload"), &body)
	if err != nil {
		return nil, eris.Wrap(err, "intake: build upload request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out UploadResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	zap.L().Info("manuscript uploaded",
		zap.String("request_id", out.RequestID),
		zap.String("filename", out.Filename),
	)
	return &out, nil
}

// Status fetches the current global status for a request.
func (c *httpClient) Status(ctx context.Context, id string) (pipeline.Status, error) {
	ctx, span := c.tracer.Start(ctx, "intake.status",
		oteltrace.WithAttributes(attribute.String("amie.request_id", id)))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/requests/"+id+"/status"), nil)
	if err != nil {
		return "", eris.Wrap(err, "intake: build status request")
	}

	var out statusResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("amie.status", out.Status))
	return pipeline.Status(out.Status), nil
}

// Get fetches the full record for a request, including agent outputs.
func (c *httpClient) Get(ctx context.Context, id string) (*Record, error) {
	ctx, span := c.tracer.Start(ctx, "intake.get",
		oteltrace.WithAttributes(attribute.String("amie.request_id", id)))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/requests/"+id), nil)
	if err != nil {
		return nil, eris.Wrap(err, "intake: build record request")
	}

	var out Record
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List fetches all prior submissions.
func (c *httpClient) List(ctx context.Context) ([]RequestSummary, error) {
	ctx, span := c.tracer.Start(ctx, "intake.list")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/requests"), nil)
	if err != nil {
		return nil, eris.Wrap(err, "intake: build list request")
	}

	var out []RequestSummary
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Retry asks the backend to re-run a failed request.
func (c *httpClient) Retry(ctx context.Context, id string) (*RetryResponse, error) {
	ctx, span := c.tracer.Start(ctx, "intake.retry",
		oteltrace.WithAttributes(attribute.String("amie.request_id", id)))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/requests/"+id+"/retry"), nil)
	if err != nil {
		return nil, eris.Wrap(err, "intake: build retry request")
	}

	var out RetryResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	zap.L().Info("retry requested",
		zap.String("request_id", id),
		zap.String("previous_status", out.PreviousStatus),
	)
	return &out, nil
}

// Delete soft-deletes a request.
func (c *httpClient) Delete(ctx context.Context, id string) error {
	ctx, span := c.tracer.Start(ctx, "intake.delete",
		oteltrace.WithAttributes(attribute.String("amie.request_id", id)))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint("/requests/"+id), nil)
	if err != nil {
		return eris.Wrap(err, "intake: build delete request")
	}
	return c.do(req, nil)
}

// endpoint joins the base URL with a path and appends the access code.
func (c *httpClient) endpoint(path string) string {
	u := c.baseURL + path
	if c.code != "" {
		u += "?code=" + url.QueryEscape(c.code)
	}
	return u
}

// do executes the request and decodes a JSON response into out (if non-nil).
// 401 and 403 map to ErrUnauthorized; other non-2xx statuses to *APIError.
func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return eris.Wrap(err, "intake: "+req.Method+" "+req.URL.Path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return eris.Wrap(err, "intake: read response body")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return eris.Wrap(ErrUnauthorized, req.URL.Path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "intake: decode "+req.URL.Path)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
