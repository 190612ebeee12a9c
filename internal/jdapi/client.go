// Package jdapi is a typed client for the JD service HTTP API.
// Each method maps to one endpoint. There is no retry and no caching.
package jdapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/jd-admin/internal/schemas"
	"github.com/jonathan/jd-admin/internal/types"
	embedded "github.com/jonathan/jd-admin/schemas"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the address of a locally running JD service.
const DefaultBaseURL = "http://localhost:8000"

// RequestIDHeader carries a per-call ID that also appears in the client's debug log.
const RequestIDHeader = "X-Request-ID"

// Client issues requests against the JD service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validator  *schemas.Validator
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets a per-request timeout. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithoutSchemaValidation disables response schema checks.
func WithoutSchemaValidation() Option {
	return func(c *Client) {
		c.validator = nil
	}
}

// New creates a client for the service at baseURL (DefaultBaseURL if empty).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		validator:  schemas.NewValidator(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service address the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Create generates a new draft JD from fields.
func (c *Client) Create(ctx context.Context, fields types.JDFields) (*types.JDRecord, error) {
	req, err := types.NewCreateJDRequest(fields)
	if err != nil {
		return nil, err
	}
	var out types.JDRecord
	if err := c.doJSON(ctx, http.MethodPost, "/jd/create", req, embedded.JDRecord, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Approve moves a JD to APPROVED.
func (c *Client) Approve(ctx context.Context, jdID string) (*types.StatusResponse, error) {
	var out types.StatusResponse
	if err := c.doJSON(ctx, http.MethodPost, jdPath(jdID, "approve"), nil, embedded.Status, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reject moves a JD to REJECTED with a reason.
func (c *Client) Reject(ctx context.Context, jdID, reason string) (*types.StatusResponse, error) {
	req, err := types.NewRejectRequest(jdID, reason)
	if err != nil {
		return nil, err
	}
	var out types.StatusResponse
	if err := c.doJSON(ctx, http.MethodPost, jdPath(jdID, "reject"), req, embedded.Status, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Regenerate asks the service for new JD text from the stored fields.
func (c *Client) Regenerate(ctx context.Context, jdID string) (*types.JDRecord, error) {
	var out types.JDRecord
	if err := c.doJSON(ctx, http.MethodPost, jdPath(jdID, "regenerate"), nil, embedded.JDRecord, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtractText extracts structured fields from pasted text.
func (c *Client) ExtractText(ctx context.Context, text string) (*types.ExtractionResult, error) {
	path := "/jd/extract/text?" + url.Values{"text": {text}}.Encode()
	var out types.ExtractionResult
	if err := c.doJSON(ctx, http.MethodPost, path, nil, embedded.Extraction, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtractFile uploads a document and extracts structured fields from it.
func (c *Client) ExtractFile(ctx context.Context, filename string, content io.Reader) (*types.ExtractionResult, error) {
	const path = "/jd/extract/file"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, &RequestError{Method: http.MethodPost, Path: path, Message: "failed to create form file", Cause: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, &RequestError{Method: http.MethodPost, Path: path, Message: "failed to read upload", Cause: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &RequestError{Method: http.MethodPost, Path: path, Message: "failed to finish multipart body", Cause: err}
	}

	var out types.ExtractionResult
	if err := c.do(ctx, http.MethodPost, path, mw.FormDataContentType(), &buf, embedded.Extraction, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Templates returns the named field presets.
func (c *Client) Templates(ctx context.Context) (types.Templates, error) {
	out := types.Templates{}
	if err := c.doJSON(ctx, http.MethodGet, "/jd/templates", nil, embedded.Templates, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns every JD the service holds.
func (c *Client) List(ctx context.Context) ([]types.JDRecord, error) {
	out := []types.JDRecord{}
	if err := c.doJSON(ctx, http.MethodGet, "/jd/list", nil, embedded.JDList, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a single JD.
func (c *Client) Get(ctx context.Context, jdID string) (*types.JDRecord, error) {
	var out types.JDRecord
	if err := c.doJSON(ctx, http.MethodGet, jdPath(jdID, ""), nil, embedded.JDRecord, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateText replaces the generated text of a JD.
func (c *Client) UpdateText(ctx context.Context, jdID, text string) (*types.JDRecord, error) {
	req, err := types.NewUpdateTextRequest(jdID, text)
	if err != nil {
		return nil, err
	}
	var out types.JDRecord
	if err := c.doJSON(ctx, http.MethodPost, jdPath(jdID, "update-text"), req, embedded.JDRecord, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RankResumes ranks the resumes in an external folder against a JD.
func (c *Client) RankResumes(ctx context.Context, jdID, folderURL string) (*types.RankingResponse, error) {
	req, err := types.NewRankRequest(jdID, folderURL)
	if err != nil {
		return nil, err
	}
	var out types.RankingResponse
	if err := c.doJSON(ctx, http.MethodPost, "/jd/rank-resumes", req, embedded.Ranking, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func jdPath(jdID, action string) string {
	p := "/jd/" + url.PathEscape(jdID)
	if action != "" {
		p += "/" + action
	}
	return p
}

// doJSON sends an optional JSON body and decodes a JSON response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, schema string, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Method: method, Path: path, Message: "failed to encode request body", Cause: err}
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, contentType, reader, schema, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, schema string, out any) error {
	start := time.Now()
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RequestError{Method: method, Path: path, Message: "failed to create request", Cause: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Method: method, Path: path, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Method: method, Path: path, Message: "failed to read response body", Cause: err}
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("jd service request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(data),
			Body:       string(data),
		}
	}

	if c.validator != nil && schema != "" {
		if err := c.validator.Validate(schema, data); err != nil {
			return &RequestError{Method: method, Path: path, Message: "unexpected response shape", Cause: err}
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Method: method, Path: path, Message: fmt.Sprintf("failed to decode response (%d bytes)", len(data)), Cause: err}
	}
	return nil
}
