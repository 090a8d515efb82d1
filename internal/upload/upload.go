// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package upload sends pending files to a conversion endpoint as a single
// multipart/form-data POST.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/pdiddy/refcard-panel/internal/httputil"
	"github.com/pdiddy/refcard-panel/pkg/types"
)

// FieldName is the form field every file part is sent under.
const FieldName = "file"

const defaultMIMEType = "application/octet-stream"

// Response is a successful (2xx) upload response.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Status int
	URL    string
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.Status, e.URL)
}

// Client posts multipart uploads.
type Client struct {
	http *http.Client
	cfg  types.HTTPConfig
}

// NewClient returns a Client. A nil httpClient gets one built from cfg.
func NewClient(httpClient *http.Client, cfg types.HTTPConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{http: httpClient, cfg: cfg}
}

// Upload sends files to url as one POST with one "file" part per file, in
// order. An empty files slice still sends a request with no file parts.
func (c *Client) Upload(ctx context.Context, url string, files []types.PendingFile) (*Response, error) {
	body, contentType, err := EncodeFiles(files)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	httputil.NoCache(req)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, URL: url, Body: data}
	}

	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

// EncodeFiles serializes files into a multipart/form-data body and returns
// it with the matching Content-Type (boundary included).
func EncodeFiles(files []types.PendingFile) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := w.CreatePart(partHeader(f))
		if err != nil {
			return nil, "", fmt.Errorf("creating part for %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("writing part for %s: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func partHeader(f types.PendingFile) textproto.MIMEHeader {
	mimeType := f.MIMEType
	if mimeType == "" {
		mimeType = defaultMIMEType
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FieldName, quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", mimeType)
	return h
}
