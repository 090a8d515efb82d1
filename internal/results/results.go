// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package results turns an upload response into what the results container
// shows, and pulls generated reference cards out of the markup.
//
// The response body is markup from the conversion server. Under
// types.TrustTrusted it is passed through unchanged, which is only safe
// while that server is trusted; types.TrustSanitized strips scripts, event
// handlers and other active content but keeps data: images.
package results

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/refcard-panel/pkg/types"
)

// Renderer applies a trust policy to response bodies.
type Renderer struct {
	policy    types.TrustPolicy
	sanitizer *bluemonday.Policy
}

// NewRenderer returns a Renderer for policy. An empty policy is treated as
// types.TrustTrusted.
func NewRenderer(policy types.TrustPolicy) *Renderer {
	if policy == "" {
		policy = types.TrustTrusted
	}
	r := &Renderer{policy: policy}
	if policy == types.TrustSanitized {
		p := bluemonday.UGCPolicy()
		p.AllowDataURIImages()
		p.AllowAttrs("class").Globally()
		r.sanitizer = p
	}
	return r
}

// Policy reports the policy in effect.
func (r *Renderer) Policy() types.TrustPolicy { return r.policy }

// Render returns the markup to place in the results container.
func (r *Renderer) Render(body []byte) string {
	if r.sanitizer == nil {
		return string(body)
	}
	return string(r.sanitizer.SanitizeBytes(body))
}

// Image is one <img> found in the results markup.
type Image struct {
	// Index is the position among all <img> elements, starting at 0.
	Index int

	// Src is the raw src attribute.
	Src string

	// MIMEType and Data are set only for base64 data: sources.
	MIMEType string
	Data     []byte
}

// Embedded reports whether the image carried its own bytes.
func (i Image) Embedded() bool { return len(i.Data) > 0 }

// ExtractImages lists every <img> in markup, decoding base64 data: sources.
func ExtractImages(markup string) ([]Image, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing results markup: %w", err)
	}

	var images []Image
	var decodeErr error
	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		img := Image{Index: i, Src: src}
		if mimeType, data, ok, err := decodeDataURI(src); err != nil {
			if decodeErr == nil {
				decodeErr = fmt.Errorf("decoding image %d: %w", i, err)
			}
		} else if ok {
			img.MIMEType = mimeType
			img.Data = data
		}
		images = append(images, img)
	})
	return images, decodeErr
}

// ExtractLog returns the trimmed text of each list item in markup. The
// conversion server appends its processing log as a list after the cards.
func ExtractLog(markup string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing results markup: %w", err)
	}
	var lines []string
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	return lines, nil
}

// decodeDataURI parses "data:<mime>;base64,<payload>". ok is false for any
// src that is not a base64 data URI.
func decodeDataURI(src string) (mimeType string, data []byte, ok bool, err error) {
	rest, found := strings.CutPrefix(src, "data:")
	if !found {
		return "", nil, false, nil
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", nil, false, nil
	}
	mimeType, found = strings.CutSuffix(meta, ";base64")
	if !found {
		return "", nil, false, nil
	}
	data, err = base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", nil, false, err
	}
	return mimeType, data, true, nil
}

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

func extension(mimeType string) string {
	if ext, ok := extensions[strings.ToLower(mimeType)]; ok {
		return ext
	}
	return "bin"
}

// SaveImages writes every embedded image to dir as <prefix>-<n>.<ext> and
// returns the written paths. Images without data are skipped.
func SaveImages(dir, prefix string, images []Image) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}
	var paths []string
	n := 0
	for _, img := range images {
		if !img.Embedded() {
			continue
		}
		n++
		path := filepath.Join(dir, fmt.Sprintf("%s-%d.%s", prefix, n, extension(img.MIMEType)))
		if err := os.WriteFile(path, img.Data, 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SaveMarkup writes markup to dir/<prefix>.html and returns the path.
func SaveMarkup(dir, prefix, markup string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><body>\n")
	buf.WriteString(markup)
	buf.WriteString("\n</body></html>\n")

	path := filepath.Join(dir, prefix+".html")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
