// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package picker loads local files into pending files. It stands in for a
// native file picker on hosts that have none.
package picker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/refcard-panel/pkg/types"
)

// ReadFile loads path as a pending file named after its base name.
func ReadFile(path string) (types.PendingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PendingFile{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return types.PendingFile{
		Name:     filepath.Base(path),
		Size:     int64(len(data)),
		MIMEType: DetectType(path, data),
		Content:  data,
	}, nil
}

// ReadFiles loads every path in order. It stops at the first error.
func ReadFiles(paths ...string) ([]types.PendingFile, error) {
	files := make([]types.PendingFile, 0, len(paths))
	for _, p := range paths {
		f, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// DetectType returns the MIME type for a file, from its extension when
// known and by sniffing the content otherwise.
func DetectType(path string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

// Expand resolves each argument to file paths. Directories contribute their
// regular files (not recursive, sorted by name), glob patterns their
// matches, and anything else is passed through so a later read reports it.
func Expand(args ...string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			files, err := filesInDir(arg)
			if err != nil {
				return nil, err
			}
			paths = append(paths, files...)
		case err == nil:
			paths = append(paths, arg)
		default:
			matches, globErr := filepath.Glob(arg)
			if globErr != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", arg, globErr)
			}
			if len(matches) == 0 {
				paths = append(paths, arg)
				continue
			}
			sort.Strings(matches)
			for _, m := range matches {
				if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
					paths = append(paths, m)
				}
			}
		}
	}
	return paths, nil
}

func filesInDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// Prompt is an interactive picker: it asks for paths on w and reads one
// line of space-separated paths, globs or directories from r.
type Prompt struct {
	r *bufio.Reader
	w io.Writer
}

// NewPrompt returns a Prompt reading from r and prompting on w.
func NewPrompt(r io.Reader, w io.Writer) *Prompt {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Prompt{r: br, w: w}
}

// Pick reads one line and loads the files it names. An empty line picks
// nothing.
func (p *Prompt) Pick(ctx context.Context) ([]types.PendingFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fmt.Fprint(p.w, "files> ")
	line, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return nil, err
	}
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil, nil
	}
	paths, err := Expand(args...)
	if err != nil {
		return nil, err
	}
	return ReadFiles(paths...)
}
