// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package terminal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/refcard-panel/internal/panel"
	"github.com/pdiddy/refcard-panel/internal/picker"
	"github.com/pdiddy/refcard-panel/internal/upload"
	"github.com/pdiddy/refcard-panel/pkg/types"
)

// syncBuffer is a bytes.Buffer safe for the upload goroutine and the shell
// to write at the same time.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var cardBytes = []byte("jpeg-bytes")

func newCardServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		io.WriteString(w, `<img src="data:image/jpg;base64,`+base64.StdEncoding.EncodeToString(cardBytes)+`"/>`)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newShell(t *testing.T, url, input string) (*Shell, *View, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	in := bufio.NewReader(strings.NewReader(input))
	v := NewView(out, false)
	p, err := panel.New(panel.Options{
		Game:     "fs2020",
		URL:      url,
		View:     v,
		Picker:   picker.NewPrompt(in, out),
		Uploader: upload.NewClient(nil, types.HTTPConfig{}),
	})
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return NewShell(p, v, in, out), v, out
}

func writeInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xml")
	b := filepath.Join(dir, "b.xml")
	require.NoError(t, os.WriteFile(a, []byte("<a/>"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("<b/>"), 0o644))
	return a, b
}

func TestView_PrintsStateChanges(t *testing.T) {
	var out bytes.Buffer
	v := NewView(&out, false)

	v.SetSubmitEnabled(false)
	v.AppendEntry("1", "a.xml")
	v.SetSubmitEnabled(true)
	v.SetSubmitEnabled(true)
	v.ShowProgress()
	assert.True(t, v.Busy())
	v.HideProgress()
	v.SetResults(`<img src="data:image/png;base64,AAAA"/><img src="x.png"/>`)
	v.RemoveEntry("1")
	v.RemoveEntry("1")

	want := "+ 1. a.xml\n" +
		"generate: enabled\n" +
		"generating...\n" +
		"results: 57 bytes, 1 card(s)\n" +
		"- a.xml\n"
	assert.Equal(t, want, out.String())
	assert.False(t, v.Busy())
	assert.Empty(t, v.Entries())
}

func TestView_PrintMarkup(t *testing.T) {
	var out bytes.Buffer
	v := NewView(&out, true)
	v.SetResults(`<img src="x"/>`)
	assert.Equal(t, "<img src=\"x\"/>\n", out.String())
	assert.Equal(t, `<img src="x"/>`, v.Results())

	v.ClearResults()
	assert.Empty(t, v.Results())
}

func TestShell_AddRemoveGenerateSave(t *testing.T) {
	ts := newCardServer(t)
	a, b := writeInputs(t)
	saveDir := filepath.Join(t.TempDir(), "cards")

	script := strings.Join([]string{
		"add " + a + " " + b,
		"ls",
		"rm 1",
		"add " + a,
		"generate",
		"wait",
		"save " + saveDir,
		"quit",
	}, "\n") + "\n"

	sh, v, out := newShell(t, ts.URL+"/api/fs2020", script)
	require.NoError(t, sh.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "1. a.xml\n2. b.xml\n")
	assert.Contains(t, got, "- a.xml")
	assert.Contains(t, got, "succeeded")
	assert.Contains(t, got, "results: ")

	labels := []string{}
	for _, e := range v.Entries() {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"b.xml", "a.xml"}, labels)
	assert.True(t, v.SubmitEnabled())
	assert.False(t, v.Busy())

	data, err := os.ReadFile(filepath.Join(saveDir, "fs2020-1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, cardBytes, data)
	assert.FileExists(t, filepath.Join(saveDir, "fs2020.html"))
}

func TestShell_PickUsesPrompt(t *testing.T) {
	a, _ := writeInputs(t)
	sh, v, out := newShell(t, "http://127.0.0.1:1/api/fs2020", "pick\n"+a+"\n")

	require.NoError(t, sh.Run(context.Background()))

	require.Len(t, v.Entries(), 1)
	assert.Equal(t, "a.xml", v.Entries()[0].Label)
	assert.Contains(t, out.String(), "files> ")
}

func TestShell_Errors(t *testing.T) {
	sh, _, _ := newShell(t, "http://127.0.0.1:1/api/fs2020", "")
	ctx := context.Background()

	tests := []struct {
		name string
		line string
	}{
		{"unknown", "frobnicate"},
		{"add without args", "add"},
		{"rm without args", "rm"},
		{"rm not a number", "rm x"},
		{"rm out of range", "rm 3"},
		{"wait before generate", "wait"},
		{"save without results", "save /tmp/x"},
		{"save without dir", "save"},
		{"add missing file", "add /definitely/not/here.xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quit, err := sh.Exec(ctx, tt.line)
			assert.False(t, quit)
			assert.Error(t, err)
		})
	}
}

func TestShell_FailedUploadReported(t *testing.T) {
	a, _ := writeInputs(t)
	script := "add " + a + "\ngenerate\nwait\nshow\n"
	sh, v, out := newShell(t, "http://127.0.0.1:1/api/fs2020", script)

	require.NoError(t, sh.Run(context.Background()))

	assert.Contains(t, out.String(), "failed")
	assert.Empty(t, v.Results())
	assert.False(t, v.Busy())
}
