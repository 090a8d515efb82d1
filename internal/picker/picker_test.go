// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package picker

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Bindings.xml", "<?xml version=\"1.0\"?><Device/>")

	f, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Bindings.xml", f.Name)
	assert.Equal(t, int64(len(f.Content)), f.Size)
	assert.Contains(t, f.MIMEType, "xml")
	assert.Empty(t, f.ID)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.xml"))
	assert.Error(t, err)
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
		want string
	}{
		{"png extension", "a.PNG", "", "image/png"},
		{"unknown extension sniffs text", "binds.actionmaps", "plain words", "text/plain; charset=utf-8"},
		{"no extension sniffs binary", "blob", "\x00\x01\x02", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.path, []byte(tt.data)))
		})
	}
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.xml", "a")
	b := writeFile(t, dir, "b.xml", "b")
	c := writeFile(t, dir, "c.txt", "c")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	writeFile(t, filepath.Join(dir, "sub"), "deep.xml", "d")

	t.Run("directory lists regular files only", func(t *testing.T) {
		paths, err := Expand(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{a, b, c}, paths)
	})

	t.Run("glob", func(t *testing.T) {
		paths, err := Expand(filepath.Join(dir, "*.xml"))
		require.NoError(t, err)
		assert.Equal(t, []string{a, b}, paths)
	})

	t.Run("plain file and duplicates kept", func(t *testing.T) {
		paths, err := Expand(a, a)
		require.NoError(t, err)
		assert.Equal(t, []string{a, a}, paths)
	})

	t.Run("missing passes through", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.xml")
		paths, err := Expand(missing)
		require.NoError(t, err)
		assert.Equal(t, []string{missing}, paths)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := Expand(filepath.Join(dir, "[x"))
		assert.Error(t, err)
	})
}

func TestPrompt_Pick(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.xml", "a")
	b := writeFile(t, dir, "b.xml", "b")

	var out bytes.Buffer
	p := NewPrompt(strings.NewReader(a+" "+b+"\n\n"), &out)

	files, err := p.Pick(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.xml", files[0].Name)
	assert.Equal(t, "b.xml", files[1].Name)
	assert.Equal(t, "files> ", out.String())

	files, err = p.Pick(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = p.Pick(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompt_PickCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPrompt(strings.NewReader("x\n"), io.Discard)
	_, err := p.Pick(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
