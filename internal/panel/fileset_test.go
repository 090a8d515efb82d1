// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package panel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/refcard-panel/pkg/types"
)

func sequentialIDs() func() types.FileID {
	n := 0
	return func() types.FileID {
		n++
		return types.FileID(fmt.Sprintf("id-%d", n))
	}
}

func TestFileSet_AddRemove(t *testing.T) {
	s := &FileSet{newID: sequentialIDs()}

	a := s.Add(types.PendingFile{Name: "a.png"})
	b := s.Add(types.PendingFile{Name: "b.png"})
	a2 := s.Add(types.PendingFile{Name: "a.png"})

	assert.Equal(t, types.FileID("id-1"), a.ID)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"a.png", "b.png", "a.png"}, types.Names(s.Files()))

	require.True(t, s.Remove(a.ID))
	assert.False(t, s.Remove(a.ID))
	assert.Equal(t, []types.FileID{b.ID, a2.ID}, []types.FileID{s.Files()[0].ID, s.Files()[1].ID})

	got, ok := s.Get(a2.ID)
	require.True(t, ok)
	assert.Equal(t, "a.png", got.Name)

	_, ok = s.Get(a.ID)
	assert.False(t, ok)
}

func TestFileSet_FilesIsACopy(t *testing.T) {
	s := NewFileSet()
	s.Add(types.PendingFile{Name: "a.png"})

	files := s.Files()
	files[0].Name = "changed"

	assert.Equal(t, "a.png", s.Files()[0].Name)
}

func TestFileSet_UUIDs(t *testing.T) {
	s := NewFileSet()
	a := s.Add(types.PendingFile{Name: "a.png"})
	b := s.Add(types.PendingFile{Name: "a.png"})

	assert.Len(t, string(a.ID), 36)
	assert.NotEqual(t, a.ID, b.ID)
}
