// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package panel

import (
	"github.com/google/uuid"

	"github.com/pdiddy/refcard-panel/pkg/types"
)

// FileSet is an ordered collection of pending files. Insertion order is
// kept and duplicate names are allowed; entries are removed only by ID.
// A FileSet is not safe for concurrent use; Panel guards its own.
type FileSet struct {
	files []types.PendingFile
	newID func() types.FileID
}

// NewFileSet returns an empty set that assigns random UUIDs.
func NewFileSet() *FileSet {
	return &FileSet{newID: func() types.FileID { return types.FileID(uuid.NewString()) }}
}

// Add appends f under a fresh ID and returns the stored copy. Any ID
// already on f is replaced.
func (s *FileSet) Add(f types.PendingFile) types.PendingFile {
	f.ID = s.newID()
	if f.Size == 0 {
		f.Size = int64(len(f.Content))
	}
	s.files = append(s.files, f)
	return f
}

// Remove deletes the entry with id and reports whether it was present.
func (s *FileSet) Remove(id types.FileID) bool {
	for i, f := range s.files {
		if f.ID == id {
			s.files = append(s.files[:i], s.files[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the entry with id.
func (s *FileSet) Get(id types.FileID) (types.PendingFile, bool) {
	for _, f := range s.files {
		if f.ID == id {
			return f, true
		}
	}
	return types.PendingFile{}, false
}

// Len returns the number of pending files.
func (s *FileSet) Len() int { return len(s.files) }

// Files returns a copy of the pending files in insertion order.
func (s *FileSet) Files() []types.PendingFile {
	out := make([]types.PendingFile, len(s.files))
	copy(out, s.files)
	return out
}
