// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FileID identifies one pending entry. It is assigned when the file joins a
// panel's pending set, so two entries with the same name stay distinct.
type FileID string

// PendingFile is a user-selected local file awaiting upload. It is not
// modified after it has been added to a panel.
type PendingFile struct {
	// ID is empty until the panel assigns it.
	ID FileID `json:"id" yaml:"id"`

	// Name is the original base filename, used as the list label and as
	// the multipart filename.
	Name string `json:"name" yaml:"name"`

	// Size is the content length in bytes.
	Size int64 `json:"size" yaml:"size"`

	// MIMEType is the content type reported by the picker.
	MIMEType string `json:"mime_type" yaml:"mime_type"`

	// Content is the file body.
	Content []byte `json:"-" yaml:"-"`
}

// Names returns the file names in order.
func Names(files []PendingFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}
