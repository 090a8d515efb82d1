// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package terminal hosts an upload panel on a text terminal: a View that
// prints panel state changes, and a Shell that turns typed commands into
// panel events.
package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/refcard-panel/internal/panel"
	"github.com/pdiddy/refcard-panel/internal/results"
	"github.com/pdiddy/refcard-panel/pkg/types"
)

// View implements panel.View by writing one line per state change.
type View struct {
	mu          sync.Mutex
	w           io.Writer
	printMarkup bool

	enabled  bool
	entries  []panel.Entry
	results  string
	progress bool
}

// NewView returns a View writing to w. When printMarkup is set, results are
// echoed verbatim instead of summarized.
func NewView(w io.Writer, printMarkup bool) *View {
	return &View{w: w, printMarkup: printMarkup}
}

func (v *View) SetSubmitEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if enabled == v.enabled {
		return
	}
	v.enabled = enabled
	if enabled {
		fmt.Fprintln(v.w, "generate: enabled")
	} else {
		fmt.Fprintln(v.w, "generate: disabled")
	}
}

func (v *View) AppendEntry(id types.FileID, label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = append(v.entries, panel.Entry{ID: id, Label: label})
	fmt.Fprintf(v.w, "+ %d. %s\n", len(v.entries), label)
}

func (v *View) RemoveEntry(id types.FileID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, e := range v.entries {
		if e.ID == id {
			v.entries = append(v.entries[:i], v.entries[i+1:]...)
			fmt.Fprintf(v.w, "- %s\n", e.Label)
			return
		}
	}
}

// ResetPicker is a no-op: the terminal picker keeps no selection.
func (v *View) ResetPicker() {}

func (v *View) ClearResults() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results = ""
}

func (v *View) SetResults(markup string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results = markup
	if v.printMarkup {
		fmt.Fprintln(v.w, markup)
		return
	}
	images, _ := results.ExtractImages(markup)
	embedded := 0
	for _, img := range images {
		if img.Embedded() {
			embedded++
		}
	}
	fmt.Fprintf(v.w, "results: %d bytes, %d card(s)\n", len(markup), embedded)
}

func (v *View) ShowProgress() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.progress = true
	fmt.Fprintln(v.w, "generating...")
}

func (v *View) HideProgress() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.progress = false
}

// Entries returns the listed entries in display order.
func (v *View) Entries() []panel.Entry {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]panel.Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Results returns the current contents of the results container.
func (v *View) Results() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.results
}

// Busy reports whether the progress indicator is showing.
func (v *View) Busy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.progress
}

// SubmitEnabled reports the submit control state.
func (v *View) SubmitEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enabled
}
