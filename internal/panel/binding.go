// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package panel

import "github.com/pdiddy/refcard-panel/pkg/types"

// ElementIDs names the page elements one panel drives. Every game page uses
// the same convention with the game name as prefix.
type ElementIDs struct {
	FilesInput     string `json:"files_input" yaml:"files_input"`
	AddButton      string `json:"add_button" yaml:"add_button"`
	GenerateButton string `json:"generate_button" yaml:"generate_button"`
	Files          string `json:"files" yaml:"files"`
	Images         string `json:"images" yaml:"images"`
	Progressbar    string `json:"progressbar" yaml:"progressbar"`
	Nav            string `json:"nav" yaml:"nav"`
}

// IDsFor returns the element IDs for game.
func IDsFor(game string) ElementIDs {
	return ElementIDs{
		FilesInput:     game + "FilesInput",
		AddButton:      game + "AddButton",
		GenerateButton: game + "GenerateButton",
		Files:          game + "Files",
		Images:         game + "Images",
		Progressbar:    game + "Progressbar",
		Nav:            game + "Nav",
	}
}

// View is the host surface a panel drives: the submit control, the list of
// pending entries, the results container and the progress indicator.
//
// The panel calls View methods while holding its lock, one at a time, from
// whichever goroutine handled the event or finished the upload. A View must
// not call back into the panel.
type View interface {
	SetSubmitEnabled(enabled bool)
	AppendEntry(id types.FileID, label string)
	RemoveEntry(id types.FileID)

	// ResetPicker clears the picker selection so the same file can be
	// chosen again.
	ResetPicker()

	ClearResults()
	SetResults(markup string)
	ShowProgress()
	HideProgress()
}
