// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package panel implements the upload panel: a pending file list bound to a
// submit control, posted as one multipart request to a fixed endpoint, with
// the server's response rendered into a results container.
//
// Each Panel owns its file set, view and endpoint. Overlapping submissions
// resolve as last-issued wins: starting a new request cancels the one in
// flight, and a completion that is no longer the latest leaves the view
// alone.
package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pdiddy/refcard-panel/internal/results"
	"github.com/pdiddy/refcard-panel/internal/upload"
	"github.com/pdiddy/refcard-panel/pkg/types"
)

// Picker is the host file picker. Pick blocks until the user has chosen
// zero or more files.
type Picker interface {
	Pick(ctx context.Context) ([]types.PendingFile, error)
}

// Uploader sends the pending files. *upload.Client implements it.
type Uploader interface {
	Upload(ctx context.Context, url string, files []types.PendingFile) (*upload.Response, error)
}

// Recorder stores finished submissions. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, s types.Submission) error
}

// Options configures a Panel.
type Options struct {
	Game string

	// URL is the resolved endpoint the panel posts to.
	URL string

	View     View
	Picker   Picker
	Uploader Uploader

	// Renderer defaults to the trusted policy.
	Renderer *results.Renderer

	// Recorder is optional.
	Recorder Recorder

	Logger *slog.Logger
}

// Entry is one rendered list entry.
type Entry struct {
	ID    types.FileID
	Label string
}

// Panel coordinates selection, listing and submission for one endpoint.
type Panel struct {
	game     string
	ids      ElementIDs
	url      string
	view     View
	picker   Picker
	uploader Uploader
	renderer *results.Renderer
	recorder Recorder
	log      *slog.Logger

	mu      sync.Mutex
	files   *FileSet
	enabled bool
	seq     uint64
	cancel  context.CancelFunc
	last    *Request
}

// New registers a panel and puts its view in the initial state: empty list,
// submit disabled.
func New(opts Options) (*Panel, error) {
	if opts.Game == "" {
		return nil, errors.New("panel: game is required")
	}
	if opts.URL == "" {
		return nil, fmt.Errorf("panel %s: endpoint URL is required", opts.Game)
	}
	if opts.View == nil {
		return nil, fmt.Errorf("panel %s: view is required", opts.Game)
	}
	if opts.Uploader == nil {
		return nil, fmt.Errorf("panel %s: uploader is required", opts.Game)
	}
	if opts.Renderer == nil {
		opts.Renderer = results.NewRenderer(types.TrustTrusted)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := &Panel{
		game:     opts.Game,
		ids:      IDsFor(opts.Game),
		url:      opts.URL,
		view:     opts.View,
		picker:   opts.Picker,
		uploader: opts.Uploader,
		renderer: opts.Renderer,
		recorder: opts.Recorder,
		log:      opts.Logger.With("game", opts.Game),
		files:    NewFileSet(),
	}
	p.view.SetSubmitEnabled(false)
	return p, nil
}

// Game returns the game this panel serves.
func (p *Panel) Game() string { return p.game }

// IDs returns the element IDs of this panel.
func (p *Panel) IDs() ElementIDs { return p.ids }

// URL returns the endpoint the panel posts to.
func (p *Panel) URL() string { return p.url }

// FilesChosen appends each file to the pending set, renders one entry per
// file and resets the picker. Files are never deduplicated: choosing the
// same name twice yields two independent entries. It returns the stored
// files with their assigned IDs.
func (p *Panel) FilesChosen(files ...types.PendingFile) []types.PendingFile {
	p.mu.Lock()
	defer p.mu.Unlock()

	added := make([]types.PendingFile, 0, len(files))
	for _, f := range files {
		stored := p.files.Add(f)
		p.view.AppendEntry(stored.ID, stored.Name)
		added = append(added, stored)
	}
	if len(added) > 0 {
		p.log.Debug("files chosen", "count", len(added), "pending", p.files.Len())
	}
	p.syncSubmitLocked()
	p.view.ResetPicker()
	return added
}

// EntryClicked removes the entry with id. Unknown IDs are ignored.
func (p *Panel) EntryClicked(id types.FileID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.files.Remove(id) {
		p.log.Debug("entry not pending", "id", id)
		return
	}
	p.view.RemoveEntry(id)
	p.syncSubmitLocked()
}

// AddRequested opens the host picker and feeds its selection to
// FilesChosen.
func (p *Panel) AddRequested(ctx context.Context) error {
	if p.picker == nil {
		return fmt.Errorf("panel %s: no file picker", p.game)
	}
	files, err := p.picker.Pick(ctx)
	if err != nil {
		return fmt.Errorf("picking files: %w", err)
	}
	p.FilesChosen(files...)
	return nil
}

// GenerateRequested clears the results, shows progress and posts every
// pending file to the endpoint. It returns immediately; the returned
// Request completes when the response has been handled. Failures are
// logged and recorded on the Request, never returned or panicked.
func (p *Panel) GenerateRequested(ctx context.Context) *Request {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.seq++
	reqCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	files := p.files.Files()
	r := newRequest(types.Submission{
		Seq:       p.seq,
		Game:      p.game,
		Endpoint:  p.url,
		Files:     types.Names(files),
		StartedAt: time.Now(),
	})
	p.last = r

	p.view.ClearResults()
	p.view.ShowProgress()
	p.mu.Unlock()

	p.log.Info("uploading", "endpoint", p.url, "files", len(files), "seq", r.seq)
	go p.run(reqCtx, cancel, r, files)
	return r
}

func (p *Panel) run(ctx context.Context, cancel context.CancelFunc, r *Request, files []types.PendingFile) {
	defer cancel()

	resp, err := p.uploader.Upload(ctx, p.url, files)
	sub := r.sub
	sub.Duration = time.Since(sub.StartedAt)

	p.mu.Lock()
	latest := sub.Seq == p.seq
	switch {
	case !latest:
		sub.Status = types.SubmissionSuperseded
		if err != nil {
			sub.Error = err.Error()
		}
	case err != nil:
		p.cancel = nil
		sub.Status = types.SubmissionFailed
		if errors.Is(err, context.Canceled) {
			sub.Status = types.SubmissionCancelled
		}
		sub.Error = err.Error()
		var se *upload.StatusError
		if errors.As(err, &se) {
			sub.HTTPStatus = se.Status
			sub.Bytes = len(se.Body)
		}
		p.view.HideProgress()
	default:
		p.cancel = nil
		sub.Status = types.SubmissionSucceeded
		sub.HTTPStatus = resp.Status
		sub.Bytes = len(resp.Body)
		p.view.HideProgress()
		p.view.SetResults(p.renderer.Render(resp.Body))
	}
	p.mu.Unlock()

	switch sub.Status {
	case types.SubmissionSucceeded:
		p.log.Info("upload finished", "seq", sub.Seq, "status", sub.HTTPStatus, "bytes", sub.Bytes, "duration", sub.Duration)
	case types.SubmissionSuperseded:
		p.log.Debug("discarding superseded response", "seq", sub.Seq)
	default:
		p.log.Error("upload failed", "seq", sub.Seq, "endpoint", p.url, "files", sub.Files, "err", sub.Error)
	}

	if p.recorder != nil {
		// The request context may already be cancelled; recording must not be.
		if err := p.recorder.Record(context.WithoutCancel(ctx), sub); err != nil {
			p.log.Warn("recording submission", "err", err)
		}
	}
	r.finish(sub, resp)
}

// Files returns the pending files in insertion order.
func (p *Panel) Files() []types.PendingFile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.files.Files()
}

// Entries returns the rendered list entries in order.
func (p *Panel) Entries() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	files := p.files.Files()
	entries := make([]Entry, len(files))
	for i, f := range files {
		entries[i] = Entry{ID: f.ID, Label: f.Name}
	}
	return entries
}

// SubmitEnabled reports the state last pushed to the submit control.
func (p *Panel) SubmitEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Last returns the most recently issued request, or nil.
func (p *Panel) Last() *Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Close cancels any request in flight.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// syncSubmitLocked enforces: submit enabled iff the set is non-empty.
func (p *Panel) syncSubmitLocked() {
	p.enabled = p.files.Len() > 0
	p.view.SetSubmitEnabled(p.enabled)
}
