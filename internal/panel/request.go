// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package panel

import (
	"context"

	"github.com/pdiddy/refcard-panel/internal/upload"
	"github.com/pdiddy/refcard-panel/pkg/types"
)

// Request is the handle for one generate request.
type Request struct {
	seq  uint64
	sub  types.Submission
	resp *upload.Response
	done chan struct{}
}

func newRequest(sub types.Submission) *Request {
	return &Request{seq: sub.Seq, sub: sub, done: make(chan struct{})}
}

func (r *Request) finish(sub types.Submission, resp *upload.Response) {
	r.sub = sub
	r.resp = resp
	close(r.done)
}

// Seq returns the per-panel request number.
func (r *Request) Seq() uint64 { return r.seq }

// Done is closed once the response has been handled.
func (r *Request) Done() <-chan struct{} { return r.done }

// Wait blocks until the request completes or ctx is done and returns the
// submission record.
func (r *Request) Wait(ctx context.Context) (types.Submission, error) {
	select {
	case <-r.done:
		return r.sub, nil
	case <-ctx.Done():
		return types.Submission{}, ctx.Err()
	}
}

// Response returns the raw upload response after a successful completion,
// or nil.
func (r *Request) Response() *upload.Response {
	select {
	case <-r.done:
		return r.resp
	default:
		return nil
	}
}
