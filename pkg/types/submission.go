// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SubmissionStatus is the outcome of one generate request. The client does
// not distinguish partial success: a batch either rendered or failed.
type SubmissionStatus string

const (
	SubmissionSucceeded  SubmissionStatus = "succeeded"
	SubmissionFailed     SubmissionStatus = "failed"
	SubmissionCancelled  SubmissionStatus = "cancelled"
	SubmissionSuperseded SubmissionStatus = "superseded"
)

// Submission records one generate request and how it ended.
type Submission struct {
	// Seq is the per-panel request number, starting at 1.
	Seq uint64 `json:"seq" yaml:"seq"`

	Game     string   `json:"game" yaml:"game"`
	Endpoint string   `json:"endpoint" yaml:"endpoint"`
	Files    []string `json:"files" yaml:"files"`

	Status     SubmissionStatus `json:"status" yaml:"status"`
	HTTPStatus int              `json:"http_status,omitempty" yaml:"http_status,omitempty"`

	// Bytes is the size of the response body.
	Bytes int    `json:"bytes" yaml:"bytes"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}
