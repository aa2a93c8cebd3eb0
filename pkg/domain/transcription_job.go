package domain

// JobStatus is the lifecycle state reported by the remote speech-to-text service.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// IsTerminal reports whether polling should stop at this status.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// TranscriptionJob mirrors the remote job resource. It is only ever read by us;
// the remote service owns its state.
type TranscriptionJob struct {
	// ID is the opaque job identifier returned on submission.
	ID string `json:"id"`

	Status JobStatus `json:"status"`

	// Text is set only when Status is completed.
	Text string `json:"text,omitempty"`

	// Error is set only when Status is error.
	Error string `json:"error,omitempty"`
}
