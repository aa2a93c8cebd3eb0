package transcription

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"voice-journal/pkg/domain"
	"voice-journal/pkg/httpclient"
	"voice-journal/pkg/language"
)

const (
	DefaultBaseURL      = "https://api.assemblyai.com/v2"
	DefaultPollInterval = 2 * time.Second
	DefaultMaxAttempts  = 60
)

var (
	ErrUpload              = errors.New("failed to upload audio")
	ErrSubmission          = errors.New("failed to submit transcription request")
	ErrPoll                = errors.New("failed to get transcription status")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrTimeout             = errors.New("transcription timed out")
	ErrEmptyJobID          = errors.New("transcription job id is empty")
)

// JobError is returned when the remote service marks a job as failed.
// It unwraps to ErrTranscriptionFailed.
type JobError struct {
	JobID  string
	Detail string
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTranscriptionFailed.Error(), e.Detail)
}

func (e *JobError) Unwrap() error { return ErrTranscriptionFailed }

// Config configures the AssemblyAI client.
type Config struct {
	BaseURL string
	APIKey  string

	// PollInterval is the wait between status checks. Default 2s.
	PollInterval time.Duration

	// MaxAttempts caps the number of status checks. Default 60.
	MaxAttempts int

	// RequestTimeout bounds each HTTP exchange, including the upload.
	RequestTimeout time.Duration
}

// Client turns audio into text through AssemblyAI's asynchronous job API:
// upload the bytes, submit a job, poll until it finishes.
type Client struct {
	cfg  Config
	http *httpclient.HTTPClient

	// sleep waits between polls; tests replace it to count waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client, filling in defaults for unset fields.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Minute
	}
	return &Client{
		cfg:   cfg,
		http:  httpclient.NewClient(cfg.BaseURL, cfg.APIKey, httpclient.RawKeyAuth, cfg.RequestTimeout),
		sleep: sleepContext,
	}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type submitRequest struct {
	AudioURL     string `json:"audio_url"`
	LanguageCode string `json:"language_code"`
	SpeechModel  string `json:"speech_model"`
}

type submitResponse struct {
	ID string `json:"id"`
}

// Transcribe uploads the payload, submits a job for it and waits for the result.
// One call produces exactly one remote job.
func (c *Client) Transcribe(ctx context.Context, payload domain.AudioPayload, lang language.Code) (string, error) {
	log.Printf("Transcription: uploading %d bytes (%s, language=%s)", payload.Size(), payload.MIMEType, lang)
	audioURL, err := c.Upload(ctx, payload)
	if err != nil {
		log.Printf("Transcription: ERROR uploading audio: %v", err)
		return "", err
	}

	jobID, err := c.Submit(ctx, audioURL, lang)
	if err != nil {
		log.Printf("Transcription: ERROR submitting job: %v", err)
		return "", err
	}
	log.Printf("Transcription: submitted job %s", jobID)

	text, err := c.Wait(ctx, jobID)
	if err != nil {
		log.Printf("Transcription: ERROR waiting for job %s: %v", jobID, err)
		return "", err
	}
	log.Printf("Transcription: job %s completed (%d chars)", jobID, len(text))
	return text, nil
}

// Upload sends the raw audio bytes and returns the URL the service stored them under.
func (c *Client) Upload(ctx context.Context, payload domain.AudioPayload) (string, error) {
	var resp uploadResponse
	if err := c.http.PostRaw(ctx, "/upload", "application/octet-stream", payload.Data, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if resp.UploadURL == "" {
		return "", fmt.Errorf("%w: response has no upload_url", ErrUpload)
	}
	return resp.UploadURL, nil
}

// Submit enqueues a transcription job for previously uploaded audio.
func (c *Client) Submit(ctx context.Context, audioURL string, lang language.Code) (string, error) {
	profile := language.Lookup(lang)
	req := submitRequest{
		AudioURL:     audioURL,
		LanguageCode: profile.SpeechLanguage,
		SpeechModel:  profile.SpeechModel,
	}

	var resp submitResponse
	if err := c.http.PostJSON(ctx, "/transcript", req, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: %v", ErrSubmission, ErrEmptyJobID)
	}
	return resp.ID, nil
}

// Status fetches the current state of a job.
func (c *Client) Status(ctx context.Context, jobID string) (domain.TranscriptionJob, error) {
	var job domain.TranscriptionJob
	if err := c.http.GetJSON(ctx, "/transcript/"+url.PathEscape(jobID), &job); err != nil {
		return domain.TranscriptionJob{}, fmt.Errorf("%w: %v", ErrPoll, err)
	}
	if job.ID == "" {
		job.ID = jobID
	}
	return job, nil
}

// Wait polls the job every PollInterval, at most MaxAttempts times.
// A completed job returns its text, an errored job returns *JobError,
// and running out of attempts returns ErrTimeout.
func (c *Client) Wait(ctx context.Context, jobID string) (string, error) {
	if jobID == "" {
		return "", ErrEmptyJobID
	}

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		job, err := c.Status(ctx, jobID)
		if err != nil {
			return "", err
		}

		switch job.Status {
		case domain.JobStatusCompleted:
			return job.Text, nil
		case domain.JobStatusError:
			return "", &JobError{JobID: jobID, Detail: job.Error}
		}

		if attempt%10 == 0 {
			log.Printf("Transcription: job %s still %s (attempt %d/%d)", jobID, job.Status, attempt, c.cfg.MaxAttempts)
		}
		if attempt == c.cfg.MaxAttempts {
			break
		}
		if err := c.sleep(ctx, c.cfg.PollInterval); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w: job %s not finished after %d attempts", ErrTimeout, jobID, c.cfg.MaxAttempts)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
