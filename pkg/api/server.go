// Package api exposes the voice journal flows over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"voice-journal/pkg/domain"
	"voice-journal/pkg/feed"
	"voice-journal/pkg/language"
	"voice-journal/pkg/service"
	"voice-journal/pkg/synth"
	"voice-journal/pkg/transcription"
)

// MaxBodySize bounds multipart uploads.
const MaxBodySize = "32M"

// Service is what the handlers need from the flows.
type Service interface {
	Transcribe(ctx context.Context, payload *domain.AudioPayload, lang language.Code) (string, error)
	CreateJournal(ctx context.Context, payload *domain.AudioPayload, lang language.Code, target time.Time) (domain.Journal, error)
	CreateTasks(ctx context.Context, payload *domain.AudioPayload, lang language.Code, target time.Time) ([]domain.Task, error)
	ListJournals(ctx context.Context, limit int) ([]domain.Journal, error)
	ListTasks(ctx context.Context, limit int) ([]domain.Task, error)
}

// Options tune a Server.
type Options struct {
	// FeedTitle is the RSS channel title. Defaults to "Voice Journal".
	FeedTitle string
	// PublicURL is the externally visible base URL used for feed links.
	PublicURL string
	// Location is used for date-only targetDate values. Defaults to time.Local.
	Location *time.Location
}

// Server routes HTTP requests to a Service.
type Server struct {
	echo *echo.Echo
	svc  Service
	opts Options
}

type errorResponse struct {
	Error string `json:"error"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// New creates a new server.
func New(svc Service, opts Options) *Server {
	if opts.FeedTitle == "" {
		opts.FeedTitle = "Voice Journal"
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(MaxBodySize))

	s := &Server{echo: e, svc: svc, opts: opts}

	e.GET("/healthz", s.handleHealth)
	e.POST("/api/transcribe", s.handleTranscribe)
	e.POST("/api/journal", s.handleCreateJournal)
	e.GET("/api/journal", s.handleListJournals)
	e.GET("/api/journal/feed.xml", s.handleJournalFeed)
	e.POST("/api/tasks", s.handleCreateTasks)
	e.GET("/api/tasks", s.handleListTasks)

	return s
}

// Handler returns the router, for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	log.Printf("API: listening on %s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTranscribe(c echo.Context) error {
	payload, err := readAudio(c)
	if err != nil {
		return s.fail(c, "transcribe", err)
	}

	text, err := s.svc.Transcribe(c.Request().Context(), payload, language.Normalize(c.FormValue("language")))
	if err != nil {
		return s.fail(c, "transcribe", err)
	}
	return c.JSON(http.StatusOK, transcribeResponse{Text: text})
}

func (s *Server) handleCreateJournal(c echo.Context) error {
	payload, target, lang, err := s.readCreateForm(c)
	if err != nil {
		return s.fail(c, "create journal", err)
	}

	journal, err := s.svc.CreateJournal(c.Request().Context(), payload, lang, target)
	if err != nil {
		return s.fail(c, "create journal", err)
	}
	return c.JSON(http.StatusOK, journal)
}

func (s *Server) handleCreateTasks(c echo.Context) error {
	payload, target, lang, err := s.readCreateForm(c)
	if err != nil {
		return s.fail(c, "create tasks", err)
	}

	tasks, err := s.svc.CreateTasks(c.Request().Context(), payload, lang, target)
	if err != nil {
		return s.fail(c, "create tasks", err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleListJournals(c echo.Context) error {
	journals, err := s.svc.ListJournals(c.Request().Context(), parseLimit(c.QueryParam("limit")))
	if err != nil {
		return s.fail(c, "list journals", err)
	}
	return c.JSON(http.StatusOK, journals)
}

func (s *Server) handleListTasks(c echo.Context) error {
	tasks, err := s.svc.ListTasks(c.Request().Context(), parseLimit(c.QueryParam("limit")))
	if err != nil {
		return s.fail(c, "list tasks", err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleJournalFeed(c echo.Context) error {
	journals, err := s.svc.ListJournals(c.Request().Context(), 0)
	if err != nil {
		return s.fail(c, "journal feed", err)
	}

	base := s.opts.PublicURL
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}
	data, err := feed.RSS(s.opts.FeedTitle, strings.TrimRight(base, "/")+"/api/journal", journals)
	if err != nil {
		return s.fail(c, "journal feed", err)
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", data)
}

func (s *Server) readCreateForm(c echo.Context) (*domain.AudioPayload, time.Time, language.Code, error) {
	payload, err := readAudio(c)
	if err != nil {
		return nil, time.Time{}, "", err
	}
	target, err := domain.ParseDate(c.FormValue("targetDate"), s.opts.Location)
	if err != nil {
		return nil, time.Time{}, "", err
	}
	return payload, target, language.Normalize(c.FormValue("language")), nil
}

// fail logs err and writes the JSON error body with the mapped status.
func (s *Server) fail(c echo.Context, op string, err error) error {
	status := StatusFor(err)
	log.Printf("API: %s %s failed (%d): %v", c.Request().Method, op, status, err)
	return c.JSON(status, errorResponse{Error: err.Error()})
}

// StatusFor maps a flow error to an HTTP status code.
func StatusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, service.ErrMissingInput),
		errors.Is(err, service.ErrEmptyAudio),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrEmptyTranscript),
		errors.Is(err, synth.ErrNoContent):
		return http.StatusBadRequest
	case errors.Is(err, transcription.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, transcription.ErrUpload),
		errors.Is(err, transcription.ErrSubmission),
		errors.Is(err, transcription.ErrPoll),
		errors.Is(err, transcription.ErrTranscriptionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// readAudio returns the "audio" form file, or nil when none was attached.
func readAudio(c echo.Context) (*domain.AudioPayload, error) {
	fh, err := c.FormFile("audio")
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) || isBodyTooLarge(err) {
			return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
		}
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded audio: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read uploaded audio: %w", err)
	}

	return &domain.AudioPayload{
		Data:     data,
		MIMEType: fh.Header.Get("Content-Type"),
		Filename: fh.Filename,
	}, nil
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
