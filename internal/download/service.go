package download

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/convert2mp3/convert2mp3/internal/model"
	"github.com/convert2mp3/convert2mp3/internal/platform"
	"github.com/convert2mp3/convert2mp3/internal/progress"
	"github.com/convert2mp3/convert2mp3/internal/strategy"
)

// Session is one end-to-end orchestration run for one request. All fields
// except the cancellation flag are owned by the worker goroutine; shells
// read through Snapshot.
type Session struct {
	ID        string
	Request   model.DownloadRequest
	Events    *progress.Queue
	StartedAt time.Time

	cancel atomic.Bool

	mu       sync.RWMutex
	status   model.SessionStatus
	percent  float64
	message  string
	files    []string
	errText  string
	finished time.Time
}

// Cancel requests cooperative cancellation. The worker honors it at the
// next attempt or item boundary.
func (s *Session) Cancel() {
	s.cancel.Store(true)
}

// Cancelled reports whether cancellation was requested.
func (s *Session) Cancelled() bool {
	return s.cancel.Load()
}

// Snapshot is a point-in-time copy of session state for shells.
type Snapshot struct {
	ID       string
	Status   model.SessionStatus
	Percent  float64
	Message  string
	Files    []string
	Error    string
	Finished time.Time
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	files := make([]string, len(s.files))
	copy(files, s.files)
	return Snapshot{
		ID:       s.ID,
		Status:   s.status,
		Percent:  s.percent,
		Message:  s.message,
		Files:    files,
		Error:    s.errText,
		Finished: s.finished,
	}
}

func (s *Session) applyEvent(ev model.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch ev.Kind {
	case model.EventPercent:
		s.percent = ev.Percent
	case model.EventStatus:
		s.message = ev.Message
	}
}

func (s *Session) applyOutcome(outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = outcome.Status
	s.message = outcome.Message
	s.files = outcome.Files
	s.finished = time.Now()
	if outcome.Status == model.StatusCompleted {
		s.percent = 100
	}
	if outcome.Err != nil {
		s.errText = outcome.Err.Error()
	}
}

// Service owns the session map and starts one worker goroutine per
// download. Sessions live for the process lifetime; there is no eviction,
// which is acceptable for a single-user local tool.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	orch    *Orchestrator
	clients []string
	logger  zerolog.Logger
}

// NewService creates a download service.
func NewService(orch *Orchestrator, clients []string, logger zerolog.Logger) *Service {
	return &Service{
		sessions: make(map[string]*Session),
		orch:     orch,
		clients:  clients,
		logger:   logger,
	}
}

// Start validates preconditions, builds the plan, and launches the worker.
// Precondition failures (bad URL, unwritable destination, unreadable cookie
// file, empty client list) are returned immediately and no session is
// created.
func (s *Service) Start(req model.DownloadRequest) (*Session, error) {
	req.Normalize()

	if !platform.IsSupportedURL(req.URL) {
		return nil, fmt.Errorf("unsupported URL: %q", req.URL)
	}
	if err := platform.EnsureWritableDir(req.OutputDir); err != nil {
		return nil, err
	}

	plan, err := strategy.BuildPlan(req, s.clients)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        uuid.NewString(),
		Request:   req,
		Events:    progress.NewQueue(),
		StartedAt: time.Now(),
		status:    model.StatusDownloading,
		message:   "Starting download...",
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Info().
		Str("session", session.ID).
		Str("url", req.URL).
		Int("attempts", len(plan)).
		Msg("session started")

	go s.run(session, plan)

	return session, nil
}

func (s *Service) run(session *Session, plan model.StrategyPlan) {
	onEvent := func(ev model.ProgressEvent) {
		session.Events.Publish(ev)
		session.applyEvent(ev)
	}

	outcome := s.orch.Run(session.Request, plan, onEvent, session.Cancelled)
	session.applyOutcome(outcome)

	s.logger.Info().
		Str("session", session.ID).
		Str("status", string(outcome.Status)).
		Int("files", len(outcome.Files)).
		Msg("session finished")
}

// Get returns a session by ID.
func (s *Service) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Cancel requests cancellation of a running session.
func (s *Service) Cancel(id string) error {
	session, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("session not found: %s", id)
	}
	if session.Snapshot().Status.IsFinished() {
		return fmt.Errorf("session already finished: %s", id)
	}
	session.Cancel()
	return nil
}

// Active reports whether any session is still running.
func (s *Service) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.sessions {
		if !session.Snapshot().Status.IsFinished() {
			return true
		}
	}
	return false
}
