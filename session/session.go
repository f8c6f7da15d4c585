package session

import (
	"context"
	"sync"
	"time"

	"github.com/use-agent/pagelens/models"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusAnalyzing Status = "analyzing"
	StatusComplete  Status = "complete"
	StatusError     Status = "error"
)

// AnalyzeFunc runs one extraction. The context is cancelled when the run
// is superseded by a newer analyze call.
type AnalyzeFunc func(ctx context.Context, url, imageURL string) (*models.AnalysisResult, error)

// TerminalFunc is invoked (on its own goroutine) after every terminal
// transition. Used for webhook delivery.
type TerminalFunc func(state State)

// progressPhases are the advisory notices streamed while an analysis is in
// flight. They run on a fixed interval and are deliberately decoupled from
// the actual extraction phases: UI feedback, not correctness signals.
var progressPhases = []string{
	"Fetching page content...",
	"Analyzing page structure...",
	"Identifying core entity...",
	"Extracting facts and tables...",
	"Cross-checking with grounding search...",
}

// State is an immutable view of a session. URL is the target of the most
// recent analyze call.
type State struct {
	ID     string
	URL    string
	Status Status
	Data   *models.AnalysisResult
	Error  string
	Logs   []string
}

// Session tracks the lifecycle of analyses for one caller:
// idle → analyzing → complete | error, with a new analyze call always
// restarting from analyzing and discarding prior history. Progress notices
// stop at the terminal transition but stay readable alongside the outcome;
// they are cleared on the next analyze call, so they never describe any run
// but the current one.
//
// Single-flight: a new call supersedes an in-flight one. The superseded
// run's context is cancelled as a courtesy, but correctness rests on the
// generation counter: a completion carrying a stale generation is
// discarded entirely, so a late result can never overwrite newer state.
type Session struct {
	id         string
	analyze    AnalyzeFunc
	interval   time.Duration
	onTerminal TerminalFunc

	mu         sync.Mutex
	url        string
	status     Status
	data       *models.AnalysisResult
	errMsg     string
	logs       []string
	gen        uint64
	cancel     context.CancelFunc
	lastActive time.Time
}

// New creates an idle session. onTerminal may be nil.
func New(id string, analyze AnalyzeFunc, interval time.Duration, onTerminal TerminalFunc) *Session {
	return &Session{
		id:         id,
		analyze:    analyze,
		interval:   interval,
		onTerminal: onTerminal,
		status:     StatusIdle,
		lastActive: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Analyze starts (or restarts) an analysis. It returns immediately; callers
// observe the outcome via State. Any in-flight run is superseded: its
// context is cancelled and its eventual completion is discarded.
func (s *Session) Analyze(url, imageURL string) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.gen++
	gen := s.gen
	s.url = url
	s.status = StatusAnalyzing
	s.data = nil
	s.errMsg = ""
	s.logs = nil
	s.lastActive = time.Now()
	s.mu.Unlock()

	done := make(chan struct{})
	go s.streamProgress(gen, done)
	go func() {
		res, err := s.analyze(ctx, url, imageURL)
		close(done)
		cancel()
		s.finish(gen, res, err)
	}()
}

// streamProgress appends one notice per interval tick while the run it
// belongs to is still the active one. It stops deterministically: on run
// completion (done), on supersede or terminal transition (generation/status
// check), or when the phase list is exhausted.
func (s *Session) streamProgress(gen uint64, done <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for _, notice := range progressPhases {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.gen != gen || s.status != StatusAnalyzing {
				s.mu.Unlock()
				return
			}
			s.logs = append(s.logs, notice)
			s.mu.Unlock()
		}
	}
}

// finish applies a run's outcome unless the run has been superseded.
func (s *Session) finish(gen uint64, res *models.AnalysisResult, err error) {
	s.mu.Lock()
	if s.gen != gen || s.status != StatusAnalyzing {
		// Stale completion from a superseded run.
		s.mu.Unlock()
		return
	}

	if err != nil {
		s.status = StatusError
		s.errMsg = models.AsAnalysisError(err).Message
	} else {
		s.status = StatusComplete
		s.data = res
	}
	s.lastActive = time.Now()
	state := s.stateLocked()
	onTerminal := s.onTerminal
	s.mu.Unlock()

	if onTerminal != nil {
		go onTerminal(state)
	}
}

// State returns a consistent snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	logs := make([]string, len(s.logs))
	copy(logs, s.logs)
	return State{
		ID:     s.id,
		URL:    s.url,
		Status: s.status,
		Data:   s.data,
		Error:  s.errMsg,
		Logs:   logs,
	}
}

// expired reports whether the session can be evicted: never while a run is
// in flight, otherwise once it has been inactive past the cutoff.
func (s *Session) expired(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status != StatusAnalyzing && s.lastActive.Before(cutoff)
}
