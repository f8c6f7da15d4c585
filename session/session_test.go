package session

import (
	"context"
	"testing"
	"time"

	"github.com/use-agent/pagelens/models"
)

func entityResult() *models.AnalysisResult {
	return &models.AnalysisResult{Entity: &models.ScrapedData{PageType: models.PageTypeProduct}}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestSession_CompleteFlow(t *testing.T) {
	analyze := func(context.Context, string, string) (*models.AnalysisResult, error) {
		return entityResult(), nil
	}
	s := New("s1", analyze, time.Minute, nil)

	if s.State().Status != StatusIdle {
		t.Errorf("new session status = %s, want idle", s.State().Status)
	}

	s.Analyze("https://example.com", "")
	waitFor(t, func() bool { return s.State().Status == StatusComplete })

	state := s.State()
	if state.Data == nil || state.Data.Entity == nil {
		t.Error("completed session is missing data")
	}
	if state.Error != "" {
		t.Errorf("unexpected error: %q", state.Error)
	}
	if state.URL != "https://example.com" {
		t.Errorf("state URL = %q", state.URL)
	}
}

func TestSession_ErrorFlow(t *testing.T) {
	analyze := func(context.Context, string, string) (*models.AnalysisResult, error) {
		return nil, models.NewAnalysisError(models.ErrCodeExtractionFailed, "model call failed", nil)
	}
	s := New("s1", analyze, time.Minute, nil)

	s.Analyze("https://example.com", "")
	waitFor(t, func() bool { return s.State().Status == StatusError })

	state := s.State()
	if state.Error != "model call failed" {
		t.Errorf("error message = %q, want the human-readable message only", state.Error)
	}
	if state.Data != nil {
		t.Error("failed session must not carry data")
	}
}

func TestSession_SupersedeDiscardsStaleOutcome(t *testing.T) {
	release := make(chan struct{})
	terminal := make(chan State, 4)

	analyze := func(_ context.Context, url, _ string) (*models.AnalysisResult, error) {
		if url == "https://example.com/slow" {
			<-release
			return nil, models.NewAnalysisError(models.ErrCodeExtractionFailed, "slow run failed", nil)
		}
		return entityResult(), nil
	}
	s := New("s1", analyze, time.Minute, func(state State) { terminal <- state })

	s.Analyze("https://example.com/slow", "")
	s.Analyze("https://example.com/fast", "")
	waitFor(t, func() bool { return s.State().Status == StatusComplete })

	// Let the superseded run finish; its outcome must be discarded.
	close(release)
	time.Sleep(50 * time.Millisecond)

	state := s.State()
	if state.Status != StatusComplete {
		t.Errorf("status = %s, stale failure overwrote newer result", state.Status)
	}
	if state.Error != "" {
		t.Errorf("stale error leaked into state: %q", state.Error)
	}
	if state.Data == nil {
		t.Error("newer result lost")
	}

	if got := len(terminal); got != 1 {
		t.Errorf("terminal hook fired %d times, want 1 (stale run must not notify)", got)
	}
}

func TestSession_RestartClearsState(t *testing.T) {
	block := make(chan struct{})
	analyze := func(_ context.Context, url, _ string) (*models.AnalysisResult, error) {
		if url == "https://example.com/second" {
			<-block
		}
		return entityResult(), nil
	}
	s := New("s1", analyze, time.Minute, nil)

	s.Analyze("https://example.com/first", "")
	waitFor(t, func() bool { return s.State().Status == StatusComplete })

	s.Analyze("https://example.com/second", "")
	state := s.State()
	if state.Status != StatusAnalyzing {
		t.Errorf("status after restart = %s, want analyzing", state.Status)
	}
	if state.Data != nil || state.Error != "" || len(state.Logs) != 0 {
		t.Errorf("restart must clear data, error, and logs: %+v", state)
	}
	close(block)
}

func TestSession_ProgressNotices(t *testing.T) {
	done := make(chan struct{})
	analyze := func(context.Context, string, string) (*models.AnalysisResult, error) {
		<-done
		return entityResult(), nil
	}
	s := New("s1", analyze, 5*time.Millisecond, nil)

	s.Analyze("https://example.com", "")
	waitFor(t, func() bool { return len(s.State().Logs) >= 2 })

	logs := s.State().Logs
	if logs[0] != progressPhases[0] {
		t.Errorf("first notice = %q, want %q", logs[0], progressPhases[0])
	}

	close(done)
	waitFor(t, func() bool { return s.State().Status == StatusComplete })

	// No notices may be appended after the terminal transition.
	after := len(s.State().Logs)
	time.Sleep(30 * time.Millisecond)
	if got := len(s.State().Logs); got != after {
		t.Errorf("notices kept flowing after terminal state: %d -> %d", after, got)
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	st := NewStore(func(id string) *Session {
		return New(id, func(context.Context, string, string) (*models.AnalysisResult, error) {
			return entityResult(), nil
		}, time.Minute, nil)
	}, time.Hour)

	s := st.Create()
	if s.ID() == "" {
		t.Fatal("session id missing")
	}

	got, ok := st.Get(s.ID())
	if !ok || got != s {
		t.Error("Get should return the created session")
	}
	if _, ok := st.Get("nope"); ok {
		t.Error("unknown id should miss")
	}
}
