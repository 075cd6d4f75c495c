package sessions_test

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/stagehand/internal/sessions"
	"github.com/JaimeStill/stagehand/internal/stages"
	"github.com/JaimeStill/stagehand/internal/workflow"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegistry(t *testing.T) *stages.Registry {
	t.Helper()
	r, err := stages.New(
		stages.Stage{ID: "intake", Label: "Intake"},
		stages.Stage{ID: "design", Label: "Design", Template: "Design for: {prompt}"},
		stages.Stage{ID: "build", Label: "Build", Template: "Build for: {prompt}"},
	)
	if err != nil {
		t.Fatalf("stages.New() error = %v", err)
	}
	return r
}

func TestStoreCreateAndWith(t *testing.T) {
	store := sessions.NewStore(testRegistry(t), time.Hour, discard())
	id := store.Create()

	if !store.Exists(id) {
		t.Fatal("created session should exist")
	}

	err := store.With(id, func(s *workflow.Session) error {
		if s.CurrentStage().ID != "intake" {
			t.Errorf("new session stage: got %s, want intake", s.CurrentStage().ID)
		}
		return s.StartIntake("key", "Bakery inventory")
	})
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}

	err = store.With(id, func(s *workflow.Session) error {
		if s.CurrentStage().ID != "design" {
			t.Errorf("state not retained: stage %s", s.CurrentStage().ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}
}

func TestStoreUnknownSession(t *testing.T) {
	store := sessions.NewStore(testRegistry(t), time.Hour, discard())

	called := false
	err := store.With(uuid.New(), func(*workflow.Session) error {
		called = true
		return nil
	})

	if !errors.Is(err, sessions.ErrSessionNotFound) {
		t.Errorf("With() error = %v, want ErrSessionNotFound", err)
	}
	if called {
		t.Error("fn should not run for an unknown session")
	}
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	store := sessions.NewStore(testRegistry(t), time.Hour, discard())
	a := store.Create()
	b := store.Create()

	if err := store.With(a, func(s *workflow.Session) error {
		return s.StartIntake("key", "first project")
	}); err != nil {
		t.Fatal(err)
	}

	store.With(b, func(s *workflow.Session) error {
		if s.ProjectDescription() != "" || s.CurrentStage().ID != "intake" {
			t.Error("second session should be untouched")
		}
		return nil
	})
}

func TestStoreEvictsIdleSessions(t *testing.T) {
	store := sessions.NewStore(testRegistry(t), 30*time.Minute, discard())

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sessions.SetClock(store, func() time.Time { return now })

	stale := store.Create()
	now = now.Add(20 * time.Minute)
	fresh := store.Create()

	now = now.Add(15 * time.Minute)

	if store.Exists(stale) {
		t.Error("idle session should be evicted")
	}
	if !store.Exists(fresh) {
		t.Error("active session should be kept")
	}
	if got := store.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestStoreWithRefreshesIdle(t *testing.T) {
	store := sessions.NewStore(testRegistry(t), 30*time.Minute, discard())

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sessions.SetClock(store, func() time.Time { return now })

	id := store.Create()
	now = now.Add(25 * time.Minute)
	store.With(id, func(*workflow.Session) error { return nil })
	now = now.Add(25 * time.Minute)

	if !store.Exists(id) {
		t.Error("session used within the idle window should be kept")
	}
}

func TestStoreRemove(t *testing.T) {
	store := sessions.NewStore(testRegistry(t), time.Hour, discard())
	id := store.Create()

	store.Remove(id)
	store.Remove(id)

	if store.Exists(id) {
		t.Error("removed session should not exist")
	}
}

func TestStoreArchiveOwnership(t *testing.T) {
	store := sessions.NewStore(testRegistry(t), time.Hour, discard())
	owner := store.Create()
	other := store.Create()

	const name = "2026/10/18/0199f0a4-8a1e-7c3b-9d2f-5e6a7b8c9d0e/full_workflow_x.json"
	if err := store.AddArchive(owner, name); err != nil {
		t.Fatalf("AddArchive() error = %v", err)
	}

	if !store.OwnsArchive(owner, name) {
		t.Error("owner should own its archive")
	}
	if store.OwnsArchive(other, name) {
		t.Error("archive leaked to another session")
	}
	if store.OwnsArchive(owner, "2026/10/18/full_workflow_x.json") {
		t.Error("unrecorded name reported as owned")
	}

	if err := store.AddArchive(uuid.New(), name); !errors.Is(err, sessions.ErrSessionNotFound) {
		t.Errorf("AddArchive(unknown) error = %v, want ErrSessionNotFound", err)
	}

	store.Remove(owner)
	if store.OwnsArchive(owner, name) {
		t.Error("removed session still owns its archive")
	}
}

func TestStoreSerializesActions(t *testing.T) {
	store := sessions.NewStore(testRegistry(t), time.Hour, discard())
	id := store.Create()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		running int
		overlap bool
	)

	for range 16 {
		wg.Go(func() {
			store.With(id, func(*workflow.Session) error {
				mu.Lock()
				running++
				if running > 1 {
					overlap = true
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				running--
				mu.Unlock()
				return nil
			})
		})
	}
	wg.Wait()

	if overlap {
		t.Error("actions on one session ran concurrently")
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &sessions.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.CookieName != "stagehand_session" {
			t.Errorf("cookie name: got %s", cfg.CookieName)
		}
		if cfg.IdleTimeoutDuration() != 2*time.Hour {
			t.Errorf("idle timeout: got %s", cfg.IdleTimeoutDuration())
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_SESSION_IDLE", "45m")
		t.Setenv("TEST_SESSION_SECURE", "true")

		cfg := &sessions.Config{}
		env := &sessions.Env{IdleTimeout: "TEST_SESSION_IDLE", SecureCookie: "TEST_SESSION_SECURE"}
		if err := cfg.Finalize(env); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.IdleTimeoutDuration() != 45*time.Minute {
			t.Errorf("idle timeout: got %s", cfg.IdleTimeoutDuration())
		}
		if !cfg.SecureCookie {
			t.Error("secure cookie: got false")
		}
	})

	tests := []struct {
		name string
		cfg  sessions.Config
	}{
		{"bad duration", sessions.Config{IdleTimeout: "soon"}},
		{"negative duration", sessions.Config{IdleTimeout: "-5m"}},
		{"bad cookie name", sessions.Config{CookieName: "bad name;"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
