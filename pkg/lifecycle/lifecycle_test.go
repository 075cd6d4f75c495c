package lifecycle_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/stagehand/pkg/lifecycle"
)

func TestWaitForStartupMarksReady(t *testing.T) {
	lc := lifecycle.New()

	var ran atomic.Int32
	for range 3 {
		lc.OnStartup(func() { ran.Add(1) })
	}

	if lc.Ready() {
		t.Fatal("coordinator ready before WaitForStartup")
	}

	lc.WaitForStartup()

	if got := ran.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
	if !lc.Ready() {
		t.Error("coordinator not ready after WaitForStartup")
	}
}

func TestShutdownRunsHooks(t *testing.T) {
	lc := lifecycle.New()

	var closed atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Done()
		closed.Store(true)
	})

	lc.WaitForStartup()
	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !closed.Load() {
		t.Error("shutdown hook did not run")
	}
	if lc.Ready() {
		t.Error("coordinator still ready after shutdown")
	}
	if lc.Context().Err() == nil {
		t.Error("context not cancelled")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	defer close(release)

	lc.OnShutdown(func() {
		<-release
	})

	err := lc.Shutdown(10 * time.Millisecond)
	if !errors.Is(err, lifecycle.ErrShutdownTimeout) {
		t.Errorf("Shutdown() error = %v, want ErrShutdownTimeout", err)
	}
}
