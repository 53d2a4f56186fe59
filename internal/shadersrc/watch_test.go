package shadersrc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestWatchReportsTemplateChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	changed := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, func(name string) { changed <- name })
	}()

	// The watcher may not be registered yet; keep writing until it reports.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()

	var got string
wait:
	for {
		select {
		case got = <-changed:
			break wait
		case <-tick.C:
			if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(dir, "loop_vertex.wgsl"), []byte("$MAIN$"), 0o600); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			cancel()
			t.Fatal("no change reported")
		}
	}
	if got != "loop_vertex.wgsl" {
		t.Errorf("reported %q, want loop_vertex.wgsl", got)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Watch() error = %v, want context.Canceled", err)
	}
}

func TestWatchMissingDir(t *testing.T) {
	defer goleak.VerifyNone(t)

	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), func(string) {})
	if err == nil {
		t.Error("Watch() of a missing directory returned nil error")
	}
}
