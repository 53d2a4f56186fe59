package scene

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/gpumark/internal/gpu"
	"github.com/gogpu/gpumark/internal/shadersrc"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	if diff := cmp.Diff([]string{"loop"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	s, err := r.New("loop", nil)
	if err != nil {
		t.Fatalf("New(loop) failed: %v", err)
	}
	if s.Name() != "loop" {
		t.Errorf("Name() = %q, want loop", s.Name())
	}
	if _, ok := s.(*Loop); !ok {
		t.Errorf("New(loop) returned %T, want *Loop", s)
	}
}

func TestRegistryUnknown(t *testing.T) {
	r := DefaultRegistry()
	if _, err := r.New("shading", nil); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("New(shading) error = %v, want ErrUnknownScene", err)
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	if len(r.Names()) != 0 {
		t.Fatalf("NewRegistry() has scenes: %v", r.Names())
	}

	var gotLoader *shadersrc.Loader
	r.Register("clear", func(c *gpu.Canvas, l *shadersrc.Loader) Scene {
		gotLoader = l
		b := NewBase(c, "clear")
		return &b
	})

	custom := &shadersrc.Loader{FS: fstest.MapFS{}}
	r.SetLoader(custom)
	if _, err := r.New("clear", nil); err != nil {
		t.Fatalf("New(clear) failed: %v", err)
	}
	if gotLoader != custom {
		t.Error("constructor did not receive the registry loader")
	}

	r.SetLoader(nil)
	if _, err := r.New("clear", nil); err != nil {
		t.Fatalf("New(clear) failed: %v", err)
	}
	if gotLoader == nil || gotLoader == custom {
		t.Error("SetLoader(nil) did not restore the embedded loader")
	}
}
