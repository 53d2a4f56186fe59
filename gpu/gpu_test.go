package gpu

import (
	"errors"
	"testing"

	gpuimpl "github.com/gogpu/gpumark/internal/gpu"
)

func TestOpenNoop(t *testing.T) {
	c, err := Open(Config{Width: 16, Height: 8, Backend: BackendNoop})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer c.Close()

	if c.Width() != 16 || c.Height() != 8 {
		t.Errorf("size = %dx%d, want 16x8", c.Width(), c.Height())
	}
	f, err := c.Begin()
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	if f.Pass() == nil {
		t.Error("frame has no pass")
	}
	if err := c.End(); err != nil {
		t.Fatalf("End() failed: %v", err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(Config{Backend: "metal2"}); !errors.Is(err, gpuimpl.ErrUnknownBackend) {
		t.Errorf("Open() error = %v, want ErrUnknownBackend", err)
	}
}

func TestOpenSharedRejectsNonProvider(t *testing.T) {
	if _, err := OpenShared(struct{}{}, 10, 10); err == nil {
		t.Error("OpenShared() accepted a value that is not a device provider")
	}
	if _, err := OpenShared(nil, 10, 10); err == nil {
		t.Error("OpenShared(nil) returned nil error")
	}
}
