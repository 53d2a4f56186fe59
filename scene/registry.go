package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/gpumark/internal/gpu"
	"github.com/gogpu/gpumark/internal/shadersrc"
)

// ErrUnknownScene is returned when a scene name is not registered.
var ErrUnknownScene = errors.New("scene: unknown scene")

// Constructor creates a scene rendering into canvas. Scenes that load
// shader templates read them from loader.
type Constructor func(canvas *gpu.Canvas, loader *shadersrc.Loader) Scene

// Registry maps scene names to constructors.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	ctors  map[string]Constructor
	loader *shadersrc.Loader
}

// NewRegistry returns an empty registry using the embedded templates.
func NewRegistry() *Registry {
	return &Registry{
		ctors:  make(map[string]Constructor),
		loader: shadersrc.DefaultLoader(),
	}
}

// DefaultRegistry returns a registry with every built-in scene registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("loop", func(c *gpu.Canvas, l *shadersrc.Loader) Scene { return NewLoop(c, l) })
	return r
}

// Register adds or replaces a scene constructor.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
}

// SetLoader replaces the template loader passed to constructors.
// A nil loader restores the embedded templates.
func (r *Registry) SetLoader(l *shadersrc.Loader) {
	if l == nil {
		l = shadersrc.DefaultLoader()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loader = l
}

// New creates the named scene.
func (r *Registry) New(name string, canvas *gpu.Canvas) (Scene, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	loader := r.loader
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return ctor(canvas, loader), nil
}

// Names returns the registered scene names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
