package bench

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpumark"
	"github.com/gogpu/gpumark/internal/gpu"
	"github.com/gogpu/gpumark/scene"
)

// Benchmark is a scene together with the options it runs with.
type Benchmark struct {
	Description string
	Scene       scene.Scene
	Options     []OptionValue
}

// New parses desc and creates its scene from reg.
func New(reg *scene.Registry, canvas *gpu.Canvas, desc string) (*Benchmark, error) {
	name, opts, err := ParseDescription(desc)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("bench: %q has no scene name", desc)
	}
	s, err := reg.New(name, canvas)
	if err != nil {
		return nil, err
	}
	return &Benchmark{Description: desc, Scene: s, Options: opts}, nil
}

// Setup applies defaults and then the benchmark options to the scene, loads
// it and sets it up. Options the scene does not declare are logged and
// skipped.
func (b *Benchmark) Setup(defaults map[string]string) error {
	opts := b.Scene.Options()
	for name, value := range defaults {
		// Defaults are shared by all scenes; each takes what it declares.
		_ = opts.SetDefault(name, value)
	}
	opts.Reset()

	for _, o := range b.Options {
		if err := opts.Set(o.Name, o.Value); err != nil {
			if errors.Is(err, scene.ErrUnknownOption) {
				gpumark.Logger().Warn("bench: scene does not accept option",
					"scene", b.Scene.Name(),
					"option", o.Name)
				continue
			}
			return err
		}
	}

	if err := b.Scene.Load(); err != nil {
		return fmt.Errorf("load %s: %w", b.Scene.Name(), err)
	}
	if err := b.Scene.Setup(); err != nil {
		b.Scene.Unload()
		return fmt.Errorf("setup %s: %w", b.Scene.Name(), err)
	}
	return nil
}

// Teardown tears the scene down and unloads it.
func (b *Benchmark) Teardown() {
	b.Scene.Teardown()
	b.Scene.Unload()
}
