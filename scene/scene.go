// Package scene provides the benchmark scenes and the option and timing
// machinery they share.
//
// A scene is driven by the benchmark runner through a fixed lifecycle:
//
//	s.Options().Reset()
//	s.Options().Set("vertex-steps", "10")
//	s.Load()
//	s.Setup()
//	for s.Running() {
//	    f, _ := canvas.Begin()
//	    s.Draw(f)
//	    canvas.End()
//	    s.Update()
//	}
//	s.Validate()
//	s.Teardown()
//	s.Unload()
//
// Every scene embeds [Base], which declares the common options (duration and
// shader precision), counts frames and stops the scene once the configured
// duration has elapsed.
package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gpumark"
	"github.com/gogpu/gpumark/internal/gpu"
	"github.com/gogpu/gpumark/internal/shadersrc"
)

// Common option names declared by Base.
const (
	OptDuration          = "duration"
	OptVertexPrecision   = "vertex-precision"
	OptFragmentPrecision = "fragment-precision"
)

const defaultPrecision = "default,default,default,default"

// ValidationResult is the outcome of Scene.Validate.
type ValidationResult int

const (
	// ValidationUnknown means the scene does not validate its output.
	ValidationUnknown ValidationResult = iota
	// ValidationSuccess means the rendered output matched expectations.
	ValidationSuccess
	// ValidationFailure means the rendered output did not match.
	ValidationFailure
)

// String returns the result as printed in benchmark reports.
func (v ValidationResult) String() string {
	switch v {
	case ValidationSuccess:
		return "Success"
	case ValidationFailure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// Scene is a benchmark scene.
type Scene interface {
	// Name returns the registry name of the scene.
	Name() string

	// Options returns the mutable option set of the scene.
	Options() *Options

	// Load acquires resources that survive option changes.
	Load() error

	// Unload releases what Load acquired.
	Unload()

	// Setup applies the current options and prepares the scene to run.
	// The scene is running after a successful Setup.
	Setup() error

	// Teardown releases what Setup acquired.
	Teardown()

	// Update advances the animation and the frame statistics.
	Update()

	// Draw records the scene into the frame.
	Draw(f *gpu.Frame)

	// Validate checks the last rendered frame.
	Validate() ValidationResult

	// Running reports whether the scene still has frames to render.
	Running() bool

	// AverageFPS returns the average frame rate of the last run.
	AverageFPS() float64

	// InfoString returns "[name] title " where an empty title is replaced
	// by the option title.
	InfoString(title string, showAll bool) string
}

// Base implements the parts of Scene common to every scene.
// Scenes embed it and override the lifecycle methods they need.
type Base struct {
	name    string
	canvas  *gpu.Canvas
	options Options

	// Now returns the current time. Tests replace it with a fake clock.
	Now func() time.Time

	duration          time.Duration
	vertexPrecision   shadersrc.Precision
	fragmentPrecision shadersrc.Precision

	startTime      time.Time
	lastUpdateTime time.Time
	currentFrame   int
	averageFPS     float64
	running        bool
}

// NewBase returns a Base for the named scene rendering into canvas, with the
// common options declared.
func NewBase(canvas *gpu.Canvas, name string) Base {
	b := Base{name: name, canvas: canvas, Now: time.Now}
	b.options.Add(OptDuration, "10.0",
		"The duration of each benchmark in seconds")
	b.options.Add(OptVertexPrecision, defaultPrecision,
		`The precision values for the vertex shader ("int,float,sampler2d,samplercube")`)
	b.options.Add(OptFragmentPrecision, defaultPrecision,
		`The precision values for the fragment shader ("int,float,sampler2d,samplercube")`)
	return b
}

// Name returns the scene name.
func (b *Base) Name() string { return b.name }

// Options returns the option set.
func (b *Base) Options() *Options { return &b.options }

// Canvas returns the canvas the scene renders into.
func (b *Base) Canvas() *gpu.Canvas { return b.canvas }

// Load does nothing.
func (b *Base) Load() error { return nil }

// Unload does nothing.
func (b *Base) Unload() {}

// Setup parses the duration and precision options and clears the frame
// statistics. It does not start the scene; see Start.
func (b *Base) Setup() error {
	secs, err := b.options.Float(OptDuration)
	if err != nil {
		return err
	}
	if secs < 0 {
		return fmt.Errorf("%w: %s=%q", ErrInvalidOption, OptDuration, b.options.Value(OptDuration))
	}
	b.duration = time.Duration(secs * float64(time.Second))

	if b.vertexPrecision, err = shadersrc.ParsePrecision(b.options.Value(OptVertexPrecision)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidOption, OptVertexPrecision, err)
	}
	if b.fragmentPrecision, err = shadersrc.ParsePrecision(b.options.Value(OptFragmentPrecision)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidOption, OptFragmentPrecision, err)
	}

	b.currentFrame = 0
	b.averageFPS = 0
	b.running = false
	return nil
}

// Start marks the scene as running and records the start time.
func (b *Base) Start() {
	b.running = true
	b.startTime = b.Now()
	b.lastUpdateTime = b.startTime
}

// Teardown stops the scene.
func (b *Base) Teardown() { b.running = false }

// Update advances the frame statistics.
func (b *Base) Update() { b.tick() }

// tick counts one frame and returns the seconds since the previous tick.
// Once the duration has elapsed it computes the average frame rate and
// stops the scene.
func (b *Base) tick() float64 {
	now := b.Now()
	dt := now.Sub(b.lastUpdateTime).Seconds()
	elapsed := now.Sub(b.startTime)
	b.lastUpdateTime = now

	if b.running && elapsed >= b.duration {
		if elapsed > 0 {
			b.averageFPS = float64(b.currentFrame) / elapsed.Seconds()
		}
		b.running = false
		gpumark.Logger().Debug("scene: finished",
			"scene", b.name,
			"frames", b.currentFrame,
			"elapsed", elapsed,
			"fps", b.averageFPS)
	}
	b.currentFrame++
	return dt
}

// Draw does nothing.
func (b *Base) Draw(*gpu.Frame) {}

// Validate returns ValidationUnknown.
func (b *Base) Validate() ValidationResult { return ValidationUnknown }

// Running reports whether the scene is running.
func (b *Base) Running() bool { return b.running }

// AverageFPS returns the average frame rate of the last completed run.
func (b *Base) AverageFPS() float64 { return b.averageFPS }

// Frames returns the number of frames counted since Setup.
func (b *Base) Frames() int { return b.currentFrame }

// Duration returns the parsed run duration.
func (b *Base) Duration() time.Duration { return b.duration }

// VertexPrecision returns the parsed vertex-precision option.
func (b *Base) VertexPrecision() shadersrc.Precision { return b.vertexPrecision }

// FragmentPrecision returns the parsed fragment-precision option.
func (b *Base) FragmentPrecision() shadersrc.Precision { return b.fragmentPrecision }

// InfoString returns "[name] title ". An empty title is replaced by the
// option title.
func (b *Base) InfoString(title string, showAll bool) string {
	if title == "" {
		title = b.options.Title(showAll)
	}
	return "[" + b.name + "] " + title + " "
}

// PixelDistance returns the Euclidean distance between two colors over
// their RGB channels, and alpha too when useAlpha is set.
func PixelDistance(p1, p2 gpu.Pixel, useAlpha bool) float64 {
	sq := func(a, b uint8) int {
		d := int(a) - int(b)
		return d * d
	}
	s := sq(p1.R, p2.R) + sq(p1.G, p2.G) + sq(p1.B, p2.B)
	if useAlpha {
		s += sq(p1.A, p2.A)
	}
	return math.Sqrt(float64(s))
}
