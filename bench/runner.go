package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/gpumark"
	"github.com/gogpu/gpumark/internal/gpu"
	"github.com/gogpu/gpumark/scene"
)

// Result is the outcome of one benchmark.
type Result struct {
	Scene      string
	Title      string
	FPS        float64
	FrameTime  time.Duration
	Frames     int
	Validation scene.ValidationResult

	// Err is set when the benchmark could not run. Its FPS is zero.
	Err error
}

// Report collects the results of a run.
type Report struct {
	Results []Result
}

// Score returns the mean frame rate over all benchmarks, failed ones
// counting as zero.
func (r Report) Score() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	var sum float64
	for _, res := range r.Results {
		sum += res.FPS
	}
	return sum / float64(len(r.Results))
}

// Failed returns the number of benchmarks that could not run.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// WriteScore prints the score banner.
func (r Report) WriteScore(w io.Writer, p *message.Printer) {
	if p == nil {
		p = defaultPrinter()
	}
	const rule = "======================================================="
	p.Fprintln(w, rule)
	p.Fprintf(w, "                                  gpumark Score: %d \n", int(r.Score()+0.5))
	p.Fprintln(w, rule)
}

// Runner renders benchmarks on a canvas one after another.
type Runner struct {
	Canvas *gpu.Canvas

	// Out receives one line per benchmark. Nil discards.
	Out io.Writer

	// Printer formats the output; nil uses English number formatting.
	Printer *message.Printer

	// Validate checks the last frame of each benchmark.
	Validate bool

	// ShowAllOptions lists every option in titles, not only the set ones.
	ShowAllOptions bool

	// Defaults are option defaults applied to every scene that declares them.
	Defaults map[string]string

	// ScreenshotDir, when not empty, receives a BMP of the last frame of
	// each benchmark.
	ScreenshotDir string
}

func defaultPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// Run runs the benchmarks in order. A benchmark that fails to set up is
// reported and the run continues. Cancelling ctx stops the current
// benchmark and returns the results so far with ctx.Err().
func (r *Runner) Run(ctx context.Context, benchmarks []*Benchmark) (Report, error) {
	var report Report
	if r.Canvas == nil {
		return report, errors.New("bench: runner has no canvas")
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	p := r.Printer
	if p == nil {
		p = defaultPrinter()
	}

	for i, b := range benchmarks {
		res, err := r.runOne(ctx, i, b)
		report.Results = append(report.Results, res)
		r.printResult(out, p, res)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// runOne returns a non-nil error only when the run must stop.
func (r *Runner) runOne(ctx context.Context, index int, b *Benchmark) (Result, error) {
	log := gpumark.Logger()
	res := Result{Scene: b.Scene.Name()}

	if err := b.Setup(r.Defaults); err != nil {
		res.Title = b.Scene.InfoString("", r.ShowAllOptions)
		res.Err = err
		log.Warn("bench: setup failed", "benchmark", b.Description, "err", err)
		return res, nil
	}
	res.Title = b.Scene.InfoString("", r.ShowAllOptions)
	defer b.Teardown()

	frames := 0
	for b.Scene.Running() {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res, err
		}
		f, err := r.Canvas.Begin()
		if err != nil {
			res.Err = err
			return res, fmt.Errorf("begin frame: %w", err)
		}
		b.Scene.Draw(f)
		if err := r.Canvas.End(); err != nil {
			res.Err = err
			return res, fmt.Errorf("end frame: %w", err)
		}
		b.Scene.Update()
		frames++
	}

	res.Frames = frames
	res.FPS = b.Scene.AverageFPS()
	if res.FPS > 0 {
		res.FrameTime = time.Duration(float64(time.Second) / res.FPS)
	}
	if r.Validate {
		res.Validation = b.Scene.Validate()
	}
	if r.ScreenshotDir != "" {
		path := filepath.Join(r.ScreenshotDir, fmt.Sprintf("%02d-%s.bmp", index, res.Scene))
		if err := SaveScreenshot(r.Canvas, path); err != nil {
			log.Warn("bench: screenshot failed", "path", path, "err", err)
		}
	}

	log.Info("bench: finished",
		"benchmark", b.Description,
		"fps", res.FPS,
		"frames", frames)
	return res, nil
}

func (r *Runner) printResult(w io.Writer, p *message.Printer, res Result) {
	switch {
	case res.Err != nil:
		p.Fprintf(w, "%sFailed: %v\n", res.Title, res.Err)
	case r.Validate:
		p.Fprintf(w, "%sFPS: %d FrameTime: %.3f ms Validation: %s\n",
			res.Title, int(res.FPS+0.5), frameTimeMS(res.FrameTime), res.Validation)
	default:
		p.Fprintf(w, "%sFPS: %d FrameTime: %.3f ms\n",
			res.Title, int(res.FPS+0.5), frameTimeMS(res.FrameTime))
	}
}

func frameTimeMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
