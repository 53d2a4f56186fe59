package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gogpu/gpumark"
	"github.com/gogpu/gpumark/bench"
	"github.com/gogpu/gpumark/gpu"
)

type runFlags struct {
	benchmarks     []string
	suite          string
	duration       float64
	showAllOptions bool
	validate       bool
	screenshots    string
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run benchmarks",
		Long: `Run benchmarks one after another and print the frame rate of each.

Without -b or --suite the default suite is run. A benchmark with an empty
scene name, such as ":duration=2.0", sets option defaults for all others.`,
		Example: `  gpumark run -b loop:vertex-steps=10
  gpumark run -b :duration=2 -b loop -b loop:fragment-uniform=false
  gpumark run --suite suite.yaml --validate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmarks(cmd, g, f)
		},
	}

	cmd.Flags().StringArrayVarP(&f.benchmarks, "benchmark", "b", nil, "Benchmark description (repeatable)")
	cmd.Flags().StringVar(&f.suite, "suite", "", "Suite file (.yaml or .toml)")
	cmd.Flags().Float64Var(&f.duration, "duration", 0, "Override the duration of every benchmark in seconds")
	cmd.Flags().BoolVar(&f.showAllOptions, "show-all-options", false, "Show all scene options in titles")
	cmd.Flags().BoolVar(&f.validate, "validate", false, "Validate the last frame of each benchmark")
	cmd.Flags().StringVar(&f.screenshots, "screenshot", "", "Directory to save the last frame of each benchmark as BMP")
	return cmd
}

// buildSuite combines --suite, -b and --duration into one suite.
func buildSuite(f *runFlags) (*bench.Suite, error) {
	s := &bench.Suite{Defaults: map[string]string{}}
	if f.suite != "" {
		loaded, err := bench.LoadSuite(f.suite)
		if err != nil {
			return nil, err
		}
		s = loaded
	}

	for _, desc := range f.benchmarks {
		if bench.IsDefaults(desc) {
			if err := bench.MergeDefaults(s.Defaults, desc); err != nil {
				return nil, err
			}
			continue
		}
		if _, _, err := bench.ParseDescription(desc); err != nil {
			return nil, err
		}
		s.Benchmarks = append(s.Benchmarks, desc)
	}

	if len(s.Benchmarks) == 0 {
		s.Benchmarks = bench.DefaultSuite().Benchmarks
	}
	if f.duration > 0 {
		s.Defaults["duration"] = strconv.FormatFloat(f.duration, 'f', -1, 64)
	}
	return s, nil
}

func runBenchmarks(cmd *cobra.Command, g *globalFlags, f *runFlags) error {
	s, err := buildSuite(f)
	if err != nil {
		return err
	}
	cfg, err := g.canvasConfig()
	if err != nil {
		return err
	}

	canvas, err := gpu.Open(cfg)
	if err != nil {
		return fmt.Errorf("open canvas: %w", err)
	}
	defer canvas.Close()

	benchmarks, err := s.Build(g.registry(), canvas)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=======================================================")
	fmt.Fprintf(out, "    gpumark %s\n", gpumark.Version)
	fmt.Fprintln(out, "=======================================================")
	fmt.Fprintf(out, "    Adapter:  %s\n", canvas.Adapter().Name)
	fmt.Fprintf(out, "    Backend:  %s\n", cfg.Backend)
	fmt.Fprintf(out, "    Surface:  %dx%d offscreen\n", canvas.Width(), canvas.Height())
	fmt.Fprintln(out, "=======================================================")

	r := &bench.Runner{
		Canvas:         canvas,
		Out:            out,
		Validate:       f.validate,
		ShowAllOptions: f.showAllOptions,
		Defaults:       s.Defaults,
		ScreenshotDir:  f.screenshots,
	}
	report, err := r.Run(cmd.Context(), benchmarks)
	report.WriteScore(out, nil)
	if err != nil {
		return err
	}
	if n := report.Failed(); n > 0 {
		return errors.New(strconv.Itoa(n) + " benchmark(s) failed")
	}
	return nil
}
