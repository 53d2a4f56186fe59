package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/gpumark"
	"github.com/gogpu/gpumark/bench"
	"github.com/gogpu/gpumark/internal/shadersrc"
	"github.com/gogpu/gpumark/scene"
)

type shaderFlags struct {
	glsl  bool
	check bool
	watch bool
}

func newShaderCmd(g *globalFlags) *cobra.Command {
	f := &shaderFlags{}

	cmd := &cobra.Command{
		Use:   "shader [benchmark]",
		Short: "Print the shaders a loop benchmark generates",
		Long: `Print the vertex and fragment shaders assembled for a loop benchmark
description (default "loop").

With --glsl the WGSL is translated to GLSL ES 3.00 and the vertex-precision
and fragment-precision options are applied. With --check every combination
of loop and uniform settings is compiled instead. With --watch the output is
regenerated each time a template under --data-path changes, until interrupted.`,
		Example: `  gpumark shader loop:vertex-steps=3:vertex-loop=false
  gpumark shader loop:fragment-precision=high,medium --glsl
  gpumark shader --check
  gpumark --data-path ./shaders shader --check --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc := "loop"
			if len(args) == 1 {
				desc = args[0]
			}
			loop, err := loopFromDescription(g, desc)
			if err != nil {
				return err
			}
			show := func() error {
				if f.check {
					return checkShaders(cmd, g.loader(), loop)
				}
				return printShaders(cmd, g.loader(), loop, f.glsl)
			}
			if !f.watch {
				return show()
			}
			return watchShaders(cmd, g.dataPath, show)
		},
	}

	cmd.Flags().BoolVar(&f.glsl, "glsl", false, "Translate to GLSL ES 3.00")
	cmd.Flags().BoolVar(&f.check, "check", false, "Compile every loop/uniform combination")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "Repeat whenever a template under --data-path changes")
	return cmd
}

// loopFromDescription creates an unbound loop scene with the options of desc
// applied.
func loopFromDescription(g *globalFlags, desc string) (*scene.Loop, error) {
	b, err := bench.New(g.registry(), nil, desc)
	if err != nil {
		return nil, err
	}
	loop, ok := b.Scene.(*scene.Loop)
	if !ok {
		return nil, fmt.Errorf("scene %q has no loop shaders", b.Scene.Name())
	}
	for _, o := range b.Options {
		if err := loop.Options().Set(o.Name, o.Value); err != nil {
			return nil, err
		}
	}
	return loop, nil
}

func printShaders(cmd *cobra.Command, loader *shadersrc.Loader, loop *scene.Loop, glsl bool) error {
	cfg, err := scene.ParseLoopConfig(loop.Options())
	if err != nil {
		return err
	}
	vtx, frg, err := scene.LoopSources(loader, cfg)
	if err != nil {
		return err
	}

	if glsl {
		vp, err := shadersrc.ParsePrecision(loop.Options().Value(scene.OptVertexPrecision))
		if err != nil {
			return fmt.Errorf("%s: %w", scene.OptVertexPrecision, err)
		}
		fp, err := shadersrc.ParsePrecision(loop.Options().Value(scene.OptFragmentPrecision))
		if err != nil {
			return fmt.Errorf("%s: %w", scene.OptFragmentPrecision, err)
		}
		if vtx, err = shadersrc.TranslateGLSL(vtx, vp); err != nil {
			return fmt.Errorf("vertex shader: %w", err)
		}
		if frg, err = shadersrc.TranslateGLSL(frg, fp); err != nil {
			return fmt.Errorf("fragment shader: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "// ---- %s ----\n%s\n", shadersrc.StageVertex.Template(), vtx)
	fmt.Fprintf(out, "// ---- %s ----\n%s\n", shadersrc.StageFragment.Template(), frg)
	return nil
}

// watchShaders runs show once and again after every template change under
// dir until the command context ends. Failures are logged, not returned.
func watchShaders(cmd *cobra.Command, dir string, show func() error) error {
	if dir == "" {
		return errors.New("--watch requires --data-path")
	}
	if err := show(); err != nil {
		gpumark.Logger().Error("shader", "err", err)
	}
	err := shadersrc.Watch(cmd.Context(), dir, func(name string) {
		gpumark.Logger().Info("template changed", "name", name)
		if err := show(); err != nil {
			gpumark.Logger().Error("shader", "err", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// stepVariant is one loop/uniform combination.
type stepVariant struct {
	name    string
	loop    bool
	uniform bool
}

var stepVariants = []stepVariant{
	{"unrolled", false, false},
	{"loop-constant", true, false},
	{"loop-uniform", true, true},
}

// checkShaders compiles every variant of both stages concurrently, using the
// step counts of loop.
func checkShaders(cmd *cobra.Command, loader *shadersrc.Loader, loop *scene.Loop) error {
	base, err := scene.ParseLoopConfig(loop.Options())
	if err != nil {
		return err
	}

	type job struct {
		stage shadersrc.Stage
		v     stepVariant
		steps int
	}
	var jobs []job
	for _, v := range stepVariants {
		jobs = append(jobs,
			job{shadersrc.StageVertex, v, base.Vertex.Steps},
			job{shadersrc.StageFragment, v, base.Fragment.Steps})
	}

	results := make([]error, len(jobs))
	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(4)
	for i, j := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := shadersrc.LoopSource(loader, j.stage, shadersrc.StepConfig{
				Steps:   j.steps,
				Loop:    j.v.loop,
				Uniform: j.v.uniform,
			})
			if err == nil {
				_, err = shadersrc.Compile(src)
			}
			results[i] = err
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	var failed []error
	out := cmd.OutOrStdout()
	for i, j := range jobs {
		status := "ok"
		if results[i] != nil {
			status = "FAILED: " + results[i].Error()
			failed = append(failed, fmt.Errorf("%s %s: %w", j.stage, j.v.name, results[i]))
		}
		fmt.Fprintf(out, "%-8s %-13s steps=%-4d %s\n", j.stage, j.v.name, j.steps, status)
	}
	return errors.Join(failed...)
}
