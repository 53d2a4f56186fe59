// Command gpumark runs GPU benchmarks offscreen and prints their frame rates.
//
// Usage:
//
//	gpumark run -b loop:vertex-steps=10 -b loop:fragment-loop=false
//	gpumark run --suite suite.yaml --duration 5
//	gpumark list
//	gpumark shader loop:vertex-loop=false:vertex-steps=3 --glsl
//	gpumark shader --check
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gogpu/gpumark"
	"github.com/gogpu/gpumark/gpu"
	"github.com/gogpu/gpumark/internal/shadersrc"
	"github.com/gogpu/gpumark/scene"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	debug    bool
	dataPath string
	size     string
	backend  string
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "gpumark",
		Short: "gpumark - offscreen GPU benchmark suite",
		Long: `gpumark renders synthetic scenes offscreen through gogpu/wgpu and reports
the frame rate the GPU sustains for each of them.

Benchmarks are described as scene[:option=value]*, for example
"loop:vertex-steps=10:fragment-loop=false".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if g.debug {
				level = slog.LevelDebug
			}
			gpumark.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			})))
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&g.dataPath, "data-path", "", "Directory with shader templates (default: built-in)")
	root.PersistentFlags().StringVar(&g.size, "size", "800x600", "Canvas size as WxH")
	root.PersistentFlags().StringVar(&g.backend, "backend", gpu.BackendVulkan, "GPU backend (vulkan, noop)")

	root.AddCommand(newRunCmd(g))
	root.AddCommand(newListCmd())
	root.AddCommand(newShaderCmd(g))
	return root
}

// loader returns the template loader selected by --data-path.
func (g *globalFlags) loader() *shadersrc.Loader {
	if g.dataPath == "" {
		return shadersrc.DefaultLoader()
	}
	return shadersrc.DirLoader(g.dataPath)
}

// registry returns the scene registry reading templates from the loader.
func (g *globalFlags) registry() *scene.Registry {
	reg := scene.DefaultRegistry()
	reg.SetLoader(g.loader())
	return reg
}

// canvasConfig parses --size and --backend.
func (g *globalFlags) canvasConfig() (gpu.Config, error) {
	w, h, err := parseSize(g.size)
	if err != nil {
		return gpu.Config{}, err
	}
	return gpu.Config{Width: w, Height: h, Backend: g.backend}, nil
}

// parseSize parses "WxH".
func parseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH", s)
	}
	w, err = strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	h, err = strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return w, h, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
