package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// execute runs the command tree with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"800x600", 800, 600, false},
		{"1920X1080", 1920, 1080, false},
		{"64x64", 64, 64, false},
		{"800", 0, 0, true},
		{"0x600", 0, 0, true},
		{"800x-1", 0, 0, true},
		{"axb", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && (w != tt.w || h != tt.h) {
				t.Errorf("parseSize(%q) = %dx%d, want %dx%d", tt.in, w, h, tt.w, tt.h)
			}
		})
	}
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{
		"[Scene] loop",
		"[Option] vertex-steps",
		"[Option] fragment-uniform",
		"[Option] grid-size",
		"Default Value: 10.0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q", want)
		}
	}
}

func TestShaderCommand(t *testing.T) {
	out, err := execute(t, "shader", "loop:vertex-loop=false:vertex-steps=3:fragment-uniform=false:fragment-steps=7")
	if err != nil {
		t.Fatalf("shader failed: %v", err)
	}

	vtx, frg, ok := strings.Cut(out, "// ---- loop_fragment.wgsl ----")
	if !ok {
		t.Fatalf("output has no fragment section:\n%s", out)
	}
	if n := strings.Count(vtx, "d = fract(3.0 * d);"); n != 3 {
		t.Errorf("vertex shader has %d steps, want 3", n)
	}
	if !strings.Contains(frg, "i < 7") {
		t.Error("fragment loop not bounded by the constant 7")
	}
	if strings.Contains(out, "$MAIN$") || strings.Contains(out, "$NLOOPS$") {
		t.Error("placeholders left in output")
	}
}

func TestShaderCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown scene", []string{"shader", "terrain"}},
		{"unknown option", []string{"shader", "loop:vertex-count=3"}},
		{"bad steps", []string{"shader", "loop:vertex-steps=-2"}},
		{"missing templates", []string{"--data-path", "/nonexistent/gpumark", "shader"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("command returned nil error")
			}
		})
	}
}

func TestShaderCommandDataPath(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"loop_vertex.wgsl":      "// custom vertex\n$MAIN$",
		"loop_fragment.wgsl":    "// custom fragment\n$MAIN$",
		"loop_step_simple.wgsl": "step;\n",
		"loop_step_loop.wgsl":   "loop($NLOOPS$);\n",
	}
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execute(t, "--data-path", dir, "shader", "loop:vertex-loop=false:vertex-steps=2")
	if err != nil {
		t.Fatalf("shader failed: %v", err)
	}
	want := "// ---- loop_vertex.wgsl ----\n// custom vertex\nstep;\nstep;\n\n" +
		"// ---- loop_fragment.wgsl ----\n// custom fragment\nloop(params.fragment_loops);\n\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestShaderWatch(t *testing.T) {
	if _, err := execute(t, "shader", "--watch"); err == nil {
		t.Error("--watch without --data-path returned nil error")
	}

	dir := t.TempDir()
	for name, src := range map[string]string{
		"loop_vertex.wgsl":      "$MAIN$",
		"loop_fragment.wgsl":    "$MAIN$",
		"loop_step_simple.wgsl": "s;\n",
		"loop_step_loop.wgsl":   "l($NLOOPS$);\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	// A cancelled context stops the watch after the first run.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--data-path", dir, "shader", "--watch"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("shader --watch failed: %v", err)
	}
	if !strings.Contains(out.String(), "// ---- loop_vertex.wgsl ----") {
		t.Errorf("first run not printed:\n%s", out.String())
	}
}

func TestShaderCheck(t *testing.T) {
	out, err := execute(t, "shader", "--check", "loop:vertex-steps=2:fragment-steps=4")
	if err != nil {
		t.Fatalf("shader --check failed: %v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d result lines, want 6:\n%s", len(lines), out)
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, " ok") {
			t.Errorf("variant failed: %s", line)
		}
	}
}

func TestBuildSuite(t *testing.T) {
	s, err := buildSuite(&runFlags{
		benchmarks: []string{":grid-size=8", "loop:vertex-steps=2", "loop"},
		duration:   0.25,
	})
	if err != nil {
		t.Fatalf("buildSuite() failed: %v", err)
	}
	if diff := cmp.Diff([]string{"loop:vertex-steps=2", "loop"}, s.Benchmarks); diff != "" {
		t.Errorf("benchmarks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"grid-size": "8", "duration": "0.25"}, s.Defaults); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}

	s, err = buildSuite(&runFlags{})
	if err != nil {
		t.Fatalf("buildSuite() failed: %v", err)
	}
	if len(s.Benchmarks) != 3 {
		t.Errorf("default suite has %d benchmarks, want 3", len(s.Benchmarks))
	}

	if _, err := buildSuite(&runFlags{benchmarks: []string{"loop:steps"}}); err == nil {
		t.Error("buildSuite() accepted a malformed description")
	}
}

func TestRunCommandNoop(t *testing.T) {
	out, err := execute(t,
		"--backend", "noop", "--size", "32x32",
		"run", "--duration", "0.05",
		"-b", ":grid-size=2",
		"-b", "loop:vertex-steps=2:fragment-loop=false")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	for _, want := range []string{
		"Backend:  noop",
		"[loop] fragment-loop=false:vertex-steps=2: FPS: ",
		"gpumark Score: ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q:\n%s", want, out)
		}
	}
}

func TestRunCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad size", []string{"--backend", "noop", "--size", "big", "run", "-b", "loop"}},
		{"bad backend", []string{"--backend", "glide", "run", "-b", "loop"}},
		{"unknown scene", []string{"--backend", "noop", "run", "-b", "terrain"}},
		{"missing suite", []string{"--backend", "noop", "run", "--suite", "/nonexistent/suite.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("command returned nil error")
			}
		})
	}
}
