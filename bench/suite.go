package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/gpumark/internal/gpu"
	"github.com/gogpu/gpumark/scene"
)

// Suite is a list of benchmarks with shared option defaults, read from
// YAML:
//
//	defaults:
//	  duration: "5.0"
//	benchmarks:
//	  - loop:vertex-steps=5:fragment-steps=5:fragment-loop=false
//	  - loop:fragment-uniform=false
//
// or TOML:
//
//	benchmarks = ["loop:vertex-steps=5", "loop:fragment-uniform=false"]
//
//	[defaults]
//	duration = "5.0"
type Suite struct {
	Defaults   map[string]string `yaml:"defaults" toml:"defaults"`
	Benchmarks []string          `yaml:"benchmarks" toml:"benchmarks"`
}

// SuiteFormat selects the encoding of a suite file.
type SuiteFormat int

const (
	SuiteYAML SuiteFormat = iota
	SuiteTOML
)

// SuiteFormatFor returns the format for path by extension. Anything other
// than .toml is read as YAML.
func SuiteFormatFor(path string) SuiteFormat {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return SuiteTOML
	}
	return SuiteYAML
}

// DefaultSuite returns the benchmarks run when none are requested.
func DefaultSuite() *Suite {
	return &Suite{
		Benchmarks: []string{
			"loop:vertex-steps=5:fragment-steps=5:fragment-loop=false",
			"loop:vertex-steps=5:fragment-steps=5:fragment-uniform=false",
			"loop:vertex-steps=5:fragment-steps=5:fragment-uniform=true",
		},
	}
}

// LoadSuite reads a suite file, YAML or TOML by extension.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite: %w", err)
	}
	return ParseSuiteFormat(data, SuiteFormatFor(path))
}

// ParseSuite decodes a YAML suite.
func ParseSuite(data []byte) (*Suite, error) {
	return ParseSuiteFormat(data, SuiteYAML)
}

// ParseSuiteFormat decodes a suite in the given format. Entries starting
// with ':' are merged into Defaults rather than run.
func ParseSuiteFormat(data []byte, format SuiteFormat) (*Suite, error) {
	var raw Suite
	var err error
	switch format {
	case SuiteTOML:
		err = toml.Unmarshal(data, &raw)
	default:
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse suite: %w", err)
	}

	s := &Suite{Defaults: make(map[string]string, len(raw.Defaults))}
	for k, v := range raw.Defaults {
		s.Defaults[k] = v
	}
	for _, desc := range raw.Benchmarks {
		if IsDefaults(desc) {
			if err := MergeDefaults(s.Defaults, desc); err != nil {
				return nil, err
			}
			continue
		}
		if _, _, err := ParseDescription(desc); err != nil {
			return nil, err
		}
		s.Benchmarks = append(s.Benchmarks, desc)
	}
	return s, nil
}

// Build creates the suite's benchmarks.
func (s *Suite) Build(reg *scene.Registry, canvas *gpu.Canvas) ([]*Benchmark, error) {
	benchmarks := make([]*Benchmark, 0, len(s.Benchmarks))
	for _, desc := range s.Benchmarks {
		b, err := New(reg, canvas, desc)
		if err != nil {
			return nil, err
		}
		benchmarks = append(benchmarks, b)
	}
	return benchmarks, nil
}
