package shadersrc

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholders recognised in the templates.
const (
	// PlaceholderMain marks where the computational steps are inserted.
	PlaceholderMain = "$MAIN$"

	// PlaceholderLoops is the loop bound inside the loop step fragment.
	PlaceholderLoops = "$NLOOPS$"
)

// Template names shared by both stages.
const (
	StepSimpleTemplate = "loop_step_simple.wgsl"
	StepLoopTemplate   = "loop_step_loop.wgsl"
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota
	// StageFragment is the fragment stage.
	StageFragment
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "Stage(" + strconv.Itoa(int(s)) + ")"
	}
}

// Template returns the base template name of the stage.
func (s Stage) Template() string {
	if s == StageFragment {
		return "loop_fragment.wgsl"
	}
	return "loop_vertex.wgsl"
}

// LoopUniform returns the uniform expression holding the stage's loop count.
// It matches the LoopParams struct declared by both base templates.
func (s Stage) LoopUniform() string {
	if s == StageFragment {
		return "params.fragment_loops"
	}
	return "params.vertex_loops"
}

// EntryPoint returns the entry point function name of the stage template.
func (s Stage) EntryPoint() string {
	if s == StageFragment {
		return "fs_main"
	}
	return "vs_main"
}

// StepConfig selects how the computational steps of one stage are emitted.
type StepConfig struct {
	// Steps is the number of computational steps.
	Steps int

	// Loop emits a single loop step instead of Steps simple steps.
	Loop bool

	// Uniform bounds the loop by UniformName instead of the constant Steps.
	// Ignored when Loop is false.
	Uniform bool

	// UniformName is substituted for the loop bound when Uniform is set.
	UniformName string
}

// Replace returns src with every occurrence of placeholder replaced by insert.
func Replace(src, placeholder, insert string) string {
	if placeholder == "" {
		return src
	}
	return strings.ReplaceAll(src, placeholder, insert)
}

// Assemble builds a stage source from its base template and the two step
// fragments according to cfg.
func Assemble(base, stepSimple, stepLoop string, cfg StepConfig) string {
	var main strings.Builder

	if cfg.Loop {
		bound := strconv.Itoa(cfg.Steps)
		if cfg.Uniform {
			bound = cfg.UniformName
		}
		main.WriteString(Replace(stepLoop, PlaceholderLoops, bound))
	} else {
		for i := 0; i < cfg.Steps; i++ {
			main.WriteString(stepSimple)
		}
	}

	return Replace(base, PlaceholderMain, main.String())
}

// LoopSource loads the templates of stage from l and assembles them.
// If cfg.Uniform is set and cfg.UniformName is empty, the stage's own loop
// uniform is used.
func LoopSource(l *Loader, stage Stage, cfg StepConfig) (string, error) {
	base, err := l.Load(stage.Template())
	if err != nil {
		return "", fmt.Errorf("%s shader: %w", stage, err)
	}
	stepSimple, err := l.Load(StepSimpleTemplate)
	if err != nil {
		return "", fmt.Errorf("%s shader: %w", stage, err)
	}
	stepLoop, err := l.Load(StepLoopTemplate)
	if err != nil {
		return "", fmt.Errorf("%s shader: %w", stage, err)
	}

	if cfg.UniformName == "" {
		cfg.UniformName = stage.LoopUniform()
	}
	return Assemble(base, stepSimple, stepLoop, cfg), nil
}
