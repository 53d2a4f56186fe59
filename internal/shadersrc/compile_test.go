package shadersrc

import (
	"fmt"
	"testing"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// TestCompileAssembledShaders compiles the embedded templates through naga for
// the three ways a stage can emit its steps.
func TestCompileAssembledShaders(t *testing.T) {
	l := DefaultLoader()

	configs := []StepConfig{
		{Steps: 3},
		{Steps: 3, Loop: true},
		{Steps: 3, Loop: true, Uniform: true},
	}
	for _, stage := range []Stage{StageVertex, StageFragment} {
		for _, cfg := range configs {
			name := fmt.Sprintf("%s/loop=%v/uniform=%v", stage, cfg.Loop, cfg.Uniform)
			t.Run(name, func(t *testing.T) {
				src, err := LoopSource(l, stage, cfg)
				if err != nil {
					t.Fatalf("LoopSource() error = %v", err)
				}
				words, err := Compile(src)
				if err != nil {
					t.Fatalf("Compile() error = %v\n%s", err, src)
				}
				if len(words) < 5 {
					t.Fatalf("SPIR-V too small: %d words", len(words))
				}
				if words[0] != spirvMagic {
					t.Errorf("SPIR-V magic = 0x%08X, want 0x%08X", words[0], spirvMagic)
				}
			})
		}
	}
}

func TestCompileRejectsInvalidSource(t *testing.T) {
	if _, err := Compile("fn broken( {"); err == nil {
		t.Error("Compile() of invalid WGSL returned nil error")
	}
}
