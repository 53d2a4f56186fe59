package shadersrc

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/wgsl"
)

// Compile compiles WGSL source to SPIR-V words.
// It is used to reject an assembled shader before any GPU object is created.
func Compile(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("failed to compile shader: SPIR-V size %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// TranslateGLSL translates WGSL source to GLSL ES 3.00 and applies p to the
// result.
func TranslateGLSL(wgslSource string, p Precision) (string, error) {
	tokens, err := wgsl.NewLexer(wgslSource).Tokenize()
	if err != nil {
		return "", fmt.Errorf("tokenize: %w", err)
	}
	ast, err := wgsl.NewParser(tokens).Parse()
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}
	module, err := wgsl.Lower(ast)
	if err != nil {
		return "", fmt.Errorf("lower: %w", err)
	}

	source, _, err := glsl.Compile(module, glsl.Options{
		LangVersion: glsl.VersionES300,
	})
	if err != nil {
		return "", fmt.Errorf("glsl backend: %w", err)
	}
	return ApplyPrecision(source, p), nil
}
