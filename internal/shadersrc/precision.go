package shadersrc

import (
	"fmt"
	"strings"
)

// PrecisionValue is a GLSL ES default precision qualifier.
type PrecisionValue int

const (
	// PrecisionDefault leaves the translator's precision untouched.
	PrecisionDefault PrecisionValue = iota
	PrecisionLow
	PrecisionMedium
	PrecisionHigh
)

var precisionNames = map[string]PrecisionValue{
	"default": PrecisionDefault,
	"low":     PrecisionLow,
	"medium":  PrecisionMedium,
	"high":    PrecisionHigh,
}

// String returns the option spelling of the value.
func (v PrecisionValue) String() string {
	switch v {
	case PrecisionLow:
		return "low"
	case PrecisionMedium:
		return "medium"
	case PrecisionHigh:
		return "high"
	default:
		return "default"
	}
}

// qualifier returns the GLSL keyword, or "" for PrecisionDefault.
func (v PrecisionValue) qualifier() string {
	switch v {
	case PrecisionLow:
		return "lowp"
	case PrecisionMedium:
		return "mediump"
	case PrecisionHigh:
		return "highp"
	default:
		return ""
	}
}

// Precision holds the default precisions of a shader stage, in the order
// they appear in the "int,float,sampler2d,samplercube" option syntax.
type Precision struct {
	Int         PrecisionValue
	Float       PrecisionValue
	Sampler2D   PrecisionValue
	SamplerCube PrecisionValue
}

// ParsePrecision parses a comma separated precision list such as
// "high,medium,default,default". Missing trailing fields are default.
func ParsePrecision(s string) (Precision, error) {
	var p Precision
	s = strings.TrimSpace(s)
	if s == "" {
		return p, nil
	}

	fields := strings.Split(s, ",")
	if len(fields) > 4 {
		return p, fmt.Errorf("precision %q: expected at most 4 fields, got %d", s, len(fields))
	}

	targets := []*PrecisionValue{&p.Int, &p.Float, &p.Sampler2D, &p.SamplerCube}
	for i, f := range fields {
		v, ok := precisionNames[strings.TrimSpace(f)]
		if !ok {
			return Precision{}, fmt.Errorf("precision %q: invalid value %q", s, f)
		}
		*targets[i] = v
	}
	return p, nil
}

// String formats p in option syntax.
func (p Precision) String() string {
	return p.Int.String() + "," + p.Float.String() + "," +
		p.Sampler2D.String() + "," + p.SamplerCube.String()
}

// statements returns the precision statements for non-default values.
func (p Precision) statements() map[string]string {
	out := make(map[string]string, 4)
	for _, e := range []struct {
		typ string
		v   PrecisionValue
	}{
		{"int", p.Int},
		{"float", p.Float},
		{"sampler2D", p.Sampler2D},
		{"samplerCube", p.SamplerCube},
	} {
		if q := e.v.qualifier(); q != "" {
			out[e.typ] = "precision " + q + " " + e.typ + ";"
		}
	}
	return out
}

// ApplyPrecision rewrites the default precision statements of a GLSL source.
// Statements for types p overrides are removed and the new ones are inserted
// right after the #version directive.
func ApplyPrecision(glsl string, p Precision) string {
	stmts := p.statements()
	if len(stmts) == 0 {
		return glsl
	}

	lines := strings.Split(glsl, "\n")
	out := make([]string, 0, len(lines)+len(stmts))
	inserted := false

	insert := func() {
		for _, typ := range []string{"int", "float", "sampler2D", "samplerCube"} {
			if s, ok := stmts[typ]; ok {
				out = append(out, s)
			}
		}
		inserted = true
	}

	for _, line := range lines {
		if typ, ok := precisionStatementType(line); ok {
			if _, overridden := stmts[typ]; overridden {
				continue
			}
		}
		out = append(out, line)
		if !inserted && strings.HasPrefix(strings.TrimSpace(line), "#version") {
			insert()
		}
	}

	if !inserted {
		head := out
		out = make([]string, 0, len(head)+len(stmts))
		insert()
		out = append(out, head...)
	}
	return strings.Join(out, "\n")
}

// precisionStatementType reports the type named by a
// "precision <qualifier> <type>;" line.
func precisionStatementType(line string) (string, bool) {
	f := strings.Fields(strings.TrimSuffix(strings.TrimSpace(line), ";"))
	if len(f) != 3 || f[0] != "precision" {
		return "", false
	}
	return f[2], true
}
