// Package bench runs benchmark scenes on a canvas and reports their frame
// rates.
//
// A benchmark is described by a string of the form
//
//	scene[:option=value]*
//
// for example "loop:vertex-steps=10:fragment-loop=false". A description
// with an empty scene name, such as ":duration=2.0", carries option
// defaults for the benchmarks that follow it.
package bench

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDescription is returned for a description with neither a scene
// name nor options.
var ErrEmptyDescription = errors.New("bench: empty benchmark description")

// OptionValue is one option assignment of a description.
type OptionValue struct {
	Name  string
	Value string
}

// ParseDescription splits a benchmark description into the scene name and
// its option assignments, in order. Empty segments are skipped.
func ParseDescription(desc string) (name string, opts []OptionValue, err error) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "", nil, ErrEmptyDescription
	}

	parts := strings.Split(desc, ":")
	name = strings.TrimSpace(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return "", nil, fmt.Errorf("bench: malformed option %q in %q", part, desc)
		}
		opts = append(opts, OptionValue{Name: k, Value: v})
	}

	if name == "" && len(opts) == 0 {
		return "", nil, ErrEmptyDescription
	}
	return name, opts, nil
}

// IsDefaults reports whether desc only sets option defaults.
func IsDefaults(desc string) bool {
	return strings.HasPrefix(strings.TrimSpace(desc), ":")
}

// MergeDefaults parses a defaults description (":opt=val:...") into dst,
// later assignments overriding earlier ones.
func MergeDefaults(dst map[string]string, desc string) error {
	name, opts, err := ParseDescription(desc)
	if err != nil {
		return err
	}
	if name != "" {
		return fmt.Errorf("bench: %q names a scene, not defaults", desc)
	}
	for _, o := range opts {
		dst[o.Name] = o.Value
	}
	return nil
}
