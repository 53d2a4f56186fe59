package scene

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrUnknownOption is returned when setting an option a scene does not
	// declare.
	ErrUnknownOption = errors.New("scene: unknown option")

	// ErrInvalidOption is returned when an option value cannot be parsed.
	ErrInvalidOption = errors.New("scene: invalid option value")
)

// Option is a string-valued scene parameter.
type Option struct {
	Name        string
	Value       string
	Default     string
	Description string

	// Set reports whether Value was assigned explicitly since the last Reset.
	Set bool
}

// Options is the option set of a scene, keyed by name.
// The zero value is ready to use.
type Options struct {
	m map[string]*Option
}

// Add declares an option with its default value. Declaring an existing name
// replaces it.
func (o *Options) Add(name, def, description string) {
	if o.m == nil {
		o.m = make(map[string]*Option)
	}
	o.m[name] = &Option{
		Name:        name,
		Value:       def,
		Default:     def,
		Description: description,
	}
}

// Get returns a copy of the named option.
func (o *Options) Get(name string) (Option, bool) {
	opt, ok := o.m[name]
	if !ok {
		return Option{}, false
	}
	return *opt, true
}

// Value returns the current value of the named option, or "" if undeclared.
func (o *Options) Value(name string) string {
	if opt, ok := o.m[name]; ok {
		return opt.Value
	}
	return ""
}

// Set assigns a value and marks the option as explicitly set.
func (o *Options) Set(name, value string) error {
	opt, ok := o.m[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	opt.Value = value
	opt.Set = true
	return nil
}

// SetDefault changes the default of the named option. The current value is
// untouched until the next Reset.
func (o *Options) SetDefault(name, value string) error {
	opt, ok := o.m[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	opt.Default = value
	return nil
}

// Reset restores every option to its default and clears the Set flags.
func (o *Options) Reset() {
	for _, opt := range o.m {
		opt.Value = opt.Default
		opt.Set = false
	}
}

// Names returns the declared option names in lexical order.
func (o *Options) Names() []string {
	names := make([]string, 0, len(o.m))
	for name := range o.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns copies of all options in lexical order of name.
func (o *Options) List() []Option {
	names := o.Names()
	list := make([]Option, len(names))
	for i, name := range names {
		list[i] = *o.m[name]
	}
	return list
}

// Len returns the number of declared options.
func (o *Options) Len() int { return len(o.m) }

// Title builds the benchmark title: "name=value:" for every option that was
// set (or every option if showAll), in lexical order. With nothing to show
// it returns "<default>:".
func (o *Options) Title(showAll bool) string {
	var sb strings.Builder
	for _, name := range o.Names() {
		opt := o.m[name]
		if showAll || opt.Set {
			sb.WriteString(name)
			sb.WriteByte('=')
			sb.WriteString(opt.Value)
			sb.WriteByte(':')
		}
	}
	if sb.Len() == 0 {
		return "<default>:"
	}
	return sb.String()
}

// Bool reports whether the named option is exactly "true".
func (o *Options) Bool(name string) bool {
	return o.Value(name) == "true"
}

// Int parses the named option as a decimal integer.
func (o *Options) Int(name string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(o.Value(name)))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidOption, name, o.Value(name))
	}
	return v, nil
}

// Float parses the named option as a decimal number.
func (o *Options) Float(name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(o.Value(name)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidOption, name, o.Value(name))
	}
	return v, nil
}
