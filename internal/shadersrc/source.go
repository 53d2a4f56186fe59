// Package shadersrc loads WGSL shader templates and assembles scene shaders
// from them.
//
// Templates are plain WGSL files with placeholders of the form $NAME$.
// The built-in templates are embedded in the binary; a directory on disk can
// be used instead to experiment with modified shaders without rebuilding.
package shadersrc

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

//go:embed shaders/*.wgsl
var embeddedShaders embed.FS

// ErrSourceNotFound is returned when a shader template does not exist in the
// loader's file system.
var ErrSourceNotFound = errors.New("shadersrc: source not found")

// Loader reads shader templates by name from a file system.
type Loader struct {
	// FS holds the templates at its root.
	FS fs.FS
}

// DefaultLoader returns a loader over the embedded templates.
func DefaultLoader() *Loader {
	sub, err := fs.Sub(embeddedShaders, "shaders")
	if err != nil {
		// fs.Sub only fails for invalid paths; "shaders" is a constant.
		panic(err)
	}
	return &Loader{FS: sub}
}

// DirLoader returns a loader reading templates from dir.
func DirLoader(dir string) *Loader {
	return &Loader{FS: os.DirFS(dir)}
}

// Load returns the contents of the named template.
func (l *Loader) Load(name string) (string, error) {
	b, err := fs.ReadFile(l.FS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, name)
		}
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	return string(b), nil
}

// Names lists the templates available to the loader.
func (l *Loader) Names() ([]string, error) {
	matches, err := fs.Glob(l.FS, "*.wgsl")
	if err != nil {
		return nil, fmt.Errorf("list shaders: %w", err)
	}
	return matches, nil
}
