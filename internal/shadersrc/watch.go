package shadersrc

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with the template name each time a .wgsl file in dir
// is written, created or renamed. It blocks until ctx is done and returns
// ctx.Err(), or an error if dir cannot be watched.
//
// Watch only reports changes; callers reload through a Loader on dir.
func Watch(ctx context.Context, dir string, onChange func(name string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&relevant == 0 || filepath.Ext(event.Name) != ".wgsl" {
				continue
			}
			onChange(filepath.Base(event.Name))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
}
