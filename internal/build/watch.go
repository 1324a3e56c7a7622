package build

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"spvbuild/internal/model"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reruns the full build whenever a shader source changes.
type Watcher struct {
	Runner   *Runner
	Debounce time.Duration

	// OnPass, if set, receives each pass's report and error.
	OnPass func(*model.BuildReport, error)
}

// relevant reports whether an event should trigger a rebuild. Compiled
// outputs land in the watched directory too and must not retrigger.
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return model.IsShaderName(filepath.Base(ev.Name))
}

// Watch runs one pass, then rebuilds on change until ctx is done. Passes
// never overlap. Fatal setup errors from the first pass are returned.
func (w *Watcher) Watch(ctx context.Context) error {
	plan, err := w.Runner.Prepare()
	if err != nil {
		return err
	}
	w.pass(plan)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(plan.SourceDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", plan.SourceDir, err)
	}
	w.Runner.logger.Info("Watching for shader changes.", "dir", plan.SourceDir)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if relevant(ev) {
				w.Runner.logger.Debug("Shader changed.", "file", ev.Name, "op", ev.Op.String())
				timer.Reset(debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Runner.logger.Warn("Watcher error.", "error", err)

		case <-timer.C:
			// Re-prepare so added and removed files are picked up.
			plan, err := w.Runner.Prepare()
			if err != nil {
				if errors.Is(err, ErrDirectoryNotFound) {
					return err
				}
				w.report(nil, err)
				continue
			}
			w.pass(plan)
		}
	}
}

func (w *Watcher) pass(plan *Plan) {
	report, err := w.Runner.Execute(plan)
	w.report(report, err)
}

func (w *Watcher) report(report *model.BuildReport, err error) {
	if err != nil {
		w.Runner.logger.Warn("Build pass reported an error.", "error", err)
	}
	if w.OnPass != nil {
		w.OnPass(report, err)
	}
}
