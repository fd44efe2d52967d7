package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LegacyCodeHQ/gpr2go/cmd/session"
	"github.com/LegacyCodeHQ/gpr2go/cmd/show"
	"github.com/LegacyCodeHQ/gpr2go/cmd/show/formatters"
	"github.com/LegacyCodeHQ/gpr2go/gpr2c"
	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 300 * time.Millisecond

var skippedDirs = map[string]bool{
	".git":   true,
	".alire": true,
	"alire":  true,
	"obj":    true,
	".objs":  true,
}

// projectWatcher reloads a project on the goroutine that owns the engine
// runtime, so engine calls are never made concurrently.
type projectWatcher struct {
	rt        *gpr2c.Runtime
	path      string
	scenario  []string
	formatter formatters.Formatter
	out       io.Writer
	errOut    io.Writer
}

func (w *projectWatcher) run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve project path: %w", err)
	}
	root := filepath.Dir(abs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}

	if err := w.publish(); err != nil {
		return err
	}
	fmt.Fprintf(w.errOut, "Watching %s for project changes. Press Ctrl+C to stop\n", root)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}
			if !isRelevantChange(event) {
				continue
			}
			debounce = time.After(debounceInterval)

		case <-debounce:
			debounce = nil
			if err := w.publish(); err != nil {
				fmt.Fprintf(w.errOut, "project reload error: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w.errOut, "watcher error: %v\n", err)
		}
	}
}

func (w *projectWatcher) publish() error {
	prj, err := session.LoadProject(w.rt, w.path, w.scenario)
	if err != nil {
		return err
	}
	summary, err := show.Summarize(prj)
	if err != nil {
		return err
	}
	output, err := w.formatter.Format(summary)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w.out, output)
	return err
}

func isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".gpr")
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, watcher.Add)
}

// addWatchDirsWithAdder walks root and registers every directory outside
// skippedDirs. Directories that vanish during the walk are ignored.
func addWatchDirsWithAdder(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skippedDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, path)
	}
}
