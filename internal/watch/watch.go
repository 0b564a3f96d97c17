// Package watch scans configured unit directories at startup and then
// watches them with fsnotify, feeding every create/write/remove through
// descfile into the library and triggering a single Rescan once a burst
// of filesystem activity settles.
//
// Nothing in spec.md names a directory watcher - the spec's library is
// driven by an "external filesystem-scanning collaborator" it
// deliberately leaves out of scope - but a real daemon needs one, and
// fsnotify is the library the rest of the example pack reaches for.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/cfti/unitd/internal/descfile"
	"github.com/cfti/unitd/internal/library"
	"github.com/cfti/unitd/internal/unit"
)

// settleDelay is how long the watcher waits after the last filesystem
// event before running a Rescan. A burst of saves (an editor writing a
// file, then touching its swap file) collapses into one rescan instead
// of one per event.
const settleDelay = 150 * time.Millisecond

// Watcher owns an fsnotify watch over a set of directories and drives
// the library's ingestion API and Rescan from what it sees there.
type Watcher struct {
	fs     *fsnotify.Watcher
	dirs   []string
	lib    *library.Library
	logger *zap.Logger
	byPath map[string]unit.Name
}

// New creates a Watcher over dirs. It does not start watching until
// Run is called.
func New(dirs []string, lib *library.Library, logger *zap.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		fs:     fs,
		dirs:   dirs,
		lib:    lib,
		logger: logger,
		byPath: map[string]unit.Name{},
	}, nil
}

// Close releases the underlying fsnotify watch.
func (w *Watcher) Close() error { return w.fs.Close() }

// Run performs the initial full scan of every configured directory,
// then watches them until ctx is canceled, rescanning once after every
// settled burst of events.
func (w *Watcher) Run(ctx context.Context) error {
	for _, dir := range w.dirs {
		if err := w.fs.Add(dir); err != nil {
			return err
		}
		if err := w.scanDir(dir); err != nil {
			return err
		}
	}
	w.lib.Rescan()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
			if timer == nil {
				timer = time.NewTimer(settleDelay)
			} else {
				timer.Reset(settleDelay)
			}
			timerC = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timerC:
			w.lib.Rescan()
			timerC = nil
		}
	}
}

func (w *Watcher) scanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.ingest(filepath.Join(dir, entry.Name()))
	}
	return nil
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	switch {
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.ingest(ev.Name)
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.evict(ev.Name)
	}
}

func (w *Watcher) ingest(path string) {
	name, err := unit.NameFromPath(path)
	if err != nil {
		// Not a unit description file (wrong or missing extension);
		// silently ignored, same as the original's directory scan.
		return
	}

	desc, err := descfile.ParseFile(path)
	if err != nil {
		w.logger.Warn("failed to parse unit description", zap.String("path", path), zap.Error(err))
		return
	}

	w.byPath[path] = name

	switch desc.Kind {
	case unit.KindJig:
		w.lib.UpsertJig(desc.Jig)
	case unit.KindInterface:
		w.lib.UpsertInterface(desc.Interface)
	case unit.KindTest:
		w.lib.UpsertTest(desc.Test)
	case unit.KindScenario:
		w.lib.UpsertScenario(desc.Scenario)
	}
}

func (w *Watcher) evict(path string) {
	name, ok := w.byPath[path]
	if !ok {
		// Fall back to deriving it from the path directly - covers a
		// remove event for a file this watcher never successfully
		// parsed (e.g. it was invalid and is now being cleaned up).
		var err error
		name, err = unit.NameFromPath(path)
		if err != nil {
			return
		}
	}
	delete(w.byPath, path)

	switch name.Kind {
	case unit.KindJig:
		w.lib.RemoveJig(name)
	case unit.KindInterface:
		w.lib.RemoveInterface(name)
	case unit.KindTest:
		w.lib.RemoveTest(name)
	case unit.KindScenario:
		w.lib.RemoveScenario(name)
	}
}
