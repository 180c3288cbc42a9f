package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/jingkaihe/skillkit/pkg/skills"
)

// FileEvent is a change observed beneath a watched skill
type FileEvent struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

// runWatch validates path once, then again after every burst of changes
// until the context is cancelled or the process is interrupted. The exit
// status of the last run is returned.
func runWatch(ctx context.Context, validator *skills.Validator, out *reportWriter, path string, vc *ValidateConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	if err := addWatchDirs(ctx, watcher, path); err != nil {
		return err
	}

	events := make(chan FileEvent)
	debounced := make(chan FileEvent)
	go debounceFileEvents(ctx, events, debounced, vc.Debounce)
	go forwardFileEvents(ctx, watcher, events)

	previous, code := validateOnce(ctx, validator, out, path, vc.All)
	out.presenter.Info("Watching for changes... Press Ctrl+C to stop")

	for {
		select {
		case event := <-debounced:
			logger.G(ctx).WithFields(logrus.Fields{
				"file":      event.Path,
				"operation": event.Op.String(),
			}).Debug("skill change detected")

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Path); err == nil && info.IsDir() {
					if err := watcher.Add(event.Path); err != nil {
						logger.G(ctx).WithError(err).WithField("directory", event.Path).Warn("failed to watch directory")
					}
				}
			}

			out.presenter.Separator()
			var current []*skills.Report
			current, code = validateOnce(ctx, validator, out, path, vc.All)
			out.WriteChanges(previous, current)
			previous = current
		case <-ctx.Done():
			if code != 0 {
				return &exitError{code: code}
			}
			return nil
		}
	}
}

// addWatchDirs watches path and its non-hidden descendants.
func addWatchDirs(ctx context.Context, watcher *fsnotify.Watcher, path string) error {
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		logger.G(ctx).WithField("directory", p).Debug("adding directory to watcher")
		return watcher.Add(p)
	})
	return errors.Wrapf(err, "failed to watch %s", path)
}

func forwardFileEvents(ctx context.Context, watcher *fsnotify.Watcher, events chan<- FileEvent) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			select {
			case events <- FileEvent{Path: event.Name, Op: event.Op, Time: time.Now()}:
			case <-ctx.Done():
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.G(ctx).WithError(err).Error("error watching skill")
		case <-ctx.Done():
			return
		}
	}
}

// debounceFileEvents collapses a burst of events into the last one of the
// burst, emitted once no new event has arrived for delay. A skill is
// re-validated as a whole, so events are not kept apart per file.
func debounceFileEvents(ctx context.Context, input <-chan FileEvent, output chan<- FileEvent, delay time.Duration) {
	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	var pending *FileEvent
	for {
		select {
		case event, ok := <-input:
			if !ok {
				return
			}
			pending = &event
			timer.Reset(delay)
		case <-timer.C:
			if pending == nil {
				continue
			}
			select {
			case output <- *pending:
			case <-ctx.Done():
				return
			}
			pending = nil
		case <-ctx.Done():
			return
		}
	}
}
