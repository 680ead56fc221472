package main

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rmrobinson/ztm/lib/stream"
	"github.com/rmrobinson/ztm/services/timetable/convert"
	"go.uber.org/zap"
)

// dirWatcher converts every matching file of a directory, one conversion at a time.
type dirWatcher struct {
	logger    *zap.Logger
	dir       string
	pattern   string
	selection convert.Selection

	converter *convert.Converter
	results   *stream.Hub

	lock sync.Mutex
}

// matches reports whether the file name matches the pattern, ignoring case.
func (w *dirWatcher) matches(path string) bool {
	ok, err := filepath.Match(strings.ToUpper(w.pattern), strings.ToUpper(filepath.Base(path)))
	if err != nil {
		w.logger.Warn("invalid file pattern",
			zap.String("pattern", w.pattern),
			zap.Error(err),
		)
		return false
	}
	return ok
}

// convert converts a single file and publishes the outcome, failed or not.
func (w *dirWatcher) convert(ctx context.Context, path string) {
	w.lock.Lock()
	defer w.lock.Unlock()

	res, err := w.converter.Convert(ctx, path, w.selection)
	if err != nil {
		res = &convert.Result{
			Input: path,
			Err:   err,
		}
	}
	w.results.Publish(res)
}

// rescan converts every matching file currently in the directory.
func (w *dirWatcher) rescan(ctx context.Context) {
	entries, err := ioutil.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("unable to list directory",
			zap.String("dir", w.dir),
			zap.Error(err),
		)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !w.matches(entry.Name()) {
			continue
		}
		w.convert(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

// handle converts the file named by a create or write event.
func (w *dirWatcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !w.matches(event.Name) {
		return
	}

	w.logger.Debug("file changed",
		zap.String("file_name", event.Name),
		zap.String("op", event.Op.String()),
	)
	w.convert(ctx, event.Name)
}

// run processes filesystem events until the context is cancelled.
func (w *dirWatcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("context closed, stopping watch")
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error",
				zap.Error(err),
			)
		}
	}
}
