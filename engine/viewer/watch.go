package viewer

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/prism3d/prism/common"
)

// watcher reloads the viewer's shader when a watched file changes.
type watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
}

func (v *viewer) WatchShaderFile(path string) error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Editors commonly replace files on save, so watch the directory and
	// filter events for the target file; watching the file itself breaks on
	// rename-and-recreate.
	if err := fs.Add(filepath.Dir(path)); err != nil {
		fs.Close()
		return err
	}

	w := &watcher{fs: fs, done: make(chan struct{})}

	v.mu.Lock()
	old := v.watcher
	v.watcher = w
	v.mu.Unlock()
	if old != nil {
		old.stop()
	}

	go w.run(v, path)

	common.Logger().Info("watching shader file", "path", path)
	return nil
}

func (w *watcher) run(v *viewer, path string) {
	target := filepath.Clean(path)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			source, err := os.ReadFile(path)
			if err != nil {
				common.Logger().Error("failed to read shader file", "path", path, "error", err)
				continue
			}
			// Errors are retained on the viewer; the previous shader stays up.
			_ = v.ReloadShader(string(source))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			common.Logger().Error("shader file watch error", "error", err)
		}
	}
}

func (w *watcher) stop() {
	close(w.done)
	w.fs.Close()
}
