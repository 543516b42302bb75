// Package watch re-runs a callback whenever a schema definition file
// changes on disk.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 500 * time.Millisecond

// Watcher watches one file and invokes a callback after each write,
// debounced so editors that write in bursts trigger a single run.
type Watcher struct {
	file     string
	callback func() error
	fs       *fsnotify.Watcher
	done     chan struct{}
}

// New watches the directory containing file; events for other entries in
// the directory are ignored.
func New(file string, callback func() error) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		fs.Close()
		return nil, err
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{file: abs, callback: callback, fs: fs, done: make(chan struct{})}, nil
}

// Start runs the callback once, then again after every debounced write.
// Callback errors are reported and watching continues.
func (w *Watcher) Start() error {
	if err := w.callback(); err != nil {
		return err
	}

	go func() {
		timer := time.NewTimer(debounce)
		timer.Stop()
		var fire <-chan time.Time

		for {
			select {
			case ev, ok := <-w.fs.Events:
				if !ok {
					return
				}
				if ev.Op&fsnotify.Write == 0 {
					continue
				}
				if p, err := filepath.Abs(ev.Name); err == nil && p == w.file {
					timer.Reset(debounce)
					fire = timer.C
				}
			case <-fire:
				if err := w.callback(); err != nil {
					fmt.Fprintf(os.Stderr, "watch: %v\n", err)
				}
				fire = nil
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "watch: %v\n", err)
			case <-w.done:
				return
			}
		}
	}()
	return nil
}

// Stop ends watching.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fs.Close()
}
