// Package watch monitors the action root for changes so the viewer can
// refresh the descriptor tree without restarting. Events are debounced into a
// single "changed" signal; the consumer rescans.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"launchpad/internal/log"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces bursts of filesystem events into one signal.
const debounceWindow = 250 * time.Millisecond

// Watcher monitors a directory tree using fsnotify and emits one signal per
// burst of changes.
type Watcher struct {
	root      string
	changed   chan struct{}
	stopChan  chan struct{}
	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
	stopped bool
}

// New creates a watcher rooted at the given directory.
func New(root string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		root:      root,
		changed:   make(chan struct{}, 1),
		stopChan:  make(chan struct{}),
		fsWatcher: fsWatcher,
	}, nil
}

// Changed returns the channel that signals the tree should be rescanned.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Start registers the whole tree and begins the event loop.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	if w.stopped {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.running = true
	w.mutex.Unlock()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	go w.loop()
	log.Debug("watching %s", w.root)
	return nil
}

// addRecursive registers every directory under root. fsnotify has no
// recursive mode, so new subdirectories are added as create events arrive.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsWatcher.Add(path); err != nil {
			log.Warn("watch: cannot watch %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			// Newly created directories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.fsWatcher.Add(event.Name); err != nil {
						log.Warn("watch: cannot watch %s: %v", event.Name, err)
					}
				}
			}

			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.changed <- struct{}{}:
			default:
				// A rescan is already pending.
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Error("watch: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

// Stop halts the watcher and closes its channels.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.Error("watch: error closing fsnotify watcher: %v", err)
	}
	w.running = false
	w.stopped = true
}

// IsRunning returns whether the watcher is currently active.
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
