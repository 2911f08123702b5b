// Package vfs provides the file watching used by the driver's watch
// mode. Events are debounced so editors that write a file several times
// in quick succession trigger one retranslation, not five.
package vfs

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces bursts of writes to the same path
const debounceWindow = 100 * time.Millisecond

// Watcher delivers coalesced change notifications for source files
type Watcher struct {
	w     *fsnotify.Watcher
	evC   chan string
	erC   chan error
	doneC chan struct{}
}

// NewWatcher creates a watcher for the given files. The parent
// directories are watched rather than the files themselves, so
// rename-and-replace editors keep working.
func NewWatcher(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		w:     fw,
		evC:   make(chan string, 16),
		erC:   make(chan error, 1),
		doneC: make(chan struct{}),
	}
	go w.loop(watched)
	return w, nil
}

func (w *Watcher) loop(watched map[string]bool) {
	var (
		pending map[string]bool
		timer   *time.Timer
		fireC   <-chan time.Time
	)

	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if pending == nil {
				pending = make(map[string]bool)
			}
			pending[abs] = true
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				timer.Reset(debounceWindow)
			}
			fireC = timer.C

		case <-fireC:
			for p := range pending {
				select {
				case w.evC <- p:
				case <-w.doneC:
					return
				}
			}
			pending = nil
			fireC = nil

		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			select {
			case w.erC <- err:
			default:
			}

		case <-w.doneC:
			return
		}
	}
}

// Events returns the channel of changed file paths
func (w *Watcher) Events() <-chan string { return w.evC }

// Errors returns the channel of watcher errors
func (w *Watcher) Errors() <-chan error { return w.erC }

// Close stops the watcher
func (w *Watcher) Close() error {
	close(w.doneC)
	return w.w.Close()
}
