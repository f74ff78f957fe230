package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/agenthands/coursegraph/internal/logger"
)

const DefaultDebounce = 500 * time.Millisecond

// Handler runs once per quiet period after one or more source files changed.
type Handler func(ctx context.Context, changed []string) error

// Watcher triggers Handler when any of a fixed set of catalog files changes.
// It watches the parent directories so that editors which replace a file by
// rename are still noticed.
type Watcher struct {
	files    map[string]struct{}
	dirs     []string
	handler  Handler
	debounce time.Duration
	log      *logger.Logger

	watcher  *fsnotify.Watcher
	changes  chan string
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.RWMutex
	watching bool
}

func New(paths []string, handler Handler, debounce time.Duration, log *logger.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	files := make(map[string]struct{}, len(paths))
	seen := map[string]bool{}
	var dirs []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		files[abs] = struct{}{}
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		files:    files,
		dirs:     dirs,
		handler:  handler,
		debounce: debounce,
		log:      log.With("component", "watcher"),
		watcher:  fw,
		changes:  make(chan string, 64),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. It returns once the directories are registered;
// events are processed until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)

	w.log.Info("watching catalog files", "dirs", w.dirs, "debounce", w.debounce)
	return nil
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, tracked := w.files[name]; !tracked {
				continue
			}
			select {
			case w.changes <- name:
			default:
				// buffer full; a flush is already pending
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	pending := map[string]struct{}{}
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(pending) == 0 {
			return
		}
		changed := make([]string, 0, len(pending))
		for p := range pending {
			changed = append(changed, p)
		}
		clear(pending)
		w.log.Info("catalog files changed", "files", changed)
		if err := w.handler(ctx, changed); err != nil {
			w.log.Warn("change handler failed", "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case name := <-w.changes:
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			flush()
		}
	}
}
