package prefabs

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// ChangeKind tells a prefab edit from a dialogue script edit.
type ChangeKind int

const (
	ChangePrefab ChangeKind = iota
	ChangeScript
)

func (k ChangeKind) String() string {
	if k == ChangeScript {
		return "script"
	}
	return "prefab"
}

// Change is one edited file in the prefab directory. Name is the path Load or
// LoadScript would resolve, e.g. "forest.yaml" or "scripts/village.tengo".
type Change struct {
	Name    string
	Kind    ChangeKind
	Removed bool
}

// Watcher reports edits to the disk copies of prefabs and dialogue scripts.
// Other files are dropped at the source. Repeated events for one file within
// watchDebounce collapse into one Change, and a Change is dropped rather than
// blocking when nobody drains Changes.
type Watcher struct {
	root    string
	fs      *fsnotify.Watcher
	changes chan Change
	errs    chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// WatchDisk watches dir and, when present, its scripts/ subdirectory.
func WatchDisk(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	scripts := filepath.Join(dir, "scripts")
	if info, err := os.Stat(scripts); err == nil && info.IsDir() {
		if err := fsw.Add(scripts); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		root:    dir,
		fs:      fsw,
		changes: make(chan Change, 16),
		errs:    make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Changes is closed by Close.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Errors is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		<-w.done
		close(w.changes)
		close(w.errs)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	seen := debouncer{window: watchDebounce, last: make(map[string]time.Time)}
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			change, ok := classifyChange(w.root, event)
			if !ok || !seen.allow(change.Name, time.Now()) {
				continue
			}
			select {
			case w.changes <- change:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// classifyChange maps a raw event under root to a Change. Chmod-only events
// and files that are neither prefabs nor scripts are rejected.
func classifyChange(root string, event fsnotify.Event) (Change, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return Change{}, false
	}

	rel, err := filepath.Rel(root, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return Change{}, false
	}
	rel = filepath.ToSlash(rel)

	change := Change{
		Name:    rel,
		Removed: event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename),
	}
	switch ext := strings.ToLower(filepath.Ext(rel)); {
	case ext == ".yaml" || ext == ".yml":
		if strings.Contains(rel, "/") {
			return Change{}, false
		}
		change.Kind = ChangePrefab
	case ext == ".tengo" && strings.HasPrefix(rel, "scripts/"):
		change.Kind = ChangeScript
	default:
		return Change{}, false
	}
	return change, true
}

// debouncer lets the first event for a name through and drops repeats inside
// window.
type debouncer struct {
	window time.Duration
	last   map[string]time.Time
}

func (d *debouncer) allow(name string, now time.Time) bool {
	if t, ok := d.last[name]; ok && now.Sub(t) < d.window {
		return false
	}
	d.last[name] = now
	return true
}
