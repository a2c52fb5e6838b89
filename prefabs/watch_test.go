package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestClassifyChange(t *testing.T) {
	root := filepath.Join("tmp", "prefabs")
	tests := []struct {
		name   string
		event  fsnotify.Event
		want   Change
		wantOK bool
	}{
		{
			name:   "prefab write",
			event:  fsnotify.Event{Name: filepath.Join(root, "forest.yaml"), Op: fsnotify.Write},
			want:   Change{Name: "forest.yaml", Kind: ChangePrefab},
			wantOK: true,
		},
		{
			name:   "yml create",
			event:  fsnotify.Event{Name: filepath.Join(root, "Cave.YML"), Op: fsnotify.Create},
			want:   Change{Name: "Cave.YML", Kind: ChangePrefab},
			wantOK: true,
		},
		{
			name:   "script removed",
			event:  fsnotify.Event{Name: filepath.Join(root, "scripts", "village.tengo"), Op: fsnotify.Remove},
			want:   Change{Name: "scripts/village.tengo", Kind: ChangeScript, Removed: true},
			wantOK: true,
		},
		{
			name:   "editor rename",
			event:  fsnotify.Event{Name: filepath.Join(root, "village.yaml"), Op: fsnotify.Rename},
			want:   Change{Name: "village.yaml", Kind: ChangePrefab, Removed: true},
			wantOK: true,
		},
		{name: "chmod only", event: fsnotify.Event{Name: filepath.Join(root, "forest.yaml"), Op: fsnotify.Chmod}},
		{name: "swap file", event: fsnotify.Event{Name: filepath.Join(root, ".forest.yaml.swp"), Op: fsnotify.Write}},
		{name: "script outside scripts", event: fsnotify.Event{Name: filepath.Join(root, "village.tengo"), Op: fsnotify.Write}},
		{name: "yaml in scripts", event: fsnotify.Event{Name: filepath.Join(root, "scripts", "x.yaml"), Op: fsnotify.Write}},
		{name: "outside root", event: fsnotify.Event{Name: filepath.Join("tmp", "other", "forest.yaml"), Op: fsnotify.Write}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classifyChange(root, tt.event)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDebouncer(t *testing.T) {
	d := debouncer{window: 100 * time.Millisecond, last: make(map[string]time.Time)}
	start := time.Unix(0, 0)

	if !d.allow("forest.yaml", start) {
		t.Fatalf("expected first event through")
	}
	if d.allow("forest.yaml", start.Add(50*time.Millisecond)) {
		t.Fatalf("expected repeat inside window dropped")
	}
	if !d.allow("village.yaml", start.Add(50*time.Millisecond)) {
		t.Fatalf("expected other file through")
	}
	if !d.allow("forest.yaml", start.Add(150*time.Millisecond)) {
		t.Fatalf("expected event after window through")
	}
}

func TestWatchDiskReportsEdits(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	w, err := WatchDisk(dir)
	if err != nil {
		t.Fatalf("WatchDisk: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scripts", "cave.tengo"), []byte("lines := []"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case change := <-w.Changes():
		if change.Name != "scripts/cave.tengo" || change.Kind != ChangeScript {
			t.Fatalf("unexpected change %+v", change)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no change reported")
	}
}

func TestWatcherCloseClosesChannels(t *testing.T) {
	w, err := WatchDisk(t.TempDir())
	if err != nil {
		t.Fatalf("WatchDisk: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, ok := <-w.Changes(); ok {
		t.Fatalf("expected Changes closed")
	}
	if _, ok := <-w.Errors(); ok {
		t.Fatalf("expected Errors closed")
	}
}
