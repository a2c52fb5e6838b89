package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/storyscene/prefabs"
	"github.com/milk9111/storyscene/stories"
)

func TestEmbeddedStoriesAreClean(t *testing.T) {
	prev := prefabs.DiskDir()
	prefabs.SetDiskDir("")
	t.Cleanup(func() { prefabs.SetDiskDir(prev) })

	names, err := embeddedStories()
	if err != nil {
		t.Fatalf("embeddedStories: %v", err)
	}
	if len(names) == 0 {
		t.Fatalf("expected at least one embedded story")
	}
	for _, name := range names {
		s, err := stories.LoadStoryFromFS(name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if problems := Check(s); len(problems) != 0 {
			t.Fatalf("%s: unexpected problems %v", name, problems)
		}
	}
}

func TestCheckReportsBrokenContent(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("check_a.yaml", `
components:
  scene_node: {name: a}
  sprite: {image: backdrops/missing.png}
  dialogue:
    lines:
      - text: hi
        sound: gong
        options:
          - {label: go, target: nowhere}
`)
	write("check_b.yaml", `
components:
  scene_node: {name: a}
  dialogue:
    lines: []
`)

	prev := prefabs.DiskDir()
	prefabs.SetDiskDir(dir)
	t.Cleanup(func() { prefabs.SetDiskDir(prev) })

	problems := Check(&stories.Story{Name: "broken", Entities: []stories.Entity{
		{Prefab: "check_a.yaml"},
		{Prefab: "check_b.yaml"},
		{Prefab: "check_missing.yaml"},
	}})

	want := []string{
		"sprite image",
		`sound "gong"`,
		`unknown target scene "nowhere"`,
		`scene "a" already defined`,
		"dialogue has no lines",
		"check_missing.yaml",
	}
	joined := make([]string, len(problems))
	for i, p := range problems {
		joined[i] = p.String()
	}
	all := strings.Join(joined, "\n")
	for _, w := range want {
		if !strings.Contains(all, w) {
			t.Errorf("expected a problem mentioning %q, got:\n%s", w, all)
		}
	}
}

func TestCheckTrimsManifestNames(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("trim_room.yaml", `
components:
  scene_node: {name: room}
  dialogue:
    lines:
      - text: where to?
        options:
          - {label: hall, target: hall}
`)

	prev := prefabs.DiskDir()
	prefabs.SetDiskDir(dir)
	t.Cleanup(func() { prefabs.SetDiskDir(prev) })

	tests := []struct {
		name     string
		entities []stories.Entity
		want     string
	}{
		{
			name: "padded name resolves targets",
			entities: []stories.Entity{
				{Prefab: "trim_room.yaml"},
				{Prefab: "trim_room.yaml", Name: "  hall "},
			},
		},
		{
			name: "padded name collides",
			entities: []stories.Entity{
				{Prefab: "trim_room.yaml", Name: "hall"},
				{Prefab: "trim_room.yaml", Name: " hall"},
			},
			want: `scene "hall" already defined`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Check(&stories.Story{Name: "trim", Entities: tt.entities})
			var all []string
			for _, p := range problems {
				all = append(all, p.String())
			}
			joined := strings.Join(all, "\n")
			if tt.want == "" {
				if len(problems) != 0 {
					t.Fatalf("expected no problems, got:\n%s", joined)
				}
				return
			}
			if !strings.Contains(joined, tt.want) {
				t.Fatalf("expected a problem mentioning %q, got:\n%s", tt.want, joined)
			}
		})
	}
}
