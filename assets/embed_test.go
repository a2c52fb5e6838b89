package assets

import "testing"

func TestCleanAssetPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "sfx/chime.wav", want: "sfx/chime.wav"},
		{in: "assets/sfx/chime.wav", want: "sfx/chime.wav"},
		{in: "/home/dev/storyscene/assets/portraits/guide.png", want: "portraits/guide.png"},
		{in: "/tmp/guide.png", want: "guide.png"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := cleanAssetPath(tt.in); got != tt.want {
				t.Fatalf("cleanAssetPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	for _, path := range []string{"sfx/chime.wav", "assets/portraits/guide.png", "music/crossroads.wav", "backdrops/forest.png"} {
		b, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%q): %v", path, err)
		}
		if len(b) == 0 {
			t.Fatalf("LoadFile(%q): empty", path)
		}
	}
	if _, err := LoadFile(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadFile("sfx/missing.wav"); err == nil {
		t.Fatalf("expected error for missing asset")
	}
}
