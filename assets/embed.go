package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	_ "image/png"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

//go:embed backdrops portraits sfx music
var assetsFS embed.FS

const SampleRate = 44100

var (
	audioOnce    sync.Once
	audioContext *audio.Context

	imageMu    sync.Mutex
	imageCache = map[string]*ebiten.Image{}
)

// AudioContext returns the process-wide audio context, creating it on first
// use. Ebiten allows only one per process.
func AudioContext() *audio.Context {
	audioOnce.Do(func() {
		audioContext = audio.CurrentContext()
		if audioContext == nil {
			audioContext = audio.NewContext(SampleRate)
		}
	})
	return audioContext
}

// LoadImage decodes an embedded image by assets-relative path. Each call
// creates a new ebiten image; use Image for shared lookups.
func LoadImage(path string) (*ebiten.Image, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// Image returns the cached image for path, loading it on first request.
func Image(path string) (*ebiten.Image, error) {
	key := cleanAssetPath(path)

	imageMu.Lock()
	defer imageMu.Unlock()

	if img, ok := imageCache[key]; ok {
		return img, nil
	}
	img, err := LoadImage(key)
	if err != nil {
		return nil, err
	}
	imageCache[key] = img
	return img, nil
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	if clean == "" {
		return nil, fmt.Errorf("load asset: empty path")
	}
	return assetsFS.ReadFile(clean)
}

// LoadAudioPlayer loads an embedded audio asset and creates a player on the
// shared context.
func LoadAudioPlayer(path string) (*audio.Player, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	ctx := AudioContext()
	if strings.HasSuffix(strings.ToLower(cleanAssetPath(path)), ".wav") {
		stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("decode wav %q: %w", path, err)
		}
		return ctx.NewPlayer(stream)
	}

	// Anything else is assumed to be raw PCM in ebiten's native format.
	return ctx.NewPlayerFromBytes(b), nil
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if filepath.IsAbs(path) {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
