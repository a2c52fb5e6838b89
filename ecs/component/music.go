package component

import "github.com/hajimehoshi/ebiten/v2/audio"

// MusicPlayer is the single playback state for scene music. Only the music
// system mutates it.
type MusicPlayer struct {
	Players      map[string]*audio.Player
	TrackVolumes map[string]float64

	CurrentTrack  string
	CurrentVolume float64
	CurrentLoop   bool

	PendingTrack  string
	PendingVolume float64
	PendingLoop   bool
	PendingActive bool

	FadeStep float64
}

// MusicRequest asks the music system to switch tracks. The current track
// fades out over FadeOutFrames before the requested one starts; an empty
// Track fades to silence.
type MusicRequest struct {
	Track         string
	Volume        float64
	Loop          bool
	FadeOutFrames int
}

// SceneMusic is the request issued each time the owning scene activates.
type SceneMusic struct {
	Request MusicRequest
}

var (
	MusicPlayerComponent  = NewComponent[MusicPlayer]()
	MusicRequestComponent = NewComponent[MusicRequest]()
	SceneMusicComponent   = NewComponent[SceneMusic]()
)
