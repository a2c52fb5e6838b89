package system

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/storyscene/assets"
	"github.com/milk9111/storyscene/ecs"
	"github.com/milk9111/storyscene/ecs/component"
	"github.com/sirupsen/logrus"
)

const (
	defaultMusicVolume     = 1.0
	defaultMusicFadeFrames = 30
)

// MusicSystem plays one scene track at a time. A new request fades the
// current track out before the next one starts; looping tracks restart when
// they run out.
type MusicSystem struct {
	log  logrus.FieldLogger
	load func(track string) (*audio.Player, error)
}

func NewMusicSystem(log logrus.FieldLogger) *MusicSystem {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MusicSystem{
		log:  log.WithField("system", "music"),
		load: assets.LoadAudioPlayer,
	}
}

func RequestMusic(w *ecs.World, track string) {
	RequestMusicWithOptions(w, &component.MusicRequest{Track: track, Loop: true, FadeOutFrames: defaultMusicFadeFrames})
}

// RequestMusicWithOptions queues req; when several are queued in one frame
// the last one wins.
func RequestMusicWithOptions(w *ecs.World, req *component.MusicRequest) {
	if w == nil || req == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.MusicRequestComponent.Kind(), req)
}

func StopMusic(w *ecs.World) {
	RequestMusicWithOptions(w, &component.MusicRequest{FadeOutFrames: defaultMusicFadeFrames})
}

func (m *MusicSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	latest := m.consumeLatestRequest(w)

	ent, ok := ecs.First(w, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	player, ok := ecs.Get(w, ent, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	if player.Players == nil {
		player.Players = make(map[string]*audio.Player)
	}
	if player.TrackVolumes == nil {
		player.TrackVolumes = make(map[string]float64)
	}

	if latest != nil {
		m.applyRequest(player, *latest)
	}

	if player.PendingActive {
		m.updateTransition(player)
		return
	}

	current := m.currentPlayer(player)
	if current != nil && !current.IsPlaying() && player.CurrentLoop {
		_ = current.Rewind()
		current.SetVolume(player.CurrentVolume)
		current.Play()
	}
}

func (m *MusicSystem) consumeLatestRequest(w *ecs.World) *component.MusicRequest {
	var latest *component.MusicRequest
	var consumed []ecs.Entity

	ecs.ForEach(w, component.MusicRequestComponent.Kind(), func(ent ecs.Entity, req *component.MusicRequest) {
		consumed = append(consumed, ent)
		r := *req
		latest = &r
	})
	for _, ent := range consumed {
		ecs.DestroyEntity(w, ent)
	}
	return latest
}

func (m *MusicSystem) applyRequest(player *component.MusicPlayer, req component.MusicRequest) {
	track := strings.TrimSpace(req.Track)
	volume := req.Volume
	if volume <= 0 {
		volume = defaultMusicVolume
		if v, ok := player.TrackVolumes[track]; ok && v > 0 {
			volume = v
		}
	}
	volume = min(volume, 1)
	fadeFrames := req.FadeOutFrames
	if fadeFrames <= 0 {
		fadeFrames = defaultMusicFadeFrames
	}

	current := m.currentPlayer(player)

	// Same track again: adjust in place instead of restarting.
	if track != "" && !player.PendingActive && player.CurrentTrack == track && current != nil {
		player.CurrentVolume = volume
		player.CurrentLoop = req.Loop
		current.SetVolume(volume)
		if !current.IsPlaying() {
			_ = current.Rewind()
			current.Play()
		}
		return
	}

	player.PendingTrack = track
	player.PendingVolume = volume
	player.PendingLoop = req.Loop
	player.PendingActive = true
	if track == "" {
		player.PendingVolume = 0
		player.PendingLoop = false
	}

	if current == nil {
		m.switchToPending(player)
		return
	}
	player.FadeStep = player.CurrentVolume / float64(fadeFrames)
	if player.FadeStep <= 0 {
		player.FadeStep = 1
	}
}

func (m *MusicSystem) updateTransition(player *component.MusicPlayer) {
	current := m.currentPlayer(player)
	if current == nil {
		m.switchToPending(player)
		return
	}

	player.CurrentVolume -= player.FadeStep
	if player.CurrentVolume > 0 {
		current.SetVolume(player.CurrentVolume)
		return
	}

	current.SetVolume(0)
	current.Pause()
	_ = current.Rewind()
	player.CurrentTrack = ""
	player.CurrentVolume = 0
	player.CurrentLoop = false
	m.switchToPending(player)
}

func (m *MusicSystem) switchToPending(player *component.MusicPlayer) {
	if !player.PendingActive {
		return
	}

	track := strings.TrimSpace(player.PendingTrack)
	volume := player.PendingVolume
	loop := player.PendingLoop

	player.PendingTrack = ""
	player.PendingVolume = 0
	player.PendingLoop = false
	player.PendingActive = false
	player.FadeStep = 0
	player.CurrentTrack = ""
	player.CurrentVolume = 0
	player.CurrentLoop = false

	if track == "" {
		return
	}

	next, err := m.playerForTrack(player, track)
	if err != nil {
		m.log.WithError(err).WithField("track", track).Error("music track not started")
		return
	}

	player.CurrentTrack = track
	player.CurrentVolume = volume
	player.CurrentLoop = loop
	_ = next.Rewind()
	next.SetVolume(volume)
	next.Play()
	m.log.WithFields(logrus.Fields{"track": track, "loop": loop}).Debug("music started")
}

func (m *MusicSystem) currentPlayer(player *component.MusicPlayer) *audio.Player {
	if strings.TrimSpace(player.CurrentTrack) == "" {
		return nil
	}
	return player.Players[player.CurrentTrack]
}

func (m *MusicSystem) playerForTrack(player *component.MusicPlayer, track string) (*audio.Player, error) {
	if existing, ok := player.Players[track]; ok && existing != nil {
		return existing, nil
	}
	if m.load == nil {
		return nil, fmt.Errorf("music: no loader for %q", track)
	}
	p, err := m.load(track)
	if err != nil {
		return nil, fmt.Errorf("music: load %q: %w", track, err)
	}
	player.Players[track] = p
	return p, nil
}
