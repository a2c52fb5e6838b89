package system

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/storyscene/ecs"
	"github.com/milk9111/storyscene/ecs/component"
	"github.com/milk9111/storyscene/ecs/entity"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestApplyInput(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewInputEntity(w)
	if err != nil {
		t.Fatalf("NewInputEntity: %v", err)
	}
	input, _ := ecs.Get(w, e, component.InputComponent.Kind())
	if input.OptionPressed != -1 {
		t.Fatalf("expected no option initially, got %d", input.OptionPressed)
	}

	src := worldInput{w: w}
	tests := []struct {
		name    string
		primary bool
		option  int
	}{
		{name: "idle", primary: false, option: -1},
		{name: "primary", primary: true, option: -1},
		{name: "option", primary: false, option: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applyInput(w, tt.primary, tt.option)
			if src.PrimaryPressed() != tt.primary {
				t.Fatalf("PrimaryPressed = %v, want %v", src.PrimaryPressed(), tt.primary)
			}
			if input.OptionPressed != tt.option {
				t.Fatalf("OptionPressed = %d, want %d", input.OptionPressed, tt.option)
			}
		})
	}

	if (worldInput{w: ecs.NewWorld()}).PrimaryPressed() {
		t.Fatalf("a world without input must never report a press")
	}
}

func TestSceneSystemRequestsMusic(t *testing.T) {
	log, _ := test.NewNullLogger()
	w := ecs.NewWorld()

	quiet := ecs.CreateEntity(w)
	_ = ecs.Add(w, quiet, component.SceneNodeComponent.Kind(), &component.SceneNode{Name: "quiet"})

	loud := ecs.CreateEntity(w)
	_ = ecs.Add(w, loud, component.SceneNodeComponent.Kind(), &component.SceneNode{Name: "loud"})
	_ = ecs.Add(w, loud, component.SceneMusicComponent.Kind(), &component.SceneMusic{
		Request: component.MusicRequest{Track: "music/forest.wav", Loop: true},
	})

	var seen []string
	sys := NewSceneSystem(log)
	sys.OnChange = func(evt ecs.Event) {
		seen = append(seen, evt.Type+":"+evt.Data.(ecs.SceneEvent).Name)
	}

	entity.NewNode(w, quiet).Activate()
	entity.NewNode(w, loud).Activate()
	entity.NewNode(w, quiet).Deactivate()
	sys.Update(w)

	if len(seen) != 3 || seen[1] != ecs.EventSceneActivated+":loud" || seen[2] != ecs.EventSceneDeactivated+":quiet" {
		t.Fatalf("unexpected events %v", seen)
	}
	if w.Events().Len() != 0 {
		t.Fatalf("expected events drained")
	}

	var tracks []string
	ecs.ForEach(w, component.MusicRequestComponent.Kind(), func(_ ecs.Entity, req *component.MusicRequest) {
		tracks = append(tracks, req.Track)
	})
	if len(tracks) != 1 || tracks[0] != "music/forest.wav" {
		t.Fatalf("expected one forest request, got %v", tracks)
	}
}

func TestMusicSystemConsumesLatestRequest(t *testing.T) {
	log, hook := test.NewNullLogger()
	w := ecs.NewWorld()
	playerEnt := ecs.CreateEntity(w)
	_ = ecs.Add(w, playerEnt, component.MusicPlayerComponent.Kind(), &component.MusicPlayer{})

	var loaded []string
	sys := NewMusicSystem(log)
	sys.load = func(track string) (*audio.Player, error) {
		loaded = append(loaded, track)
		return nil, errors.New("no device")
	}

	RequestMusic(w, "music/a.wav")
	RequestMusic(w, "music/b.wav")
	sys.Update(w)

	if len(loaded) != 1 || loaded[0] != "music/b.wav" {
		t.Fatalf("expected only the latest request to load, got %v", loaded)
	}
	count := 0
	ecs.ForEach(w, component.MusicRequestComponent.Kind(), func(ecs.Entity, *component.MusicRequest) { count++ })
	if count != 0 {
		t.Fatalf("expected requests consumed, %d left", count)
	}

	player, _ := ecs.Get(w, playerEnt, component.MusicPlayerComponent.Kind())
	if player.CurrentTrack != "" || player.PendingActive {
		t.Fatalf("failed load must leave the player idle: %+v", player)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.ErrorLevel || entry.Data["track"] != "music/b.wav" {
		t.Fatalf("expected load failure logged, got %+v", entry)
	}

	StopMusic(w)
	sys.Update(w)
	if len(loaded) != 1 || player.PendingActive {
		t.Fatalf("stop with nothing playing must not load anything")
	}
}
