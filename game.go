package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/storyscene/common"
	"github.com/milk9111/storyscene/config"
	"github.com/milk9111/storyscene/ecs"
	"github.com/milk9111/storyscene/ecs/component"
	"github.com/milk9111/storyscene/ecs/entity"
	"github.com/milk9111/storyscene/ecs/system"
	"github.com/milk9111/storyscene/prefabs"
	"github.com/sirupsen/logrus"
)

type Game struct {
	frames int
	debug  bool
	paused bool
	quit   bool

	cfg config.Config
	log logrus.FieldLogger

	world     *ecs.World
	story     *entity.LoadedStory
	scheduler *ecs.Scheduler
	dialogues *system.DialogueSystem
	render    *system.RenderSystem

	dialogueUI *DialogueUI
	pauseUI    *ebitenui.UI

	watcher *prefabs.Watcher
}

func NewGame(cfg config.Config, debug bool, log logrus.FieldLogger) (*Game, error) {
	g := &Game{
		debug:  debug,
		cfg:    cfg,
		log:    log,
		render: system.NewRenderSystem(),
	}
	g.dialogueUI = NewDialogueUI(log.WithField("ui", "dialogue"), g.selectOption)
	g.pauseUI = NewPauseUI(g)

	prefabs.SetDiskDir(cfg.PrefabDir)
	if err := g.loadWorld(nil); err != nil {
		return nil, err
	}

	if cfg.Watch {
		w, err := prefabs.WatchDisk(cfg.PrefabDir)
		if err != nil {
			log.WithError(err).Warn("prefab watching disabled")
		} else {
			g.watcher = w
			log.WithField("dir", cfg.PrefabDir).Info("watching prefabs")
		}
	}

	return g, nil
}

// loadWorld builds the configured story into a fresh world and swaps it in
// only if everything loaded. music carries playback over from the previous
// world.
func (g *Game) loadWorld(music *component.MusicPlayer) error {
	w := ecs.NewWorld()
	if _, err := system.NewInputEntity(w); err != nil {
		return fmt.Errorf("game: input: %w", err)
	}

	story, err := entity.LoadStoryByName(w, g.cfg.Story, g.log)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if _, err := entity.RestoreMusicPlayer(w, music); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	text, portrait, buttons := g.dialogueUI.Views()
	dialogues := system.NewDialogueSystem(system.DialogueViews{
		Text:    text,
		Image:   portrait,
		Buttons: buttons,
	}, g.log, 0)
	if speed, ok := g.cfg.TextSpeedOverride(); ok {
		dialogues.SetTextSpeed(speed)
	}

	input := system.NewInputSystem()
	input.PointerBlocked = g.dialogueUI.ButtonAt

	g.world = w
	g.story = story
	g.dialogues = dialogues
	g.scheduler = ecs.NewScheduler(
		input,
		dialogues,
		system.NewSceneSystem(g.log),
		system.NewAudioSystem(),
		system.NewMusicSystem(g.log),
	)
	g.dialogueUI.SetText("")
	g.dialogueUI.SetOpen(false)
	return nil
}

// reload rebuilds the story, keeping the current music playing.
func (g *Game) reload() {
	var music *component.MusicPlayer
	if ent, ok := ecs.First(g.world, component.MusicPlayerComponent.Kind()); ok {
		if mp, ok := ecs.Get(g.world, ent, component.MusicPlayerComponent.Kind()); ok {
			music = entity.CloneMusicPlayerState(mp)
		}
	}
	if err := g.loadWorld(music); err != nil {
		g.log.WithError(err).Error("reload failed, keeping current story")
		return
	}
	g.log.WithField("story", g.cfg.Story).Info("story reloaded")
}

func (g *Game) selectOption(i int) {
	if err := g.dialogues.SelectOption(g.world, i); err != nil {
		g.log.WithError(err).WithField("option", i).Debug("decision click not applied")
	}
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case change, ok := <-g.watcher.Changes():
			if !ok {
				g.watcher = nil
				return
			}
			g.log.WithFields(logrus.Fields{
				"file":    change.Name,
				"kind":    change.Kind,
				"removed": change.Removed,
			}).Debug("prefab changed")
			changed = true
		case err, ok := <-g.watcher.Errors():
			if !ok {
				g.watcher = nil
				return
			}
			g.log.WithError(err).Warn("prefab watcher")
		default:
			if changed {
				g.reload()
			}
			return
		}
	}
}

func (g *Game) Update() error {
	g.frames++

	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.pollWatcher()
	g.dialogueUI.Update()
	g.scheduler.Update(g.world)

	_, open := g.dialogues.Focused(g.world)
	g.dialogueUI.SetOpen(open)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.render.Draw(g.world, screen)
	g.dialogueUI.Draw(screen)

	if g.debug {
		state := "none"
		if ctrl, ok := g.dialogues.Focused(g.world); ok {
			state = fmt.Sprintf("%s line %d/%d", ctrl.State(), ctrl.Index()+1, ctrl.Len())
		}
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f  story: %s (%d scenes)  dialogue: %s",
			ebiten.ActualFPS(), g.story.Name, len(g.story.Scenes), state))
	}

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}
