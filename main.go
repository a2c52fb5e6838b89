package main

import (
	"errors"
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/storyscene/common"
	"github.com/milk9111/storyscene/config"
	"github.com/milk9111/storyscene/logger"
	"github.com/sirupsen/logrus"
)

// loadConfig reports a bad configuration through log before the logger has
// been configured from it.
func loadConfig(log *logrus.Logger, envFiles ...string) config.Config {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		log.WithError(err).Fatal("config not loaded")
	}
	return cfg
}

func main() {
	cfg := loadConfig(logger.Log, ".env")

	debug := flag.Bool("debug", false, "enable debug overlay and debug logging")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	storyName := flag.String("story", cfg.Story, "story name in stories/ (basename, .json optional)")
	watch := flag.Bool("watch", cfg.Watch, "reload prefabs from disk when they change")
	speed := flag.Float64("speed", cfg.TextSpeed, "seconds per revealed character for every dialogue (negative keeps each dialogue's own)")
	flag.Parse()

	cfg.Story = *storyName
	cfg.Watch = *watch
	cfg.TextSpeed = *speed
	if *debug {
		cfg.LogLevel = "debug"
	}
	lg := logger.Init(cfg.LogLevel, cfg.LogFormat)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth*2, common.BaseHeight*2)
	ebiten.SetWindowTitle("storyscene")

	game, err := NewGame(cfg, *debug, lg)
	if err != nil {
		lg.WithError(err).Fatal("game not started")
	}

	err = ebiten.RunGame(game)
	if cerr := game.Close(); cerr != nil {
		lg.WithError(cerr).Warn("close watcher")
	}
	if err != nil && !errors.Is(err, ebiten.Termination) {
		lg.WithError(err).Fatal("game exited")
	}
}
