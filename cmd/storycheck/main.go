// Command storycheck validates story manifests and the prefabs, scripts and
// assets they reference.
package main

import (
	"flag"
	"os"

	"github.com/milk9111/storyscene/config"
	"github.com/milk9111/storyscene/logger"
	"github.com/milk9111/storyscene/prefabs"
	"github.com/milk9111/storyscene/stories"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logger.Log.WithError(err).Fatal("config")
	}

	storyName := flag.String("story", "", "story to check (default: every embedded story)")
	dir := flag.String("dir", cfg.PrefabDir, "prefab directory checked before the embedded prefabs; empty for embedded only")
	flag.Parse()

	log := logger.Init(cfg.LogLevel, cfg.LogFormat)
	prefabs.SetDiskDir(*dir)

	names := []string{*storyName}
	if *storyName == "" {
		names, err = embeddedStories()
		if err != nil {
			log.WithError(err).Fatal("list stories")
		}
	}

	failed := false
	for _, name := range names {
		s, err := stories.LoadStoryFromFS(name)
		if err != nil {
			log.WithError(err).WithField("story", name).Error("story not loaded")
			failed = true
			continue
		}
		problems := Check(s)
		for _, p := range problems {
			log.WithFields(logrus.Fields{"story": s.Name, "prefab": p.Prefab}).Error(p.Msg)
		}
		if len(problems) > 0 {
			failed = true
			continue
		}
		log.WithFields(logrus.Fields{"story": s.Name, "entities": len(s.Entities)}).Info("ok")
	}

	if failed {
		os.Exit(1)
	}
}
