// Command gym runs the kinematic controller interactively in the terminal
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/samuelbigos/tower-of-babylon/audio"
	"github.com/samuelbigos/tower-of-babylon/engine"
	"github.com/samuelbigos/tower-of-babylon/input"
	"github.com/samuelbigos/tower-of-babylon/logging"
	"github.com/samuelbigos/tower-of-babylon/parameter"
	"github.com/samuelbigos/tower-of-babylon/record"
	"github.com/samuelbigos/tower-of-babylon/render"
	"github.com/samuelbigos/tower-of-babylon/scene"
)

var (
	sceneFlag     = flag.String("scene", "swing", fmt.Sprintf("Builtin scene: %v", scene.Names()))
	sceneFileFlag = flag.String("scene-file", "", "YAML scene file, overrides -scene")
	tuningFlag    = flag.String("tuning", "", "YAML tuning overrides")
	recordFlag    = flag.String("record", "", "Write a zstd recording to this path")
	debugFlag     = flag.Bool("debug", false, "Write logs to "+logging.DefaultDir+"/"+logging.DefaultFileName)
	logFormatFlag = flag.String("log-format", "text", "Log format: text, json")
	muteFlag      = flag.Bool("mute", false, "Start with audio muted")
	holdFlag      = flag.Duration("hold", 150*time.Millisecond, "Key hold window; terminals report no key release")
)

func main() {
	flag.Parse()

	log, logFile, err := logging.New(logging.Options{Debug: *debugFlag, Format: *logFormatFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(log); err != nil {
		log.WithError(err).Error("gym exited")
		fmt.Fprintf(os.Stderr, "gym: %v\n", err)
		os.Exit(1)
	}
}

func loadScene(t parameter.Tuning) (*scene.Scene, record.Header, error) {
	h := record.Header{Tuning: t}
	if *sceneFileFlag != "" {
		sc, err := scene.Load(*sceneFileFlag, t)
		h.SceneFile = *sceneFileFlag
		if sc != nil {
			h.Scene = sc.Name
		}
		return sc, h, err
	}
	sc, err := scene.Builtin(*sceneFlag, t)
	h.Scene = *sceneFlag
	return sc, h, err
}

func run(log *logrus.Logger) error {
	tuning := parameter.Default()
	if *tuningFlag != "" {
		var err error
		if tuning, err = parameter.Load(*tuningFlag); err != nil {
			return err
		}
	}

	sc, header, err := loadScene(tuning)
	if err != nil {
		return err
	}
	sess, err := engine.NewSession(sc, tuning, log)
	if err != nil {
		return errors.Wrap(err, "session")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "terminal")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "terminal init")
	}
	// Panic Recovery: restore the terminal before the trace is printed
	defer func() {
		r := recover()
		screen.Fini()
		if r != nil {
			log.WithField("panic", r).Error("gym crashed")
			fmt.Fprintf(os.Stderr, "\n\x1b[31mGYM CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	cfg := audio.DefaultConfig()
	cfg.Enabled = !*muteFlag
	player := audio.NewCuePlayer(cfg, log)
	if err := player.Start(); err != nil {
		log.WithError(err).Warn("audio unavailable, continuing muted")
		player.SetMuted(true)
	}
	defer player.Close()
	sess.AddObserver(player)

	var rec *record.Writer
	if *recordFlag != "" {
		if rec, err = record.Create(*recordFlag, header); err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.WithError(err).Error("close recording")
			} else {
				log.WithFields(logrus.Fields{"path": *recordFlag, "steps": rec.Steps()}).Info("recording written")
			}
		}()
		sess.AddObserver(rec)
	}

	sampler := input.NewSampler()
	term := input.NewTerminal(sampler, input.DefaultKeyTable(), *holdFlag)
	viewer := render.NewViewer(screen, sc.World, sess.Controller().Capsule())
	clock := engine.NewClock(engine.NewMonotonicTimeProvider(), tuning.Tick, parameter.MaxCatchUpTicks)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	frameTicker := time.NewTicker(parameter.FrameUpdateInterval)
	defer frameTicker.Stop()

	log.WithFields(logrus.Fields{"scene": sc.Name, "tick": tuning.Tick}).Info("gym started")
	viewer.Draw(sess.Last(), hud(header, player, rec, clock))

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch term.HandleKey(ev, time.Now()) {
				case input.BindQuit:
					log.WithFields(logrus.Fields{"ticks": sess.Tick(), "state": sess.State()}).Info("gym quit")
					return nil
				case input.BindToggleMute:
					player.ToggleMute()
				case input.BindToggleView:
					mode := viewer.CycleMode()
					log.WithField("mode", mode).Debug("view mode")
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-frameTicker.C:
			term.Expire(time.Now())
			for n := clock.Advance(); n > 0; n-- {
				sess.Step(sampler.Frame(sess.Tick() + 1))
			}
			if rec != nil && rec.Err() != nil {
				return rec.Err()
			}
			viewer.Draw(sess.Last(), hud(header, player, rec, clock))
		}
	}
}

func hud(h record.Header, p *audio.CuePlayer, rec *record.Writer, c *engine.Clock) render.HUD {
	return render.HUD{
		Scene:     h.Scene,
		Muted:     p.Muted(),
		Recording: rec != nil,
		Dropped:   int(c.Dropped() / c.Step()),
	}
}
