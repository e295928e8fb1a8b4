// Command collider runs the grid editor against the live audio engine
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/lixenwraith/signal-collider/config"
	"github.com/lixenwraith/signal-collider/editor"
	"github.com/lixenwraith/signal-collider/engine"
	"github.com/lixenwraith/signal-collider/model"
	"github.com/lixenwraith/signal-collider/output"
	"github.com/lixenwraith/signal-collider/palette"
	"github.com/lixenwraith/signal-collider/service"
	"github.com/lixenwraith/signal-collider/sim"
)

var (
	configFlag   = flag.String("config", "", "JSON config file")
	backendFlag  = flag.String("backend", "", "Audio backend: oto, speaker, null")
	paletteFlag  = flag.String("palette", "", "Palette list loaded at startup")
	patchFlag    = flag.String("patch", "", "Patch file loaded at startup")
	debugFlag    = flag.Bool("debug", false, "Write logs to logs/collider.log")
	reverbFlag   = flag.Bool("reverb", false, "Start with reverb enabled")
	historyFlag  = flag.Int("history", 0, "Snapshots retained by the render side")
	headlessFlag = flag.Bool("headless", false, "Run without the terminal editor")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "collider: %v\n", err)
		os.Exit(2)
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "collider: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig applies defaults, config file, environment and explicit flags in that order
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configFlag != "" {
		if err := cfg.LoadFile(*configFlag); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backendFlag
		case "palette":
			cfg.Palette = *paletteFlag
		case "patch":
			cfg.Patch = *patchFlag
		case "debug":
			cfg.Debug = *debugFlag
		case "reverb":
			cfg.Reverb = *reverbFlag
		case "history":
			cfg.HistoryDepth = *historyFlag
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	eng := engine.New(engine.Config{
		SampleRate: cfg.SampleRate,
		TickFrames: cfg.TickFrames,
		Volume:     cfg.Volume,
		Reverb:     cfg.Reverb,
	})
	s, host := sim.Init(eng, sim.Config{HistoryDepth: cfg.HistoryDepth})

	if cfg.Patch != "" {
		grid, err := model.LoadFile(cfg.Patch)
		if err != nil {
			return err
		}
		host.Load(grid)
		log.Printf("patch: loaded %s", cfg.Patch)
	}

	loader := palette.NewLoader(host, cfg.SampleRate)
	audio := output.NewService(cfg.Backend, s, cfg.SampleRate)

	hub := service.NewHub()
	hub.Register(audio)
	hub.Register(loader)

	var ed *editor.Service
	interactive := !*headlessFlag && term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		ed = editor.NewService(nil, host, loader)
		hub.Register(ed)
	}

	if err := hub.InitAll(); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	log.Printf("services: %v", hub.Order())

	if cfg.Palette != "" {
		if err := loader.Request(cfg.Palette); err != nil {
			log.Printf("palette: %v", err)
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	if interactive {
		select {
		case <-ed.Done():
		case <-sigs:
		}
	} else {
		monitor(host, loader, sigs)
	}

	hub.StopAll()

	st := host.Stats()
	log.Printf("stats: blocks=%d published=%d starved=%d dropped=%d backend=%s degraded=%v",
		st.Blocks, st.Published, st.Starved, st.Dropped, audio.Backend(), audio.IsDegraded())
	return nil
}

// monitor keeps the render side of the slot protocol alive without a terminal
// Snapshots are consumed and released so the audio side never starves
func monitor(host *sim.Host, loader *palette.Loader, sigs <-chan os.Signal) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigs:
			return
		case r := <-loader.Results():
			if r.Err != nil {
				log.Printf("palette: %s: %v", r.Path, r.Err)
			} else {
				log.Printf("palette: %s, %d sounds", r.Path, r.Populated)
			}
		case <-ticker.C:
			host.Refresh()
		}
	}
}
