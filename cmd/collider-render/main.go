// Command collider-render renders a patch offline to a WAV file
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lixenwraith/signal-collider/engine"
	"github.com/lixenwraith/signal-collider/model"
	"github.com/lixenwraith/signal-collider/output"
	"github.com/lixenwraith/signal-collider/palette"
	"github.com/lixenwraith/signal-collider/parameter"
	"github.com/lixenwraith/signal-collider/sim"
)

func main() {
	patch := flag.String("patch", "", "Patch file to render (required)")
	paletteList := flag.String("palette", "", "Palette list file")
	out := flag.String("out", "out.wav", "Output WAV path")
	seconds := flag.Float64("seconds", 10, "Duration in seconds")
	rate := flag.Int("rate", parameter.AudioSampleRate, "Sample rate in Hz")
	reverb := flag.Bool("reverb", false, "Enable reverb")
	gain := flag.Float64("gain", 1, "Output gain")
	bits := flag.Int("bits", 16, "Bit depth: 16 or 24")
	flag.Parse()

	if *patch == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *bits != 16 && *bits != 24 {
		fmt.Fprintf(os.Stderr, "collider-render: unsupported bit depth %d\n", *bits)
		os.Exit(2)
	}

	grid, err := model.LoadFile(*patch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "collider-render: %v\n", err)
		os.Exit(1)
	}

	cfg := engine.DefaultConfig()
	cfg.SampleRate = *rate
	cfg.Reverb = *reverb
	cfg.Volume = 1
	eng := engine.New(cfg)

	if *paletteList != "" {
		bank, err := palette.Load(*paletteList, *rate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "collider-render: %v\n", err)
			os.Exit(1)
		}
		eng.SetPalette(bank)
	}

	s, host := sim.Init(eng, sim.Config{})
	host.Load(grid)

	// Offline there is no render thread: release snapshots after every block
	r := output.RendererFunc(func(buf []float32, frames int) {
		s.Step(buf, frames)
		host.Refresh()
	})

	opts := output.RenderOptions{
		SampleRate: *rate,
		Frames:     int(*seconds * float64(*rate)),
		Precision:  *bits / 8,
		Gain:       *gain,
	}
	if err := output.RenderWAVFile(*out, r, opts); err != nil {
		fmt.Fprintf(os.Stderr, "collider-render: %v\n", err)
		os.Exit(1)
	}

	st := host.Stats()
	log.Printf("rendered %d frames to %s (%d blocks, %d starved)", opts.Frames, *out, st.Blocks, st.Starved)
}
