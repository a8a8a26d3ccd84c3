// main.go - CLI entry point: loads up to two tracks onto deck A/B, wires
// the engine to the default audio output backend, and, with -play,
// starts playback.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/deckengine/deckengine/internal/audiodevice"
	"github.com/deckengine/deckengine/internal/control"
	"github.com/deckengine/deckengine/internal/engine"
)

const defaultSampleRate = 44100

func main() {
	var (
		trackA string
		trackB string
		auto   bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&trackA, "a", "", "track to load onto deck A")
	flagSet.StringVar(&trackB, "b", "", "track to load onto deck B")
	flagSet.BoolVar(&auto, "play", false, "start playback immediately once tracks are loaded")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: deckengine -a trackA.wav -b trackB.mp3 [-play]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if trackA == "" && trackB == "" {
		flagSet.Usage()
		os.Exit(1)
	}

	e := engine.New()

	if trackA != "" {
		if err := e.LoadTrack(control.DeckA, trackA); err != nil {
			fmt.Printf("Error loading deck A track %q: %v\n", trackA, err)
			os.Exit(1)
		}
	}
	if trackB != "" {
		if err := e.LoadTrack(control.DeckB, trackB); err != nil {
			fmt.Printf("Error loading deck B track %q: %v\n", trackB, err)
			os.Exit(1)
		}
	}

	player, err := audiodevice.NewOtoPlayer(defaultSampleRate)
	if err != nil {
		fmt.Printf("Failed to initialize audio output: %v\n", err)
		os.Exit(1)
	}
	player.SetupPlayer(audiodevice.RenderFunc(e.Render))

	if auto {
		if trackA != "" {
			e.DeckA.Play()
		}
		if trackB != "" {
			e.DeckB.Play()
		}
	}

	player.Start()
	defer player.Close()

	stop := make(chan struct{})
	go e.RunPositionDriver(stop)
	defer close(stop)

	select {}
}
