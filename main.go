// main.go - MixDesk demo host: brings up the engine, runs an optional
// session script, then hands control to the terminal console.

package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"
)

func boilerPlate() {
	fmt.Println("MixDesk - real-time multi-track mixing engine")
	fmt.Println("https://github.com/mixdesk/mixdesk")
}

func backendFromName(name string) (int, error) {
	switch name {
	case "oto":
		return AUDIO_BACKEND_OTO, nil
	case "alsa":
		return AUDIO_BACKEND_ALSA, nil
	case "none":
		return AUDIO_BACKEND_NONE, nil
	}
	return 0, fmt.Errorf("unknown backend %q (want oto, alsa or none)", name)
}

func main() {
	backendName := flag.String("backend", "oto", "audio backend: oto, alsa or none")
	scriptPath := flag.String("script", "", "Lua session script to run at startup")
	demoTracks := flag.Bool("demo", false, "add a demo session (three tracks) at startup")
	flag.Parse()

	boilerPlate()

	backend, err := backendFromName(*backendName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	engine, err := NewMixEngine(backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize audio: %v\n", err)
		os.Exit(1)
	}
	defer engine.Shutdown()

	if *scriptPath != "" {
		host := NewScriptHost(engine)
		err := host.RunFile(*scriptPath)
		host.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	if *demoTracks {
		for _, t := range []struct {
			name string
			freq float32
		}{
			{"Bass", 110.0},
			{"Lead", 440.0},
			{"Pad", 220.0},
		} {
			if idx := engine.AddTrack(t.name, t.freq); idx >= 0 {
				engine.Track(idx).SetPlaying(true)
			}
		}
		engine.Start()
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println("stdin is not a terminal; exiting (use -script for batch sessions)")
		return
	}

	fmt.Println("space=transport n=track p=play m=mute s=solo +/-=vol [ ]=pan t=add q=quit")

	console := NewConsoleHost(engine)
	console.Start()
	defer console.Stop()
	<-console.Quit()
}
