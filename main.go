// main.go - Main entry point for the Monotron synth and scope

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionMonotron
License: GPLv3 or later
*/


package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████\033[0m\n\033[38;2;255;50;147m▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀\033[0m\n\033[38;2;255;80;147m▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███\033[0m\n\033[38;2;255;110;147m░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄\033[0m\n\033[38;2;255;140;147m░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒\033[0m\n\033[38;2;255;170;147m░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░\033[0m\n\033[38;2;255;200;147m ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░\033[0m\n\033[38;2;255;230;147m ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░\033[0m\n\033[38;2;255;255;147m ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░\033[0m")
	fmt.Println("\nMonotron: additive square-wave oscillator with a triggered scope.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionMonotron")
	fmt.Println("Buy me a coffee: https://ko-fi.com/intuition/tip")
	fmt.Println("License: GPLv3 or later")
}

type sessionConfig struct {
	sampleRate int
	capacity   int
	frames     int
	pollMs     int

	volume    int
	pitchHz   float64
	harmonics int
	sound     bool

	refreshMs int
	trigger   int
	window    int

	script   string
	term     bool
	noWindow bool
	ipc      bool

	remoteKeys   string
	remoteScript string
	remoteQuery  bool
	features     bool
}

func (c sessionConfig) remote() bool {
	return c.remoteKeys != "" || c.remoteScript != "" || c.remoteQuery
}

func parseFlags(args []string) (sessionConfig, error) {
	var cfg sessionConfig

	flagSet := flag.NewFlagSet("monotron", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.IntVar(&cfg.sampleRate, "rate", DEFAULT_SAMPLE_RATE, "Output sample rate in Hz")
	flagSet.IntVar(&cfg.capacity, "capacity", DEFAULT_CAPTURE_CAPACITY, "Capture buffer size in samples")
	flagSet.IntVar(&cfg.frames, "frames", 0, "Frames per audio buffer (0 = backend default)")
	flagSet.IntVar(&cfg.pollMs, "poll", int(DEFAULT_CAPTURE_POLL/time.Millisecond), "Capture completion poll interval in ms")
	flagSet.IntVar(&cfg.volume, "volume", DEFAULT_VOLUME_CONTROL, "Initial volume (0-100)")
	flagSet.Float64Var(&cfg.pitchHz, "pitch", DEFAULT_PITCH_HZ, "Initial pitch in Hz")
	flagSet.IntVar(&cfg.harmonics, "harmonics", DEFAULT_HARMONICS_CONTROL, "Initial odd harmonic count (0-100)")
	flagSet.BoolVar(&cfg.sound, "sound", false, "Start with sound on")
	flagSet.IntVar(&cfg.refreshMs, "refresh", DEFAULT_REFRESH_MS, "Scope refresh period in ms (0-500, 0 = manual)")
	flagSet.IntVar(&cfg.trigger, "trigger", DEFAULT_TRIGGER_CONTROL, "Trigger level control (-200-200, level = value/100)")
	flagSet.IntVar(&cfg.window, "window", -1, "Samples displayed (0-capacity, -1 = capacity)")
	flagSet.StringVar(&cfg.script, "script", "", "Lua script driving the controls")
	flagSet.BoolVar(&cfg.term, "term", false, "Read control keys from the terminal")
	flagSet.BoolVar(&cfg.noWindow, "nowindow", false, "Render the scope as text instead of opening a window")
	flagSet.BoolVar(&cfg.ipc, "ipc", false, "Accept control requests on a Unix socket")
	flagSet.StringVar(&cfg.remoteKeys, "send", "", "Send control keys to a running session and exit")
	flagSet.StringVar(&cfg.remoteScript, "send-script", "", "Run a Lua script in a running session and exit")
	flagSet.BoolVar(&cfg.remoteQuery, "query", false, "Print the state of a running session and exit")
	flagSet.BoolVar(&cfg.features, "features", false, "Print compiled backends and exit")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./monotron [-rate 192000] [-capacity 4096] [-sound] [-term] [-nowindow] [-script patch.lua]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return cfg, err
	}
	if flagSet.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %v", flagSet.Args())
	}
	remotes := 0
	for _, set := range []bool{cfg.remoteKeys != "", cfg.remoteScript != "", cfg.remoteQuery} {
		if set {
			remotes++
		}
	}
	if remotes > 1 {
		return cfg, fmt.Errorf("-send, -send-script and -query are mutually exclusive")
	}
	return cfg, nil
}

func applyInitialControls(cfg sessionConfig, params *ParamChannel, settings *ScopeSettings) {
	params.SetVolume(cfg.volume)
	params.SetPitchHz(cfg.pitchHz)
	params.SetHarmonics(cfg.harmonics)
	params.SetSound(cfg.sound)
	settings.SetRefresh(cfg.refreshMs)
	settings.SetTrigger(cfg.trigger)
	if cfg.window >= 0 {
		settings.SetWindow(cfg.window)
	}
}

func main() {
	boilerPlate()

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	switch {
	case cfg.features:
		printFeatures()
	case cfg.remote():
		os.Exit(runRemote(cfg))
	default:
		os.Exit(run(cfg))
	}
}

// runRemote forwards one request to a session started with -ipc.
func runRemote(cfg sessionConfig) int {
	req := ipcRequest{Cmd: "state"}
	switch {
	case cfg.remoteKeys != "":
		req = ipcRequest{Cmd: "keys", Keys: cfg.remoteKeys}
	case cfg.remoteScript != "":
		path, err := filepath.Abs(cfg.remoteScript)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return 1
		}
		req = ipcRequest{Cmd: "script", Path: path}
	}
	st, err := SendIPC(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	if st != nil {
		fmt.Println(formatRemoteState(st))
	}
	return 0
}

func formatRemoteState(st *ipcState) string {
	return fmt.Sprintf("volume=%.2f pitch=%.2fHz harmonics=%d sound=%v rate=%d trigger=%+.2f window=%d refresh=%dms captures=%d",
		st.Volume, st.PitchHz, st.Harmonics, st.Sound, st.SampleRate, st.Trigger, st.Window, st.RefreshMs, st.Captures)
}

func run(cfg sessionConfig) int {
	engine, err := NewAudioEngine(cfg.sampleRate, cfg.capacity)
	if err != nil {
		fmt.Printf("Failed to initialize synth: %v\n", err)
		return 1
	}
	params := NewParamChannel(engine.State())
	settings := NewScopeSettings(engine.CaptureBuffer().Capacity())
	applyInitialControls(cfg, params, settings)

	// Audio first: without a live stream there is nothing to display.
	output, err := NewAudioOutput(engine, cfg.frames)
	if err != nil {
		fmt.Printf("Failed to initialize sound: %v\n", err)
		return 1
	}
	if err := output.Start(); err != nil {
		fmt.Printf("Failed to start sound: %v\n", err)
		_ = output.Close()
		return 1
	}
	runtimeStatus.setSession(output.Name(), engine.SampleRate(), settings.Capacity())
	fmt.Printf("Audio: %s stream, %d Hz, %d channels float32\n", output.Name(), engine.SampleRate(), STEREO_CHANNELS)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var window *ScopeWindow
	quit := func() {
		stop()
		if window != nil {
			window.Close()
		}
	}
	controller := NewController(params, settings, os.Stdout, quit)

	coord := NewCaptureCoordinator(engine)
	coord.SetPollInterval(time.Duration(cfg.pollMs) * time.Millisecond)

	if !cfg.noWindow {
		window, err = NewScopeWindow(controller, params, settings)
		if err != nil {
			fmt.Printf("Scope window unavailable (%v), using text display\n", err)
			window = nil
		}
	}

	var host *TerminalHost
	rawTerm := false
	if cfg.term {
		host = NewTerminalHost(controller)
		rawTerm = host.Start()
		controller.SetRawMode(rawTerm)
	}

	// Started after window is set: a remote quit key reads it.
	var ipc *IPCServer
	if cfg.ipc {
		ipc, err = NewIPCServer(&sessionControl{
			ctx:      ctx,
			keys:     controller,
			scripts:  NewScriptHost(params, settings, coord, os.Stdout),
			params:   params,
			settings: settings,
		})
		if err != nil {
			fmt.Printf("Control socket unavailable: %v\n", err)
			ipc = nil
		} else {
			ipc.Start()
			fmt.Printf("Control socket: %s\n", ipc.sockPath)
		}
	}

	var sink TraceSink
	if window != nil {
		sink = window
	} else {
		sink = newASCIITraceSink(os.Stdout, rawTerm)
	}

	scope := NewScope(coord, settings, sink)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return scope.Run(gctx) })
	if cfg.script != "" {
		scripts := NewScriptHost(params, settings, coord, os.Stdout)
		g.Go(func() error {
			if err := scripts.RunFile(gctx, cfg.script); err != nil {
				if gctx.Err() == nil {
					fmt.Fprintf(os.Stderr, "%v\n", err)
				}
				return nil
			}
			fmt.Println("script: finished")
			return nil
		})
	}
	settings.RequestDisplay()

	if window != nil {
		go func() {
			<-ctx.Done()
			window.Close()
		}()
		if err := window.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		stop()
	} else {
		if !rawTerm {
			fmt.Println("Running; press Ctrl-C to stop.")
		}
		<-ctx.Done()
	}

	_ = g.Wait()
	if ipc != nil {
		ipc.Stop()
	}
	if host != nil {
		host.Stop()
	}
	shutdownAudio(output)
	return 0
}

// shutdownAudio halts the producer last; a failure here is reported but
// does not change the exit status.
func shutdownAudio(output AudioOutput) {
	if err := output.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error terminating %s: %v\n", output.Name(), err)
		return
	}
	fmt.Printf("terminated %s\n", output.Name())
}
