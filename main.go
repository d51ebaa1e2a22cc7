package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-gliss/config"
	"go-gliss/debug"
	"go-gliss/glide"
	"go-gliss/midi"
	"go-gliss/params"
	"go-gliss/theme"
	"go-gliss/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	outPort := flag.String("out", cfg.OutputPort, "output port (substring match)")
	inPort := flag.String("in", "", "preferred input port (substring match)")
	tickMs := flag.Int("tick", cfg.TickMillis, "control tick in milliseconds")
	preset := flag.String("preset", "", "preset file to load at startup")
	headless := flag.Bool("headless", false, "run without the monitor, logging to stderr")
	debugOn := flag.Bool("debug", cfg.Debug, "write a debug log")
	logPath := flag.String("log", debug.DefaultPath(), "debug log path")
	flag.Parse()

	if *inPort != "" {
		cfg.Input.Preferred = append([]string{*inPort}, cfg.Input.Preferred...)
	}
	switch {
	case *headless:
		debug.EnableWriter(os.Stderr)
	case *debugOn:
		if err := debug.Enable(*logPath); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	defer debug.Disable()

	store := params.NewStore()
	switch {
	case *preset != "":
		if err := store.LoadPresetFile(*preset); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	case cfg.UI.LastPreset != "":
		if err := store.LoadPresetFile(cfg.UI.LastPreset); err != nil {
			debug.Warn("preset", "last preset: %v", err)
		}
	}

	out, err := midi.OpenOutput(*outPort)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	engine := glide.New(glide.Config{
		Origin:       time.Now(),
		Settings:     store.Settings(),
		HistoryLimit: cfg.HistoryLimit,
	})
	proc := glide.NewProcessor(engine, out, store, time.Duration(*tickMs)*time.Millisecond)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	procDone := make(chan struct{})
	go func() {
		defer close(procDone)
		proc.Run(ctx)
	}()

	deviceMgr := midi.NewDeviceManager(cfg.PortPatterns(), proc.Clock)
	go deviceMgr.Run(ctx)

	if *headless {
		runHeadless(ctx, proc, deviceMgr)
	} else if err := runMonitor(ctx, proc, store, deviceMgr, cfg, out.Name()); err != nil && ctx.Err() == nil {
		fmt.Printf("Error: %v\n", err)
	}

	// stop the processor and let it release every voice
	cancel()
	<-procDone
	gomidi.CloseDriver()
}

func runMonitor(ctx context.Context, proc *glide.Processor, store *params.Store, deviceMgr *midi.DeviceManager, cfg *config.Config, outName string) error {
	palette := theme.DefaultPalette()
	if cfg.UI.Palette != "" {
		p, err := theme.LoadGPL(cfg.UI.Palette)
		if err != nil {
			debug.Warn("theme", "%v, using default palette", err)
		} else {
			palette = p
		}
	}

	m := tui.NewModel(proc, store, deviceMgr, theme.New(palette))
	m.OutputName = outName
	m.PresetDir = cfg.Presets()
	m.Config = cfg

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func runHeadless(ctx context.Context, proc *glide.Processor, deviceMgr *midi.DeviceManager) {
	fmt.Println("go-gliss")
	fmt.Println("Connect a MIDI keyboard any time - it will be detected automatically")
	fmt.Println("Ctrl+C to exit")

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-deviceMgr.Events():
			if !ok {
				return
			}
			if ev.Type == midi.DeviceConnected {
				proc.Attach(ev.Controller)
			}
			debug.Log("ports", "device event %d: %s (%d connected)", ev.Type, ev.ID, len(deviceMgr.Controllers()))
		}
	}
}
