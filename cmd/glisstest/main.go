package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-gliss/glide"
	"go-gliss/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer gomidi.CloseDriver()

	switch os.Args[1] {
	case "list":
		listPorts()
	case "monitor":
		monitor(arg(2, ""))
	case "sweep":
		sweep(arg(2, "IAC"), argFloat(3, 12))
	case "chords":
		chords(arg(2, "IAC"))
	default:
		usage()
	}
}

func usage() {
	fmt.Println("go-gliss MIDI test scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                      - List all MIDI ports")
	fmt.Println("  monitor [in]              - Print notes from the keyboard port")
	fmt.Println("  sweep [out] [semitones]   - Bend one note on channel 2 and back")
	fmt.Println("  chords [out]              - Play a chord progression through the glide engine")
}

func arg(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}

func argFloat(i int, def float64) float64 {
	v, err := strconv.ParseFloat(arg(i, ""), 64)
	if err != nil {
		return def
	}
	return v
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! Port enumeration is hung.")
	}
}

func monitor(prefer string) {
	ins := gomidi.GetInPorts()
	names := make([]string, len(ins))
	for i, p := range ins {
		names[i] = p.String()
	}
	patterns := midi.PortPatterns{Preferred: []string{prefer}, Excluded: []string{"Through"}}
	pick := patterns.Select(names)
	if pick < 0 {
		fmt.Println("No input port found")
		return
	}

	start := time.Now()
	clock := func() float64 { return time.Since(start).Seconds() }
	kb, err := midi.NewKeyboardController(names[pick], ins[pick], clock)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer kb.Close()

	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", names[pick])
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			fmt.Printf("\ndropped: %d\n", kb.Dropped())
			return
		case raw := <-kb.NoteEvents():
			kind := "note-off"
			if raw.IsNoteOn() && raw.Velocity > 0 {
				kind = "note-on "
			}
			fmt.Printf("%8.3fs  %s ch=%d note=%3d vel=%3d\n", raw.Time, kind, raw.SourceChannel(), raw.Note, raw.Velocity)
		}
	}
}

func sweep(outName string, semitones float64) {
	out, err := midi.OpenOutput(outName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Sweeping %+.1f semitones on %s channel 2\n", semitones, out.Name())

	const (
		channel   = midi.FirstVoiceChannel
		note      = 60
		duration  = 2.0
		bendRange = glide.DefaultBendRange
		steps     = 200
	)
	path := glide.Path{Shape: glide.SCurve, Sharpness: 2}
	target := midi.BendFromSemitones(semitones, bendRange)

	send := func(events ...midi.Event) {
		if err := out.Send(events); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
	send(
		midi.Event{Type: midi.PitchBend, Channel: channel, Bend: midi.BendCenter},
		midi.Event{Type: midi.NoteOn, Channel: channel, Note: note, Velocity: midi.DefaultVelocity},
	)
	for _, leg := range [][2]midi.Bend{{midi.BendCenter, target}, {target, midi.BendCenter}} {
		for i := 0; i <= steps; i++ {
			b := path.Bend(float64(i)/steps, leg[0], leg[1])
			send(midi.Event{Type: midi.PitchBend, Channel: channel, Bend: b})
			time.Sleep(time.Duration(duration / steps * float64(time.Second)))
		}
	}
	send(midi.Event{Type: midi.NoteOff, Channel: channel, Note: note})
	fmt.Println("Done!")
}

// chords plays a fixed progression through a live processor
func chords(outName string) {
	out, err := midi.OpenOutput(outName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	settings := glide.DefaultSettings()
	settings.BendDuration = 1
	settings.HoldDuration = 1.5
	engine := glide.New(glide.Config{Origin: time.Now(), Settings: settings})
	proc := glide.NewProcessor(engine, out, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		proc.Run(ctx)
	}()

	progression := [][]uint8{
		{60, 64, 67},
		{57, 60, 64, 69},
		{53, 57, 60},
		{55, 59, 62, 65, 67},
	}
	fmt.Printf("Playing %d chords on %s (origin %s)\n", len(progression), out.Name(), engine.Origin().Format(time.TimeOnly))
	for _, chord := range progression {
		for _, n := range chord {
			proc.Input(midi.RawEvent{Status: midi.NoteOn, Note: n, Velocity: 90, Time: proc.Clock()})
		}
		time.Sleep(1500 * time.Millisecond)
		if s := proc.Snapshot(); s != nil {
			fmt.Printf("  %v -> %d voices\n", chord, len(s.Glides))
		}
	}
	time.Sleep(2 * time.Second)

	cancel()
	<-done
	fmt.Printf("Done! %+v\n", engine.Stats())
}
