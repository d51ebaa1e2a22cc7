package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-gliss/config"
	"go-gliss/glide"
	"go-gliss/midi"
	"go-gliss/params"
	"go-gliss/theme"
)

func testModel(t *testing.T) Model {
	t.Helper()
	engine := glide.New(glide.Config{Origin: time.Unix(0, 0)})
	store := params.NewStore()
	proc := glide.NewProcessor(engine, nil, store, 0)
	m := NewModel(proc, store, nil, theme.New(nil))
	m.PresetDir = t.TempDir()
	return m
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestCursorWraps(t *testing.T) {
	m := testModel(t)
	m = press(m, "up")
	if m.cursor != params.NumParams-1 {
		t.Fatalf("cursor = %d", m.cursor)
	}
	m = press(m, "down")
	m = press(m, "j")
	if m.cursor != 1 {
		t.Fatalf("cursor = %d", m.cursor)
	}
}

func TestAdjustAndReset(t *testing.T) {
	m := testModel(t)
	m = press(m, "l")
	m = press(m, "l")
	if got := m.Params.Value(params.PitchBendRange); got != 26 {
		t.Fatalf("range = %v", got)
	}
	m = press(m, "H")
	if got := m.Params.Value(params.PitchBendRange); got != 16 {
		t.Fatalf("range after -10 = %v", got)
	}
	m = press(m, "r")
	if got := m.Params.Value(params.PitchBendRange); got != 24 {
		t.Fatalf("range after reset = %v", got)
	}
}

func TestSaveAndLoadPreset(t *testing.T) {
	m := testModel(t)
	m = press(m, "l")
	m = press(m, "s")
	if !strings.HasPrefix(m.status, "saved ") {
		t.Fatalf("status = %q", m.status)
	}

	m = press(m, "R")
	if m.Params.Value(params.PitchBendRange) != 24 {
		t.Fatalf("reset all failed")
	}
	m = press(m, "o")
	if !strings.HasPrefix(m.status, "loaded ") || !m.statusOK {
		t.Fatalf("status = %q ok=%v", m.status, m.statusOK)
	}
	if got := m.Params.Value(params.PitchBendRange); got != 25 {
		t.Fatalf("range after load = %v", got)
	}
}

func TestViewRenders(t *testing.T) {
	m := testModel(t)
	m.Processor.Input(glideNote(60))
	m.Processor.Step(0)
	m.Processor.Step(1)

	out := m.View()
	for _, want := range []string{"go-gliss", "voices: 1/15", "Pitch Bend Range", "recent chords", "C4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}

	m = press(m, "tab")
	if m.view != viewPlot || m.View() == "" {
		t.Fatalf("plot view not shown")
	}

	m = press(m, "q")
	if m.View() != "" {
		t.Fatalf("view after quit")
	}
}

func TestPresetIsRemembered(t *testing.T) {
	m := testModel(t)
	m.Config = config.DefaultConfig()
	m.ConfigPath = filepath.Join(t.TempDir(), "config.json")

	m = press(m, "s")
	saved := m.Config.UI.LastPreset
	if filepath.Dir(saved) != m.PresetDir {
		t.Fatalf("last preset = %q", saved)
	}
	cfg, err := config.LoadFrom(m.ConfigPath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.UI.LastPreset != saved {
		t.Fatalf("persisted last preset = %q, want %q", cfg.UI.LastPreset, saved)
	}
}

func TestHelpToggle(t *testing.T) {
	m := testModel(t)
	m = press(m, "?")
	if out := m.View(); !strings.Contains(out, "load next preset") {
		t.Fatalf("help not shown:\n%s", out)
	}
	m = press(m, "?")
	if strings.Contains(m.View(), "load next preset") {
		t.Fatalf("help still shown")
	}
}

func glideNote(n uint8) midi.RawEvent {
	return midi.RawEvent{Status: midi.NoteOn, Note: n, Velocity: 100}
}
