package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.TickMillis != DefaultTickMillis || cfg.OutputPort != DefaultOutputPort || cfg.HistoryLimit != DefaultHistoryLimit {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.OutputPort = "Synth"
	cfg.Input.Preferred = []string{"KeyStep"}
	cfg.PresetDir = "/tmp/presets"
	cfg.Debug = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.OutputPort != "Synth" || !got.Debug || got.Presets() != "/tmp/presets" {
		t.Fatalf("loaded = %+v", got)
	}
	pp := got.PortPatterns()
	if !slices.Equal(pp.Preferred, []string{"KeyStep"}) || !slices.Equal(pp.Excluded, cfg.Input.Excluded) {
		t.Fatalf("port patterns = %+v", pp)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"outputPort": "loopMIDI", "tickMillis": 0}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.OutputPort != "loopMIDI" || cfg.TickMillis != DefaultTickMillis {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.Input.Excluded) == 0 {
		t.Fatalf("default exclusions lost")
	}
}

func TestLoadFromRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"outputPort": `), 0o644)
	if _, err := LoadFrom(path); err == nil {
		t.Fatalf("truncated json accepted")
	}
}
