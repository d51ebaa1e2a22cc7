package params

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPresetRoundTrip(t *testing.T) {
	s := NewStore()
	s.SetValue(PitchBendRange, 7)
	s.SetValue(Path, 3)
	s.SetValue(SinPhase, 0.37)
	s.SetNormalized(SawPeriodsRandomness, 0.123456)

	var buf bytes.Buffer
	if err := s.SavePreset(&buf); err != nil {
		t.Fatalf("SavePreset: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != NumParams {
		t.Fatalf("%d lines written", lines)
	}

	loaded := NewStore()
	if err := loaded.LoadPreset(&buf); err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
	for _, p := range All() {
		if loaded.Normalized(p) != s.Normalized(p) {
			t.Fatalf("%s: %v != %v", p, loaded.Normalized(p), s.Normalized(p))
		}
	}
}

func TestLoadPresetIsAllOrNothing(t *testing.T) {
	var good bytes.Buffer
	src := NewStore()
	src.SetValue(PitchBendRange, 2)
	src.SavePreset(&good)
	lines := strings.Split(strings.TrimSpace(good.String()), "\n")

	cases := map[string]string{
		"too few":  strings.Join(lines[:NumParams-1], "\n"),
		"too many": strings.Join(append(lines, "0.5"), "\n"),
		"garbage":  strings.Join(append(append([]string{}, lines[:4]...), append([]string{"loud"}, lines[5:]...)...), "\n"),
		"empty":    "",
	}
	for name, text := range cases {
		s := NewStore()
		if err := s.LoadPreset(strings.NewReader(text)); err == nil {
			t.Fatalf("%s: no error", name)
		}
		if s.Value(PitchBendRange) != 24 {
			t.Fatalf("%s: store modified by a failed load", name)
		}
	}
}

func TestLoadPresetSkipsBlankLines(t *testing.T) {
	var buf bytes.Buffer
	NewStore().SavePreset(&buf)
	text := "\n" + strings.ReplaceAll(buf.String(), "\n", "\n\n")
	if err := NewStore().LoadPreset(strings.NewReader(text)); err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
}

func TestPresetFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "presets")

	files, err := ListPresets(dir)
	if err != nil || len(files) != 0 {
		t.Fatalf("missing dir: %v %v", files, err)
	}

	s := NewStore()
	s.SetValue(BendDuration, 5)
	if _, err := s.SavePresetFile(dir, "b"); err != nil {
		t.Fatalf("save b: %v", err)
	}
	path, err := s.SavePresetFile(dir, "a.preset")
	if err != nil {
		t.Fatalf("save a: %v", err)
	}
	if filepath.Base(path) != "a.preset" {
		t.Fatalf("saved as %s", path)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	files, err = ListPresets(dir)
	if err != nil {
		t.Fatalf("ListPresets: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.preset" || filepath.Base(files[1]) != "b.preset" {
		t.Fatalf("files = %v", files)
	}

	loaded := NewStore()
	if err := loaded.LoadPresetFile(files[1]); err != nil {
		t.Fatalf("LoadPresetFile: %v", err)
	}
	if loaded.Normalized(BendDuration) != s.Normalized(BendDuration) {
		t.Fatalf("bend duration not restored")
	}
	if err := loaded.LoadPresetFile(filepath.Join(dir, "missing.preset")); err == nil {
		t.Fatalf("missing file loaded")
	}
}
