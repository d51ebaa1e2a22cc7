package params

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// PresetExt is the file extension of saved presets
const PresetExt = ".preset"

// SavePreset writes one normalized value per line in canonical order
func (s *Store) SavePreset(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, p := range All() {
		line := strconv.FormatFloat(float64(s.Normalized(p)), 'g', -1, 32)
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return errors.Wrap(err, "write preset")
		}
	}
	return errors.Wrap(bw.Flush(), "write preset")
}

// LoadPreset reads a preset written by SavePreset. Nothing is applied unless
// every line parses and the count matches.
func (s *Store) LoadPreset(r io.Reader) error {
	var values [NumParams]float32
	n := 0

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if n == NumParams {
			return errors.Errorf("preset has more than %d values", NumParams)
		}
		v, err := strconv.ParseFloat(line, 32)
		if err != nil {
			return errors.Wrapf(err, "preset line %d (%s)", n+1, Param(n))
		}
		values[n] = float32(v)
		n++
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "read preset")
	}
	if n != NumParams {
		return errors.Errorf("preset has %d values, want %d", n, NumParams)
	}

	for i, v := range values {
		s.SetNormalized(Param(i), v)
	}
	return nil
}

// SavePresetFile writes the store to dir/name.preset, creating dir
func (s *Store) SavePresetFile(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "create preset dir")
	}
	path := filepath.Join(dir, strings.TrimSuffix(name, PresetExt)+PresetExt)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create preset")
	}
	if err := s.SavePreset(f); err != nil {
		f.Close()
		return "", err
	}
	return path, errors.Wrap(f.Close(), "close preset")
}

// LoadPresetFile applies the preset at path
func (s *Store) LoadPresetFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open preset")
	}
	defer f.Close()
	return errors.Wrap(s.LoadPreset(f), filepath.Base(path))
}

// ListPresets returns the preset files in dir, sorted by name. A missing
// directory is empty.
func ListPresets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "list presets")
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == PresetExt {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(out)
	return out, nil
}
