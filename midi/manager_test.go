package midi

import "testing"

func TestPortPatternsSelect(t *testing.T) {
	names := []string{"Midi Through Port-0", "IAC Bus 1", "Arturia KeyStep 32", "Launchkey Mini MIDI"}

	cases := []struct {
		name     string
		patterns PortPatterns
		ports    []string
		want     int
	}{
		{"preferred wins", PortPatterns{Preferred: []string{"launchkey"}, Excluded: []string{"through", "iac"}}, names, 3},
		{"first remaining", PortPatterns{Excluded: []string{"through", "iac"}}, names, 2},
		{"no patterns", PortPatterns{}, names, 0},
		{"excluded preferred", PortPatterns{Preferred: []string{"iac"}, Excluded: []string{"IAC"}}, names, 0},
		{"all excluded", PortPatterns{Excluded: []string{"i"}}, names, -1},
		{"no ports", PortPatterns{Preferred: []string{"key"}}, nil, -1},
	}
	for _, c := range cases {
		if got := c.patterns.Select(c.ports); got != c.want {
			t.Fatalf("%s: Select = %d, want %d", c.name, got, c.want)
		}
	}
}
