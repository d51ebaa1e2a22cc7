package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-gliss/config"
	"go-gliss/debug"
	"go-gliss/glide"
	"go-gliss/midi"
	"go-gliss/params"
	"go-gliss/theme"
	"go-gliss/widgets"
)

const (
	defaultWidth = 100
	laneWindow   = 4 * time.Second
	chordRows    = 4
)

type view int

const (
	viewLanes view = iota
	viewPlot
)

type Model struct {
	Processor  *glide.Processor
	Params     *params.Store
	DeviceMgr  *midi.DeviceManager
	Theme      *theme.Theme
	OutputName string
	PresetDir  string
	// Config, when set, remembers the last saved or loaded preset.
	// ConfigPath overrides the default config location.
	Config     *config.Config
	ConfigPath string

	cursor     int
	view       view
	width      int
	height     int
	status     string
	statusOK   bool
	showHelp   bool
	presetIdx  int
	quitting   bool
	controller midi.Controller // current keyboard (may be nil)
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(proc *glide.Processor, store *params.Store, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	return Model{
		Processor: proc,
		Params:    store,
		DeviceMgr: deviceMgr,
		Theme:     th,
		width:     defaultWidth,
		presetIdx: -1,
	}
}

func ListenForUpdates(proc *glide.Processor) tea.Cmd {
	return func() tea.Msg {
		<-proc.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Processor)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case UpdateMsg:
		return m, ListenForUpdates(m.Processor)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			m.controller = event.Controller
			m.Processor.Attach(event.Controller)
			m.status = "keyboard: " + event.ID
		case midi.DeviceDisconnected:
			if m.controller != nil && m.controller.ID() == event.ID {
				m.controller = nil
				m.status = "keyboard disconnected"
			}
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	p := params.Param(m.cursor)
	m.statusOK = false
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		m.cursor = (m.cursor + params.NumParams - 1) % params.NumParams
	case "down", "j":
		m.cursor = (m.cursor + 1) % params.NumParams

	case "left", "h":
		m.Params.Nudge(p, -1)
	case "right", "l":
		m.Params.Nudge(p, 1)
	case "H", "shift+left":
		m.Params.Nudge(p, -10)
	case "L", "shift+right":
		m.Params.Nudge(p, 10)

	case "r":
		c := p.Config()
		m.Params.SetValue(p, c.Default)
	case "R":
		m.Params.Reset()
		m.status = "all parameters reset"

	case "s":
		name := "gliss-" + time.Now().Format("20060102-150405")
		path, err := m.Params.SavePresetFile(m.PresetDir, name)
		if err != nil {
			m.status = "save failed: " + err.Error()
			debug.Warn("preset", "%v", err)
		} else {
			m.status = "saved " + filepath.Base(path)
			m.statusOK = true
			m.rememberPreset(path)
		}

	case "o":
		m.status, m.statusOK = m.loadNextPreset()

	case "tab":
		m.view = (m.view + 1) % 2
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// loadNextPreset cycles through the preset directory
func (m *Model) loadNextPreset() (string, bool) {
	files, err := params.ListPresets(m.PresetDir)
	if err != nil {
		return err.Error(), false
	}
	if len(files) == 0 {
		return "no presets in " + m.PresetDir, false
	}
	m.presetIdx = (m.presetIdx + 1) % len(files)
	path := files[m.presetIdx]
	if err := m.Params.LoadPresetFile(path); err != nil {
		debug.Warn("preset", "%v", err)
		return "load failed: " + err.Error(), false
	}
	m.rememberPreset(path)
	return "loaded " + filepath.Base(path), true
}

func (m *Model) rememberPreset(path string) {
	if m.Config == nil {
		return
	}
	m.Config.UI.LastPreset = path
	var err error
	if m.ConfigPath != "" {
		err = m.Config.SaveTo(m.ConfigPath)
	} else {
		err = m.Config.Save()
	}
	if err != nil {
		debug.Warn("config", "remember preset: %v", err)
	}
}

var keyHelp = []widgets.KeySection{
	{Title: "Parameters", Keys: []widgets.KeyBinding{
		{Key: "up/k down/j", Desc: "select parameter"},
		{Key: "left/h right/l", Desc: "adjust by one step"},
		{Key: "H/L", Desc: "adjust by ten steps"},
		{Key: "r", Desc: "reset selected to default"},
		{Key: "R", Desc: "reset all"},
	}},
	{Title: "Presets", Keys: []widgets.KeyBinding{
		{Key: "s", Desc: "save to preset directory"},
		{Key: "o", Desc: "load next preset"},
	}},
	{Title: "View", Keys: []widgets.KeyBinding{
		{Key: "tab", Desc: "lanes / pitch plot"},
		{Key: "?", Desc: "toggle this help"},
		{Key: "q", Desc: "quit"},
	}},
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	snap := m.Processor.Snapshot()

	kb := "no keyboard"
	if m.controller != nil {
		kb = m.controller.ID()
	}
	voices := 0
	if snap != nil {
		voices = len(snap.Glides)
	}
	header := headerStyle.Render(fmt.Sprintf("go-gliss  in:%s  out:%s  voices:%2d/%d",
		kb, m.OutputName, voices, midi.MaxVoices))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")
	if snap != nil {
		out.WriteString(m.statsLine(snap, dimStyle, warnStyle))
	}
	out.WriteString("\n\n")

	laneWidth := max(m.width-24, 20)
	window := widgets.Window{Past: laneWindow / 2, Ahead: laneWindow / 2}
	var body string
	if m.view == viewPlot {
		body = widgets.Plot{Theme: m.Theme, Width: laneWidth, Height: midi.MaxVoices, Window: window}.View(snap)
	} else {
		body = widgets.Lanes{Theme: m.Theme, Width: laneWidth, Window: window}.View(snap)
	}
	if m.showHelp {
		body = widgets.RenderKeyHelp(keyHelp)
	}
	out.WriteString(body)
	out.WriteString("\n\n")

	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.paramList(),
		"   ",
		m.chordHistory(snap, dimStyle),
	))
	out.WriteString("\n\n")

	help := widgets.RenderKeyLine([]widgets.KeyBinding{
		{Key: "j/k", Desc: "select"},
		{Key: "h/l", Desc: "adjust"},
		{Key: "H/L", Desc: "x10"},
		{Key: "r/R", Desc: "reset"},
		{Key: "s", Desc: "save"},
		{Key: "o", Desc: "load"},
		{Key: "tab", Desc: "view"},
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "quit"},
	}, dimStyle)
	out.WriteString(help)

	if m.status != "" {
		statusStyle := dimStyle
		if m.statusOK {
			statusStyle = lipgloss.NewStyle().Foreground(m.Theme.Success())
		}
		out.WriteString("\n")
		out.WriteString(statusStyle.Render(m.status))
	}
	return out.String()
}

func (m Model) statsLine(snap *glide.Snapshot, dim, warn lipgloss.Style) string {
	st := snap.Stats
	line := dim.Render(fmt.Sprintf("chords:%d spawned:%d retargeted:%d", st.Chords, st.Spawned, st.Retargeted))
	var problems []string
	if st.Overflows > 0 {
		problems = append(problems, fmt.Sprintf("overflow:%d", st.Overflows))
	}
	if st.Dropped > 0 {
		problems = append(problems, fmt.Sprintf("dropped:%d", st.Dropped))
	}
	if n := m.Processor.Dropped(); n > 0 {
		problems = append(problems, fmt.Sprintf("queue-full:%d", n))
	}
	if n := m.Processor.SendErrors(); n > 0 {
		problems = append(problems, fmt.Sprintf("send-errors:%d", n))
	}
	if len(problems) > 0 {
		line += "  " + warn.Render(strings.Join(problems, " "))
	}
	return line
}

func (m Model) paramList() string {
	normal := lipgloss.NewStyle().Foreground(m.Theme.FG())
	selected := lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true)

	// show a scrolling page around the cursor
	rows := 12
	first := min(max(m.cursor-rows/2, 0), params.NumParams-rows)

	lines := make([]string, 0, rows)
	for i := first; i < first+rows; i++ {
		p := params.Param(i)
		text := fmt.Sprintf("  %-30s %s", p, m.Params.Display(p))
		if i == m.cursor {
			text = string(m.Theme.Symbols.Selected) + text[1:]
			lines = append(lines, selected.Render(text))
			continue
		}
		lines = append(lines, normal.Render(text))
	}
	return strings.Join(lines, "\n")
}

func (m Model) chordHistory(snap *glide.Snapshot, dim lipgloss.Style) string {
	lines := []string{dim.Render("recent chords")}
	if snap == nil {
		return strings.Join(lines, "\n")
	}
	chords := snap.Chords
	if len(chords) > chordRows {
		chords = chords[len(chords)-chordRows:]
	}
	for i := len(chords) - 1; i >= 0; i-- {
		c := chords[i]
		names := make([]string, len(c.Notes))
		for j, n := range c.Notes {
			names[j] = widgets.NoteName(n.Number)
			if n.NewVoice {
				names[j] += "*"
			}
		}
		state := "capturing"
		if c.Dispatched {
			state = fmt.Sprintf("%.1fs ago", snap.Time-c.Start)
		}
		lines = append(lines, fmt.Sprintf("%-28s %s", strings.Join(names, " "), dim.Render(state)))
	}
	return strings.Join(lines, "\n")
}
