package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"transit/sequencer"
	"transit/theme"
	"transit/widgets"
)

const gridIndent = 2

// layoutBounds holds cached layout info
type layoutBounds struct {
	gridTop int
}

type Model struct {
	Manager *sequencer.Manager
	Grid    *VirtualGrid // nil when a hardware grid is attached
	Theme   *theme.Theme
	Project string

	status   sequencer.Status
	haveData bool
	device   string
	cursor   [2]int
	pressed  *[2]int
	message  string
	quitting bool
	bounds   *layoutBounds
}

// StatusMsg carries a new status from the manager loop
type StatusMsg sequencer.Status

// DeviceMsg reports the grid currently driving the session ("" if none)
type DeviceMsg struct {
	ID string
}

type savedMsg struct {
	filename string
	err      error
}

func NewModel(manager *sequencer.Manager, vg *VirtualGrid, th *theme.Theme, project string) Model {
	m := Model{
		Manager: manager,
		Grid:    vg,
		Theme:   th,
		Project: project,
		status:  sequencer.Status{Focus: -1, Sequence: -1, Stage: -1},
		bounds:  &layoutBounds{},
	}
	if vg != nil {
		m.device = vg.ID()
		m.cursor = [2]int{sequencer.DefaultLayout.ControlRow, 0}
	}
	return m
}

func ListenForUpdates(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg(<-manager.UpdateChan)
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Manager)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case StatusMsg:
		m.status = sequencer.Status(msg)
		m.haveData = true
		return m, ListenForUpdates(m.Manager)

	case DeviceMsg:
		m.device = msg.ID

	case savedMsg:
		if msg.err != nil {
			m.message = "save failed: " + msg.err.Error()
		} else {
			m.message = "saved " + msg.filename
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "s":
		return m, m.save()
	}

	if m.Grid == nil {
		return m, nil
	}
	rows, cols := m.Grid.Size()
	layout := sequencer.LayoutFor(rows, cols)

	switch msg.String() {
	case "up", "k":
		m.cursor[0] = min(m.cursor[0]+1, rows-1)
	case "down", "j":
		m.cursor[0] = max(m.cursor[0]-1, 0)
	case "left", "h":
		m.cursor[1] = max(m.cursor[1]-1, 0)
	case "right", "l":
		m.cursor[1] = min(m.cursor[1]+1, cols-1)
	case " ", "space", "enter":
		m.Grid.Tap(m.cursor[0], m.cursor[1])
	case "x":
		m.Grid.Toggle(m.cursor[0], m.cursor[1])
	case "m":
		m.Grid.Toggle(layout.ControlRow, layout.MetaKey)
	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		m.Grid.Tap(layout.ControlRow, layout.TrackKeys[idx])
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.Grid == nil {
		return
	}
	rows, cols := m.Grid.Size()
	row, col, ok := widgets.CellAt(msg.X-gridIndent, msg.Y-m.bounds.gridTop, rows, cols)

	switch msg.Action {
	case tea.MouseActionPress:
		if !ok {
			return
		}
		m.cursor = [2]int{row, col}
		if msg.Button == tea.MouseButtonRight {
			m.Grid.Toggle(row, col)
			return
		}
		m.Grid.Press(row, col)
		m.pressed = &[2]int{row, col}
	case tea.MouseActionRelease:
		if m.pressed != nil {
			m.Grid.Release(m.pressed[0], m.pressed[1])
			m.pressed = nil
		}
	}
}

func (m Model) save() tea.Cmd {
	manager, project := m.Manager, m.Project
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		var filename string
		var saveErr error
		err := manager.Do(ctx, func(s *sequencer.Session) {
			filename, saveErr = sequencer.SaveProject(project, "", s)
		})
		if err == nil {
			err = saveErr
		}
		return savedMsg{filename: filename, err: err}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	textStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	st := m.status
	mode := strings.ToUpper(st.Mode.String())
	if st.Meta {
		mode += " +meta"
	}
	device := m.device
	if device == "" {
		device = "waiting for grid"
	}
	project := m.Project
	if project == "" {
		project = "untitled"
	}
	header := headerStyle.Render(fmt.Sprintf("transit  %-12s %s  [%s]", mode, device, project))

	info := textStyle.Render(fmt.Sprintf("focus:%s  queued:%s  sequence:%s  stage:%s",
		optional(st.Focus), queued(st.Queued), optional(st.Sequence), optional(st.Stage)))
	if st.Stage >= 0 {
		info += textStyle.Render(fmt.Sprintf("  duration:%d  width:%d", st.Duration, st.Width))
	}

	var gridView string
	if m.haveData {
		var cursor *[2]int
		if m.Grid != nil {
			c := m.cursor
			cursor = &c
		}
		gridView = widgets.RenderLevelGrid(st.Buffer, m.Theme, cursor)
	}
	gridView = lipgloss.NewStyle().PaddingLeft(gridIndent).Render(gridView)

	tracks := m.tracksView(textStyle)
	legend := m.legendView()
	help := dimStyle.Render(widgets.RenderKeyHelp(m.keySections()))

	// header, blank, info, blank, grid
	m.bounds.gridTop = 1 + lipgloss.Height(header) + 1 + lipgloss.Height(info) + 1

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(info)
	out.WriteString("\n\n")
	out.WriteString(gridView)
	out.WriteString("\n\n")
	if tracks != "" {
		out.WriteString(tracks)
		out.WriteString("\n\n")
	}
	out.WriteString(legend)
	out.WriteString("\n\n")
	out.WriteString(help)
	if m.message != "" {
		out.WriteString("\n\n")
		out.WriteString(textStyle.Render(m.message))
	}
	return out.String()
}

// tracksView lists which sequence slots each track holds, the same
// information the play-mode lower grid shows
func (m Model) tracksView(label lipgloss.Style) string {
	if !m.haveData {
		return ""
	}
	var lines []string
	for i, slots := range m.status.Occupied {
		name := fmt.Sprintf("track %d ", i+1)
		if i == m.status.Focus {
			name = fmt.Sprintf("track %d*", i+1)
		}
		var row strings.Builder
		for col, used := range slots {
			if col > 0 {
				row.WriteString(" ")
			}
			if used {
				row.WriteString(widgets.RenderPad(m.Theme.Level(sequencer.L2), m.Theme.Symbols.Lit))
			} else {
				row.WriteString(widgets.RenderPad(m.Theme.Palette.Lookup(theme.RoleMuted), m.Theme.Symbols.Off))
			}
		}
		lines = append(lines, label.Render(name)+" "+row.String())
	}
	return strings.Join(lines, "\n")
}

func (m Model) legendView() string {
	lit := m.Theme.Symbols.Lit
	return strings.Join([]string{
		widgets.RenderLegendItem(m.Theme.Level(sequencer.L1), lit, "dim", "empty slot while editing"),
		widgets.RenderLegendItem(m.Theme.Level(sequencer.L2), lit, "mid", "keys, sequences, parameter ladders"),
		widgets.RenderLegendItem(m.Theme.Level(sequencer.L3), lit, "bright", "selected stage, ladder start"),
		widgets.RenderLegendItem(m.Theme.Level(sequencer.L2+5), lit, "blink", "focused track, queued column, selection"),
	}, "\n")
}

func (m Model) keySections() []widgets.KeySection {
	general := widgets.KeySection{Keys: []widgets.KeyBinding{
		{Key: "s", Desc: "save snapshot"},
		{Key: "q", Desc: "quit"},
	}}
	if m.Grid == nil {
		return []widgets.KeySection{general}
	}
	return []widgets.KeySection{{Keys: []widgets.KeyBinding{
		{Key: "hjkl/arrows", Desc: "move cursor"},
		{Key: "space", Desc: "tap key"},
		{Key: "x", Desc: "hold/release key"},
		{Key: "m", Desc: "hold/release meta"},
		{Key: "1-4", Desc: "track keys"},
		{Key: "mouse", Desc: "press pads (right click holds)"},
	}}, general}
}

func optional(v int) string {
	if v < 0 {
		return "-"
	}
	return fmt.Sprint(v)
}

func queued(c sequencer.OptionalColumn) string {
	if v, ok := c.Unpack(); ok {
		return fmt.Sprint(v)
	}
	return "-"
}
