package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/susu753/apexub/internal/literal"
	"github.com/susu753/apexub/resolver"
	"github.com/susu753/apexub/table"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	offsetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const pageSize = 15

type browseState int

const (
	stateList browseState = iota
	stateIndex
	stateDetail
)

type browseModel struct {
	err      error
	load     func() (*table.Table, error)
	table    *table.Table
	resolver *resolver.Resolver
	detail   *resolver.Resolution
	name     string
	versions []string
	keys     []table.Key
	visible  []table.Key
	filter   textinput.Model
	index    textinput.Model
	version  int
	selected int
	state    browseState
}

type tableLoadedMsg struct {
	err error
	t   *table.Table
}

type resolvedMsg struct {
	err error
	res resolver.Resolution
}

func newBrowseModel(a *app, gameVersion string) *browseModel {
	filter := textinput.New()
	filter.Prompt = "filter: "
	filter.Placeholder = "symbol or group"
	filter.Width = 40
	filter.Focus()

	index := textinput.New()
	index.Prompt = "index: "
	index.Placeholder = "0"
	index.Width = 12

	m := &browseModel{
		load:   a.loadTable,
		name:   a.tableName(),
		filter: filter,
		index:  index,
		state:  stateList,
	}
	if gameVersion != "" {
		m.versions = []string{gameVersion}
	}
	return m
}

func (m *browseModel) loadTable() tea.Msg {
	t, err := m.load()
	return tableLoadedMsg{t: t, err: err}
}

func (m *browseModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadTable)
}

func (m *browseModel) currentVersion() string {
	if len(m.versions) == 0 {
		return ""
	}
	return m.versions[m.version]
}

func (m *browseModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for _, k := range m.keys {
		if q == "" || strings.Contains(strings.ToLower(k.String()), q) {
			m.visible = append(m.visible, k)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *browseModel) isComposite(k table.Key) bool {
	for _, e := range m.table.GroupEntriesFor(k.Group, k.Symbol) {
		if e.IsComposite() {
			return true
		}
	}
	return false
}

func (m *browseModel) resolve(k table.Key, index *int64) tea.Cmd {
	req := resolver.Request{
		Symbol:  k.Symbol,
		Group:   k.Group,
		Version: m.currentVersion(),
		Index:   index,
		Scoped:  true,
	}
	r := m.resolver
	return func() tea.Msg {
		res, err := r.Resolve(req)
		return resolvedMsg{res: res, err: err}
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "up":
			if m.state == stateList && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.state == stateList && m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil

		case "tab":
			if m.state == stateList && len(m.versions) > 1 {
				m.version = (m.version + 1) % len(m.versions)
			}
			return m, nil

		case "enter":
			switch m.state {
			case stateList:
				if len(m.visible) == 0 || m.table == nil {
					return m, nil
				}
				k := m.visible[m.selected]
				if m.isComposite(k) {
					m.state = stateIndex
					m.filter.Blur()
					m.index.SetValue("")
					m.index.Focus()
					return m, nil
				}
				return m, m.resolve(k, nil)

			case stateIndex:
				idx, err := strconv.ParseInt(strings.TrimSpace(m.index.Value()), 0, 64)
				if err != nil {
					m.err = fmt.Errorf("index: %w", err)
					m.state = stateDetail
					return m, nil
				}
				return m, m.resolve(m.visible[m.selected], &idx)

			case stateDetail:
				if m.table == nil {
					return m, tea.Quit
				}
				m.back()
			}
			return m, nil

		case "esc":
			if m.state == stateList {
				return m, tea.Quit
			}
			m.back()
			return m, nil
		}

	case tableLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateDetail
			return m, nil
		}
		m.table = msg.t
		// Fallbacks are shown on screen; log lines would corrupt the display.
		m.resolver = resolver.New(msg.t, resolver.WithLogger(zap.NewNop()))
		m.keys = msg.t.Keys()
		if len(m.versions) == 0 {
			for _, v := range msg.t.Versions() {
				m.versions = append(m.versions, v.String())
			}
			if len(m.versions) > 0 {
				m.version = len(m.versions) - 1
			}
		}
		m.applyFilter()
		return m, nil

	case resolvedMsg:
		m.err = msg.err
		m.detail = nil
		if msg.err == nil {
			res := msg.res
			m.detail = &res
		}
		m.state = stateDetail
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateList:
		m.filter, cmd = m.filter.Update(msg)
		if m.table != nil {
			m.applyFilter()
		}
	case stateIndex:
		m.index, cmd = m.index.Update(msg)
	}
	return m, cmd
}

func (m *browseModel) back() {
	m.state = stateList
	m.err = nil
	m.detail = nil
	m.index.Blur()
	m.filter.Focus()
}

func (m *browseModel) View() string {
	if m.table == nil && m.err == nil {
		return "Loading table..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Offsets"))
	b.WriteString(" ")
	b.WriteString(m.name)
	if v := m.currentVersion(); v != "" {
		b.WriteString(" @ ")
		b.WriteString(keyStyle.Render(v))
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateList:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		start := 0
		if m.selected >= pageSize {
			start = m.selected - pageSize + 1
		}
		end := min(start+pageSize, len(m.visible))
		for i := start; i < end; i++ {
			k := m.visible[i]
			line := k.String()
			if m.isComposite(k) {
				line += " [indexed]"
			}
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + keyStyle.Render(line))
			}
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\n%d of %d keys\n", len(m.visible), len(m.keys))
		b.WriteString(helpStyle.Render("↑/↓ select • enter resolve • tab version • esc quit"))

	case stateIndex:
		fmt.Fprintf(&b, "Resolving %s\n\n", keyStyle.Render(m.visible[m.selected].String()))
		b.WriteString(m.index.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter resolve • esc back"))

	case stateDetail:
		if m.err != nil {
			b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else if m.detail != nil {
			var d strings.Builder
			printResolution(&d, *m.detail)
			b.WriteString(offsetStyle.Render(literal.Hex(m.detail.Offset)))
			b.WriteString("\n\n")
			b.WriteString(d.String())
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • ctrl+c quit"))
	}

	return b.String()
}

func newBrowseCmd(a *app) *cobra.Command {
	var gameVersion string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse and resolve offsets interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("browse requires an interactive terminal; use list or dump instead")
			}
			p := tea.NewProgram(newBrowseModel(a, gameVersion), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&gameVersion, "version", "v", "", "game version (default: newest in the table)")
	return cmd
}
