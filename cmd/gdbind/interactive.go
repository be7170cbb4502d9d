package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/gdbind/api"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	classStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const pageSize = 20

type browserState int

const (
	stateList browserState = iota
	stateDetail
)

type browserModel struct {
	ctx      *api.Context
	filename string
	filter   textinput.Model
	classes  []string
	selected int
	offset   int
	state    browserState
}

func newBrowserModel(ctx *api.Context, filename, filter string) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.SetValue(filter)
	ti.Focus()
	return &browserModel{
		ctx:      ctx,
		filename: filename,
		filter:   ti,
		classes:  matchClasses(ctx, filter),
		state:    stateList,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "up":
			if m.state == stateList && m.selected > 0 {
				m.selected--
				m.scroll()
			}
			return m, nil

		case "down":
			if m.state == stateList && m.selected < len(m.classes)-1 {
				m.selected++
				m.scroll()
			}
			return m, nil

		case "enter":
			if m.state == stateList && len(m.classes) > 0 {
				m.state = stateDetail
				m.filter.Blur()
			}
			return m, nil

		case "esc":
			if m.state == stateDetail {
				m.state = stateList
				m.filter.Focus()
				return m, nil
			}
			return m, tea.Quit
		}
	}

	if m.state != stateList {
		return m, nil
	}
	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.classes = matchClasses(m.ctx, m.filter.Value())
		m.selected, m.offset = 0, 0
	}
	return m, cmd
}

func (m *browserModel) scroll() {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+pageSize {
		m.offset = m.selected - pageSize + 1
	}
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("gdbind classes"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(" ")
	b.WriteString(typeStyle.Render(m.ctx.Version()))
	b.WriteString("\n\n")

	switch m.state {
	case stateList:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		if len(m.classes) == 0 {
			b.WriteString(errorStyle.Render("no matching classes"))
			b.WriteString("\n")
		}
		end := min(m.offset+pageSize, len(m.classes))
		for i := m.offset; i < end; i++ {
			line := lineage(m.ctx, m.classes[i])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + classStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("\n%d/%d\n", len(m.classes), len(m.ctx.Classes())))
		b.WriteString(helpStyle.Render("type to filter • ↑/↓ select • enter details • esc quit"))

	case stateDetail:
		m.viewClass(&b, m.classes[m.selected])
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back • ctrl+c quit"))
	}

	return b.String()
}

func (m *browserModel) viewClass(b *strings.Builder, name string) {
	c, ok := m.ctx.Class(name)
	if !ok {
		b.WriteString(errorStyle.Render("unknown class " + name))
		return
	}
	b.WriteString(classStyle.Render(lineage(m.ctx, name)))
	if f := classFlags(m.ctx, c); f != "" {
		b.WriteString(" " + typeStyle.Render("["+f+"]"))
	}
	b.WriteString("\n")

	if len(c.Methods) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Methods") + "\n")
		for i := range c.Methods {
			b.WriteString("  " + formatMethod(&c.Methods[i]) + "\n")
		}
	}
	if len(c.Properties) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Properties") + "\n")
		for _, p := range c.Properties {
			b.WriteString("  " + p.Name + ": " + typeStyle.Render(p.Type) + "\n")
		}
	}
	if len(c.Signals) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Signals") + "\n")
		for _, s := range c.Signals {
			var args []string
			for _, a := range s.Arguments {
				args = append(args, a.Name+": "+a.Type)
			}
			b.WriteString("  " + s.Name + "(" + strings.Join(args, ", ") + ")\n")
		}
	}
}

// runInteractive opens the class browser, or falls back to the plain
// listing when stdout is not a terminal.
func runInteractive(ctx *api.Context, filename, filter string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "stdout is not a terminal; listing instead")
		return listClasses(os.Stdout, ctx, filter)
	}
	p := tea.NewProgram(newBrowserModel(ctx, filename, filter), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
