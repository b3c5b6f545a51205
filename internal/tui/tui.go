// Package tui implements the interactive download form. It collects the
// shared folder link and destination path, runs the mirror on a background
// goroutine and streams log output into a scrollable pane.
package tui

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RunFunc performs a mirror run with the values entered in the form. Log
// output produced during the run must be written to logs so it shows up in
// the form's log pane.
type RunFunc func(ctx context.Context, link, dest string, useServiceAccount bool, logs io.Writer) error

// Options configure the form.
type Options struct {
	Run RunFunc

	// DefaultLink and DefaultDest preload the form fields.
	DefaultLink string
	DefaultDest string
}

const (
	statusReady   = "Ready"
	statusRunning = "Downloading..."
	statusDone    = "Download complete!"
	statusFailed  = "Download failed."
)

const (
	focusLink = iota
	focusDest
	focusToggle
	focusButton
	focusCount
)

const maxLogLines = 1000

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	buttonStyle  = lipgloss.NewStyle().Padding(0, 2)
	activeButton = buttonStyle.Foreground(lipgloss.Color("205")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type logLineMsg string

type runDoneMsg struct{ err error }

type model struct {
	opts Options

	link   textinput.Model
	dest   textinput.Model
	useSA  bool
	focus  int
	status string
	errMsg string

	running  bool
	logCh    chan string
	logw     io.Writer
	logLines []string
	viewport viewport.Model
}

func newModel(opts Options) model {
	link := textinput.New()
	link.Placeholder = "https://drive.google.com/drive/folders/..."
	link.Width = 58
	link.SetValue(opts.DefaultLink)
	link.Focus()

	dest := textinput.New()
	dest.Placeholder = "/path/to/download"
	dest.Width = 58
	dest.SetValue(opts.DefaultDest)

	logCh := make(chan string, 256)
	m := model{
		opts:     opts,
		link:     link,
		dest:     dest,
		useSA:    true,
		status:   statusReady,
		logCh:    logCh,
		viewport: viewport.New(76, 10),
	}
	m.logw = newLineWriter(func(line string) { logCh <- line })
	return m
}

// Run launches the form and blocks until the user quits it.
func Run(opts Options) error {
	p := tea.NewProgram(newModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func listenForLogs(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return logLineMsg(<-ch)
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForLogs(m.logCh))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 4
		h := msg.Height - 15
		if h < 3 {
			h = 3
		}
		m.viewport.Height = h
		m.viewport.SetContent(strings.Join(m.logLines, "\n"))
		return m, nil

	case logLineMsg:
		m.logLines = append(m.logLines, string(msg))
		if len(m.logLines) > maxLogLines {
			m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
		}
		m.viewport.SetContent(strings.Join(m.logLines, "\n"))
		m.viewport.GotoBottom()
		return m, listenForLogs(m.logCh)

	case runDoneMsg:
		m.running = false
		if msg.err != nil {
			m.status = statusFailed
			m.errMsg = msg.err.Error()
		} else {
			m.status = statusDone
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.running {
				return m, tea.Quit
			}
			return m, nil
		case "tab", "down":
			return m.setFocus((m.focus + 1) % focusCount), nil
		case "shift+tab", "up":
			return m.setFocus((m.focus + focusCount - 1) % focusCount), nil
		case "enter":
			return m.activate()
		case " ":
			if m.focus == focusToggle {
				m.useSA = !m.useSA
				return m, nil
			}
		}
	}

	return m.updateChildren(msg)
}

func (m model) setFocus(focus int) model {
	m.focus = focus
	if focus == focusLink {
		m.link.Focus()
	} else {
		m.link.Blur()
	}
	if focus == focusDest {
		m.dest.Focus()
	} else {
		m.dest.Blur()
	}
	return m
}

func (m model) activate() (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusLink, focusDest:
		return m.setFocus(m.focus + 1), nil
	case focusToggle:
		m.useSA = !m.useSA
		return m, nil
	case focusButton:
		return m.startRun()
	}
	return m, nil
}

func (m model) startRun() (tea.Model, tea.Cmd) {
	if m.running {
		return m, nil
	}
	link := strings.TrimSpace(m.link.Value())
	dest := strings.TrimSpace(m.dest.Value())
	if err := validateInputs(link, dest); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	m.running = true
	m.errMsg = ""
	m.status = statusRunning
	run := m.opts.Run
	useSA := m.useSA
	logs := m.logw
	return m, func() tea.Msg {
		return runDoneMsg{err: run(context.Background(), link, dest, useSA, logs)}
	}
}

func (m model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.link, cmd = m.link.Update(msg)
	cmds = append(cmds, cmd)
	m.dest, cmd = m.dest.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Drive Mirror"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Shared Drive Link"))
	b.WriteString("\n")
	b.WriteString(m.link.View())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Download Path"))
	b.WriteString("\n")
	b.WriteString(m.dest.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderToggle())
	b.WriteString("\n\n")
	b.WriteString(m.renderButton())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Log"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	b.WriteString("Status: " + m.status)
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: next field • enter: activate • esc: quit"))
	b.WriteString("\n")

	return b.String()
}

func (m model) renderToggle() string {
	box := "[ ]"
	if m.useSA {
		box = "[x]"
	}
	label := box + " Use service account key"
	if m.focus == focusToggle {
		return focusedStyle.Render(label)
	}
	return label
}

func (m model) renderButton() string {
	if m.running {
		return buttonStyle.Render("[ " + statusRunning + " ]")
	}
	if m.focus == focusButton {
		return activeButton.Render("[ Download ]")
	}
	return buttonStyle.Render("[ Download ]")
}

func validateInputs(link, dest string) error {
	if link == "" || dest == "" {
		return errors.New("please provide both a link and a download path")
	}
	return nil
}
