// Package ui provides the Bubbletea view of a speakerman processing run.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-speakerman/internal/cli"
)

const (
	defaultWidth = 60
	labelWidth   = 12
)

var (
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1F6FEB"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// Model shows a progress bar and one level meter per group.
type Model struct {
	Title  string
	Groups []string

	Progress float64
	Frames   int
	Peak     []float64
	Current  []float64

	StartTime time.Time
	Done      bool
	Err       error

	Width int
}

// NewModel returns a model for a run with the given group names.
func NewModel(title string, groups []string) Model {
	return Model{
		Title:     title,
		Groups:    groups,
		Peak:      make([]float64, len(groups)+1),
		Current:   make([]float64, len(groups)+1),
		StartTime: time.Now(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd { return nil }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width

	case ProgressMsg:
		m.Progress = min(max(msg.Progress, 0), 1)
		m.Frames = msg.Frames
		if msg.HasLevel {
			for i := range m.Current {
				v := msg.Levels.Signal(i)
				m.Current[i] = v
				m.Peak[i] = max(m.Peak[i], v)
			}
		}

	case DoneMsg:
		m.Done = true
		m.Err = msg.Error
		m.Progress = 1
		return m, tea.Quit
	}

	return m, nil
}

// View renders the model.
func (m Model) View() string {
	width := m.Width
	if width <= 0 {
		width = defaultWidth
	}
	barWidth := max(width-labelWidth-20, 10)

	var sb strings.Builder
	sb.WriteString(cli.TitleStyle.Render(m.Title))
	sb.WriteString("\n")

	filled := int(m.Progress * float64(barWidth))
	sb.WriteString(fmt.Sprintf("  %-*s %s%s %5.1f%%\n", labelWidth, "progress",
		progressStyle.Render(strings.Repeat("█", filled)),
		mutedStyle.Render(strings.Repeat("░", barWidth-filled)),
		m.Progress*100))
	sb.WriteString("\n")

	for i := range m.Current {
		name := "sub"
		if i > 0 {
			name = m.Groups[i-1]
		}
		sb.WriteString(fmt.Sprintf("  %-*s %s %6.3f %s\n", labelWidth, name,
			cli.LevelBar(m.Current[i], barWidth), m.Current[i],
			mutedStyle.Render(fmt.Sprintf("peak %.3f", m.Peak[i]))))
	}

	sb.WriteString("\n")
	switch {
	case m.Err != nil:
		sb.WriteString(cli.ErrorStyle.Render("Error: " + m.Err.Error()))
	case m.Done:
		sb.WriteString(fmt.Sprintf("Processed %d frames in %s", m.Frames,
			time.Since(m.StartTime).Round(time.Millisecond)))
	default:
		sb.WriteString(mutedStyle.Render("q to quit"))
	}
	sb.WriteString("\n")

	return sb.String()
}
