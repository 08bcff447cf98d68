// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/coop/internal/plan"
	"github.com/matt-FFFFFF/coop/internal/progress"
)

const (
	defaultWidth                = 80
	defaultHeight               = 20
	minViewportWidth            = 20
	minStatusBarAvailableHeight = 10
	reservedLines               = 6 // title, border and help text
	taskDurationRounding        = 100 * time.Millisecond
	ellipsis                    = "..."
)

// ProgressEventMsg wraps a progress event for the tea framework.
type ProgressEventMsg struct {
	Event progress.Event
}

// PlanCompletedMsg indicates that the plan has finished executing.
type PlanCompletedMsg struct {
	Result *plan.Result
}

// Init implements bubbletea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements bubbletea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewportSize()

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case ProgressEventMsg:
		m.processProgressEvent(msg.Event)
		m.refresh()

		return m, nil

	case PlanCompletedMsg:
		m.completed = true
		m.result = msg.Result
		m.refresh()

		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

func (m *Model) updateViewportSize() {
	w := max(m.width-2, minViewportWidth)
	h := max(m.height-reservedLines, 1)

	m.viewport.Width = w
	m.viewport.Height = h
	m.refresh()
}

// refresh re-renders the task list into the viewport.
func (m *Model) refresh() {
	var content strings.Builder

	now := time.Now()
	for _, n := range m.Nodes() {
		m.renderTaskNode(&content, n, now)
	}

	if m.completed {
		content.WriteString("\n")

		if m.result != nil && m.result.Error != nil {
			content.WriteString(m.styles.Failed.Render("⚠️  Plan finished with errors: " + m.result.Status.String()))
		} else {
			content.WriteString(m.styles.Success.Render("✅ Plan finished successfully"))
		}

		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// View implements bubbletea.Model.View.
func (m *Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Running units show elapsed time, so re-render on every frame.
	if !m.completed {
		m.refresh()
	}

	var view strings.Builder

	view.WriteString(m.styles.Title.Render("coop: " + m.title))
	view.WriteString("\n")
	view.WriteString(m.styles.Border.Render(m.viewport.View()))

	if m.height == 0 || m.height > minStatusBarAvailableHeight {
		view.WriteString("\n")
		view.WriteString(m.renderStatusBar())
		view.WriteString("\n")

		helpText := "↑/↓ to scroll, 'q' to cancel the plan"
		if m.completed {
			helpText = "↑/↓ to scroll, 'q' to quit and return to terminal"
		}

		view.WriteString(m.styles.Help.Render(helpText))
	}

	return view.String()
}

// renderStatusBar summarises how many units are in each state.
func (m *Model) renderStatusBar() string {
	counts := make(map[TaskStatus]int)
	for _, n := range m.nodes {
		counts[n.Status]++
	}

	parts := []string{
		m.styles.Running.Render(fmt.Sprintf("running %d", counts[StatusRunning])),
		m.styles.Waiting.Render(fmt.Sprintf("waiting %d", counts[StatusWaiting]+counts[StatusPending])),
		m.styles.Success.Render(fmt.Sprintf("done %d", counts[StatusSuccess])),
		m.styles.Failed.Render(fmt.Sprintf("failed %d", counts[StatusFailed])),
		m.styles.Pending.Render(fmt.Sprintf("cancelled %d", counts[StatusCancelled])),
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, "  "))
}

// renderTaskNode renders a single unit on one line.
func (m *Model) renderTaskNode(b *strings.Builder, n *TaskNode, now time.Time) {
	var icon, name string

	switch n.Status {
	case StatusPending:
		icon = "⏳"
		name = m.styles.Pending.Render(n.Name)
	case StatusRunning:
		icon = m.spinner.View()
		name = m.styles.Running.Render(n.Name)
	case StatusWaiting:
		icon = "💤"
		name = m.styles.Waiting.Render(n.Name)
	case StatusSuccess:
		icon = "✅"
		name = m.styles.Success.Render(n.Name)
	case StatusFailed:
		icon = "❌"
		name = m.styles.Failed.Render(n.Name)
	case StatusCancelled:
		icon = "⊘"
		name = m.styles.Pending.Render(n.Name)
	default:
		icon = "❓"
		name = m.styles.Pending.Render(n.Name)
	}

	left := fmt.Sprintf("%s %s", icon, name)

	if n.StartTime != nil {
		left += m.styles.Muted.Render(fmt.Sprintf(" (%v)", n.Elapsed(now).Round(taskDurationRounding)))
	}

	var right string
	if n.ErrorMsg != "" && n.Status == StatusFailed {
		right = m.styles.Error.Render(truncate("Error: "+n.ErrorMsg, m.viewport.Width/2))
	}

	// Pad on display width so the error column lines up.
	leftWidth := m.viewport.Width / 2
	if pad := leftWidth - lipgloss.Width(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}

	b.WriteString(left)
	b.WriteString(right)
	b.WriteString("\n")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}

	if width <= len(ellipsis) {
		return string(r[:width])
	}

	return string(r[:width-len(ellipsis)]) + ellipsis
}
