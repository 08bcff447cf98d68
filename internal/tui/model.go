// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/coop/internal/plan"
	"github.com/matt-FFFFFF/coop/internal/progress"
)

// TaskStatus represents the current state of a unit of work in the TUI.
type TaskStatus int

const (
	StatusPending TaskStatus = iota
	StatusRunning
	StatusWaiting
	StatusSuccess
	StatusFailed
	StatusCancelled
)

// String returns a string representation of the task status.
func (s TaskStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusWaiting:
		return "waiting"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Finished reports whether the status is terminal.
func (s TaskStatus) Finished() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusCancelled
}

// TaskNode is one unit of work as seen by the TUI.
type TaskNode struct {
	ID        uint64     // Loop-assigned identifier
	Name      string     // Display name
	Status    TaskStatus // Current status
	StartTime *time.Time // When the unit first ran
	EndTime   *time.Time // When the unit finished
	Switches  int        // Number of times the unit suspended
	ErrorMsg  string     // Error message if failed or cancelled
}

// NewTaskNode creates a pending node.
func NewTaskNode(id uint64, name string) *TaskNode {
	return &TaskNode{
		ID:     id,
		Name:   name,
		Status: StatusPending,
	}
}

// UpdateStatus sets the status and records the start and end times.
func (n *TaskNode) UpdateStatus(status TaskStatus, at time.Time) {
	n.Status = status

	if status != StatusPending && n.StartTime == nil {
		n.StartTime = &at
	}

	if status.Finished() && n.EndTime == nil {
		n.EndTime = &at
	}
}

// Elapsed returns how long the unit has been running, or ran for.
func (n *TaskNode) Elapsed(now time.Time) time.Duration {
	switch {
	case n.StartTime == nil:
		return 0
	case n.EndTime != nil:
		return n.EndTime.Sub(*n.StartTime)
	default:
		return now.Sub(*n.StartTime)
	}
}

var _ tea.Model = (*Model)(nil)

// Model represents the TUI application state.
type Model struct {
	title     string
	nodes     map[uint64]*TaskNode
	order     []uint64
	width     int
	height    int
	quitting  bool
	completed bool
	result    *plan.Result
	viewport  viewport.Model
	spinner   spinner.Model
	styles    *Styles
}

// Styles contains all the styling for the TUI.
type Styles struct {
	Title   lipgloss.Style
	Pending lipgloss.Style
	Running lipgloss.Style
	Waiting lipgloss.Style
	Success lipgloss.Style
	Failed  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Border  lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Waiting: lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")),
	}
}

// NewModel creates a new TUI model titled after the plan being run.
func NewModel(title string) *Model {
	styles := NewStyles()

	return &Model{
		title:    title,
		nodes:    make(map[uint64]*TaskNode),
		viewport: viewport.New(defaultWidth, defaultHeight),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Running)),
		styles:   styles,
	}
}

// Nodes returns the nodes in the order their units were scheduled.
func (m *Model) Nodes() []*TaskNode {
	out := make([]*TaskNode, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.nodes[id])
	}

	return out
}

// node gets or creates the node for an event's unit.
func (m *Model) node(e progress.Event) *TaskNode {
	if n, ok := m.nodes[e.TaskID]; ok {
		return n
	}

	n := NewTaskNode(e.TaskID, e.TaskName)
	m.nodes[e.TaskID] = n

	// IDs are handed out in scheduling order, but events may arrive out of order.
	i, _ := slices.BinarySearch(m.order, e.TaskID)
	m.order = slices.Insert(m.order, i, e.TaskID)

	return n
}

// processProgressEvent applies one loop event to the model.
func (m *Model) processProgressEvent(e progress.Event) {
	n := m.node(e)

	// A late event must not undo a terminal state.
	if n.Status.Finished() {
		return
	}

	switch e.Type {
	case progress.EventScheduled:
		n.UpdateStatus(StatusPending, e.Timestamp)
	case progress.EventStarted, progress.EventResumed:
		n.UpdateStatus(StatusRunning, e.Timestamp)
	case progress.EventSuspended:
		n.Switches++
		n.UpdateStatus(StatusWaiting, e.Timestamp)
	case progress.EventCompleted:
		n.UpdateStatus(StatusSuccess, e.Timestamp)
	case progress.EventFailed:
		n.UpdateStatus(StatusFailed, e.Timestamp)
	case progress.EventCancelled:
		n.UpdateStatus(StatusCancelled, e.Timestamp)
	}

	if e.Err != nil {
		n.ErrorMsg = e.Err.Error()
	}
}
