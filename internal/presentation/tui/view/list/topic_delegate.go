// Package listview provides list item delegates for the view layer.
package listview

import (
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TopicItem interface for items that can be rendered by TopicDelegate.
type TopicItem interface {
	list.Item
	Title() string
	Completed() bool
}

// TopicDelegate renders agents in the sidebar.
type TopicDelegate struct {
	Styles    list.DefaultItemStyles
	Completed lipgloss.Color
}

// NewTopicDelegate creates a new TopicDelegate. Finished learning plans are
// drawn in the completed color.
func NewTopicDelegate(completed lipgloss.Color) *TopicDelegate {
	return &TopicDelegate{
		Styles:    rowStyles(),
		Completed: completed,
	}
}

// Height returns the height of the item.
func (d *TopicDelegate) Height() int {
	return 1
}

// Spacing returns the spacing between items.
func (d *TopicDelegate) Spacing() int {
	return 0
}

// Update handles messages for the delegate.
func (d *TopicDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render renders the item.
func (d *TopicDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(TopicItem)
	if !ok {
		return
	}

	var accent lipgloss.Color
	if i.Completed() {
		accent = d.Completed
	}
	renderRow(w, d.Styles, m, index, i.Title(), accent)
}
