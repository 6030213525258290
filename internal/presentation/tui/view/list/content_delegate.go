package listview

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ContentItem interface for items that can be rendered by ContentDelegate.
type ContentItem interface {
	list.Item
	Title() string
	IsSaved() bool
	IsPending() bool
	IsGenerated() bool
}

// ContentDelegate renders content items with their save marks.
type ContentDelegate struct {
	Styles list.DefaultItemStyles
	Saved  lipgloss.Color
}

// NewContentDelegate creates a new ContentDelegate.
func NewContentDelegate(saved lipgloss.Color) *ContentDelegate {
	return &ContentDelegate{
		Styles: rowStyles(),
		Saved:  saved,
	}
}

// Height returns the height of the item.
func (d *ContentDelegate) Height() int {
	return 1
}

// Spacing returns the spacing between items.
func (d *ContentDelegate) Spacing() int {
	return 0
}

// Update handles messages for the delegate.
func (d *ContentDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render renders the item.
func (d *ContentDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(ContentItem)
	if !ok {
		return
	}

	title := i.Title()
	if i.IsGenerated() {
		title = fmt.Sprintf("[AI] %s", title)
	}
	switch {
	case i.IsSaved():
		title = fmt.Sprintf("[S] %s", title)
	case i.IsPending():
		title = fmt.Sprintf("[~] %s", title)
	}

	var accent lipgloss.Color
	if i.IsSaved() || i.IsPending() {
		accent = d.Saved
	}
	renderRow(w, d.Styles, m, index, title, accent)
}
