package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tesso57/sutra/internal/domain/curation"
	"github.com/tesso57/sutra/internal/presentation/tui/textutil"
)

const titleWidth = 48

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func topicTable(topics []curation.Topic) string {
	t := newTable("ID", "TYPE", "NAME", "STATUS")
	for _, topic := range topics {
		t.Row(formatID(topic.ID), string(topic.Kind()), textutil.Truncate(topic.TopicName, titleWidth), topicStatus(topic))
	}
	return t.String()
}

func topicStatus(t curation.Topic) string {
	if !t.IsLearning() {
		return string(t.FeedSource)
	}
	p := t.Progress()
	if p.Completed {
		return "completed"
	}
	if p.Total == 0 {
		return "learning"
	}
	return fmt.Sprintf("day %d/%d", p.Day, p.Total)
}

func savedTable(entries []curation.SavedEntry) string {
	t := newTable("CONTENT", "TITLE", "SAVED")
	for _, e := range entries {
		title := e.Content.Title
		if title == "" {
			title = "(untitled)"
		}
		saved := ""
		if !e.SavedAt.IsZero() {
			saved = e.SavedAt.Format("2006-01-02 15:04")
		}
		t.Row(formatID(e.ContentID), textutil.Truncate(textutil.SingleLine(title), titleWidth), saved)
	}
	return t.String()
}
