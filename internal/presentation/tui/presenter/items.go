// Package presenter builds view models for the TUI.
package presenter

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/tesso57/sutra/internal/application/usecase"
	"github.com/tesso57/sutra/internal/domain/curation"
)

// TopicItem is a view model for an agent in the sidebar.
type TopicItem struct {
	Topic curation.Topic
	Index int
}

// FilterValue implements list.Item.
func (i *TopicItem) FilterValue() string { return i.Topic.TopicName }

// Title returns the numbered agent name. Learning plans carry their day.
func (i *TopicItem) Title() string {
	title := fmt.Sprintf("%d. %s", i.Index+1, i.Topic.TopicName)
	if !i.Topic.IsLearning() {
		if i.Topic.FeedSource == curation.FeedSourceAI {
			title += " (ai)"
		}
		return title
	}
	p := i.Topic.Progress()
	if p.Completed {
		return title + " (done)"
	}
	if p.Total > 0 {
		return fmt.Sprintf("%s (day %d/%d)", title, p.Day, p.Total)
	}
	return title
}

// Description returns the agent details.
func (i *TopicItem) Description() string { return i.Topic.Description }

// Completed reports whether the agent is a finished learning plan.
func (i *TopicItem) Completed() bool { return i.Topic.Completed() }

// ContentItem is a view model for a content item or a saved entry.
type ContentItem struct {
	Item    curation.ContentItem
	Index   int
	State   usecase.SaveState
	SavedID int64
}

// FilterValue implements list.Item.
func (i *ContentItem) FilterValue() string { return i.Item.Title }

// Title returns the numbered item title.
func (i *ContentItem) Title() string {
	title := i.Item.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("%d. %s", i.Index+1, title)
}

// Description returns the source and summary for list display.
func (i *ContentItem) Description() string {
	if i.Item.Source != "" {
		return fmt.Sprintf("%s - %s", i.Item.Source, i.Item.Summary)
	}
	return i.Item.Summary
}

// URL returns the item's link, empty for generated content.
func (i *ContentItem) URL() string { return i.Item.URL }

// IsSaved reports a committed save.
func (i *ContentItem) IsSaved() bool { return i.State == usecase.SaveCommitted }

// IsPending reports a save awaiting the server.
func (i *ContentItem) IsPending() bool { return i.State == usecase.SavePending }

// IsGenerated reports AI content without a link.
func (i *ContentItem) IsGenerated() bool { return i.Item.IsGenerated() }

// BuildTopicListItems builds sidebar items in server order.
func BuildTopicListItems(topics []curation.Topic) []list.Item {
	items := make([]list.Item, len(topics))
	for i, t := range topics {
		items[i] = &TopicItem{Topic: t, Index: i}
	}
	return items
}

// ApplyTopicList updates the sidebar and keeps the highlighted agent when it
// is still listed.
func ApplyTopicList(model *list.Model, topics []curation.Topic, activeID int64) {
	model.SetItems(BuildTopicListItems(topics))
	for i, t := range topics {
		if t.ID == activeID {
			model.Select(i)
			return
		}
	}
	clampSelection(model)
}

// BuildContentListItems builds items for the active topic.
func BuildContentListItems(visible []usecase.VisibleItem) []list.Item {
	items := make([]list.Item, len(visible))
	for i, v := range visible {
		items[i] = &ContentItem{Item: v.ContentItem, Index: i, State: v.Saved}
	}
	return items
}

// ApplyContentList updates the item list.
func ApplyContentList(model *list.Model, visible []usecase.VisibleItem) {
	model.SetItems(BuildContentListItems(visible))
	clampSelection(model)
}

// BuildSavedListItems builds items for the saved view, newest first as
// returned by the server.
func BuildSavedListItems(entries []curation.SavedEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		item := e.Content
		if item.ID == 0 {
			item.ID = e.ContentID
		}
		items[i] = &ContentItem{Item: item, Index: i, State: usecase.SaveCommitted, SavedID: e.ID}
	}
	return items
}

// ApplySavedList updates the saved list.
func ApplySavedList(model *list.Model, entries []curation.SavedEntry) {
	model.SetItems(BuildSavedListItems(entries))
	clampSelection(model)
}

func clampSelection(model *list.Model) {
	n := len(model.Items())
	if n == 0 {
		model.ResetSelected()
		return
	}
	if model.Index() >= n {
		model.Select(n - 1)
	}
}
