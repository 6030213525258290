// Package tui provides the main user interface model and view components.
package tui

import (
	"fmt"

	"github.com/tesso57/sutra/internal/application/usecase"
	"github.com/tesso57/sutra/internal/domain/curation"
	"github.com/tesso57/sutra/internal/presentation/tui/components/header"
	mainview "github.com/tesso57/sutra/internal/presentation/tui/components/main"
	"github.com/tesso57/sutra/internal/presentation/tui/components/modal"
	"github.com/tesso57/sutra/internal/presentation/tui/components/sidebar"
	"github.com/tesso57/sutra/internal/presentation/tui/metrics"
	"github.com/tesso57/sutra/internal/presentation/tui/presenter"
	"github.com/tesso57/sutra/internal/presentation/tui/state"
	"github.com/tesso57/sutra/internal/presentation/tui/textutil"
	"github.com/tesso57/sutra/internal/presentation/tui/view"
)

func (m *Model) buildProps() view.Props {
	return view.Props{
		Sidebar: m.buildSidebarProps(),
		Header:  m.buildHeaderProps(),
		Main:    m.buildMainProps(),
		Modal:   m.buildModalProps(),
		Footer:  m.buildFooterProps(),
	}
}

func (m *Model) buildSidebarProps() sidebar.Props {
	names := make([]string, len(usecase.Views))
	for i, v := range usecase.Views {
		names[i] = v.String()
	}
	return sidebar.Props{
		View:   m.state.TopicList.View(),
		Width:  m.state.TopicList.Width(),
		Height: m.state.TopicList.Height(),
		Tabs:   names,
		Tab:    int(m.state.Tab),
		Active: m.state.Session == state.TopicView,
	}
}

func (m *Model) buildHeaderProps() header.Props {
	topic, ok := m.activeTopic()
	if !ok || !headerVisible(m.state) {
		return header.Props{}
	}

	availableWidth := m.mainWidth() - metrics.HeaderWidthPadding
	detail := topicDetail(topic)
	if item, ok := m.highlightedContent(); ok {
		if item.URL() != "" {
			detail = item.URL()
		} else {
			detail = "Generated by AI"
		}
	}
	return header.Props{
		Visible: true,
		Topic:   headerLine(topic.TopicName, availableWidth),
		Detail:  headerLine(detail, availableWidth),
	}
}

func (m *Model) buildMainProps() mainview.Props {
	var body string
	switch {
	case m.state.Loading:
		body = fmt.Sprintf("\n\n   %s %s", m.state.Spinner.View(), m.state.LoadingText)
	case m.state.Session == state.DetailView:
		body = m.state.Viewport.View()
	case m.state.Session == state.SavedView:
		body = m.state.SavedList.View()
		if len(m.state.SavedList.Items()) == 0 {
			body = "\n   Nothing saved yet."
		}
	default:
		body = m.state.ItemList.View()
		if len(m.state.ItemList.Items()) == 0 {
			body = m.emptyItemsText()
		}
	}

	var notice string
	if m.state.Err != nil && !m.state.Loading {
		notice = fmt.Sprintf("Error: %v", m.state.Err)
	}

	headerHeight := 0
	if headerVisible(m.state) {
		headerHeight = metrics.HeaderLines
	}

	return mainview.Props{
		Width:  m.state.ItemList.Width(),
		Height: m.state.ItemList.Height() + headerHeight,
		Notice: notice,
		Body:   body,
	}
}

func (m *Model) emptyItemsText() string {
	topic, ok := m.activeTopic()
	switch {
	case !m.session.Active():
		return "\n   Sign in to see your agents."
	case len(m.state.TopicList.Items()) == 0 && m.state.Tab == usecase.LearningView:
		return fmt.Sprintf("\n   No learning agents. Press %s to create one.", m.state.Keys.NewLearningAgent.Help().Key)
	case len(m.state.TopicList.Items()) == 0:
		return fmt.Sprintf("\n   No feed agents. Press %s to create one.", m.state.Keys.NewFeedAgent.Help().Key)
	case !ok:
		return "\n   Select an agent."
	case topic.Completed():
		return "\n   This learning plan is completed."
	default:
		return fmt.Sprintf("\n   No items yet. Press %s to refresh.", m.state.Keys.Refresh.Help().Key)
	}
}

func (m *Model) buildModalProps() modal.Props {
	props := modal.Props{Visible: true, Width: m.state.Width, Height: m.state.Height}
	switch {
	case m.state.Session == state.AgentFormView:
		props.Kind = modal.AgentForm
		props.Title = m.state.Form.Title()
		props.Body = m.state.Form.View()
		if m.state.Loading {
			props.Body += fmt.Sprintf("\n\n%s %s", m.state.Spinner.View(), m.state.LoadingText)
		} else if m.state.Form.Err != "" {
			props.Body += "\n\nError: " + m.state.Form.Err
		}
		props.Body += "\n\n(tab: next field, enter on last field or ctrl+s: submit, esc: cancel)"
	case m.state.Session == state.QuitView:
		props.Kind = modal.Quit
		props.Body = "Are you sure you want to quit?\n\n(y/n)"
	case m.state.Session == state.DeleteAgentView:
		props.Kind = modal.DeleteAgent
		name := "this agent"
		if item, ok := m.state.TopicList.SelectedItem().(*presenter.TopicItem); ok {
			name = item.Topic.TopicName
		}
		props.Body = fmt.Sprintf("Delete %s and its content?\n\n(y/n)", name)
	case m.state.Help.ShowAll:
		props.Kind = modal.Help
		props.Body = m.state.Help.View(&m.state.Keys)
	default:
		return modal.Props{}
	}
	return props
}

func (m *Model) buildFooterProps() string {
	helpText := m.state.Help.View(&m.state.Keys)
	status := m.state.StatusMessage
	if status == "" && m.session.Active() {
		status = "Signed in as " + m.session.Label()
	}
	return state.FooterText(m.state.Session, m.state.Loading, status, helpText)
}

func (m *Model) activeTopic() (curation.Topic, bool) {
	if m.workspace == nil {
		return curation.Topic{}, false
	}
	return m.workspace.ActiveTopic(m.state.Tab)
}

func (m *Model) highlightedContent() (*presenter.ContentItem, bool) {
	switch m.state.Session {
	case state.ItemView:
		item, ok := m.state.ItemList.SelectedItem().(*presenter.ContentItem)
		return item, ok && item != nil
	case state.DetailView:
		src := m.state.ItemList
		if m.state.DetailParent == state.SavedView {
			src = m.state.SavedList
		}
		item, ok := src.SelectedItem().(*presenter.ContentItem)
		return item, ok && item != nil
	}
	return nil, false
}

func (m *Model) mainWidth() int {
	sidebarWidth := m.state.Width / 3
	return m.state.Width - sidebarWidth - metrics.SidebarRightBorderWidth
}

func headerVisible(st *state.ModelState) bool {
	if st == nil {
		return false
	}
	switch st.Session {
	case state.TopicView, state.ItemView, state.DetailView:
		return true
	default:
		return false
	}
}

func topicDetail(t curation.Topic) string {
	if !t.IsLearning() {
		return fmt.Sprintf("feed agent, %s source", t.FeedSource)
	}
	p := t.Progress()
	if p.Completed {
		return "learning plan completed"
	}
	if p.Total == 0 {
		return "learning plan"
	}
	return fmt.Sprintf("day %d of %d %s", p.Day, p.Total, textutil.ProgressBar(p.Ratio, metrics.ProgressWidth))
}

func headerLine(text string, width int) string {
	return textutil.Truncate(textutil.SingleLine(text), width)
}
