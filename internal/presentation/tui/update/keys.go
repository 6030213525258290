package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tesso57/sutra/internal/application/usecase"
	"github.com/tesso57/sutra/internal/domain/curation"
	"github.com/tesso57/sutra/internal/presentation/tui/intent"
	"github.com/tesso57/sutra/internal/presentation/tui/presenter"
	"github.com/tesso57/sutra/internal/presentation/tui/state"
)

// HandleKeyMsg processes key input based on the current session.
// It reports false when the key should fall through to the focused list.
func HandleKeyMsg(s *state.ModelState, msg tea.KeyMsg, deps Deps) (tea.Cmd, bool) {
	switch s.Session {
	case state.AgentFormView:
		return handleAgentForm(s, msg, deps)
	case state.QuitView:
		return handleQuitView(s, msg)
	case state.DeleteAgentView:
		return handleDeleteAgentView(s, msg, deps)
	}
	if handleFilterExitWithJJ(s, msg) {
		return nil, true
	}
	if l, ok := activeList(s); ok && l.FilterState() == list.Filtering {
		return nil, false
	}

	parsed := intent.FromKeyMsg(msg, s.Keys)
	switch {
	case parsed.Type == intent.Quit:
		s.Previous = s.Session
		s.Session = state.QuitView
		return nil, true
	case parsed.Type == intent.ToggleHelp:
		s.Help.ShowAll = !s.Help.ShowAll
		return nil, true
	case parsed.Type == intent.Back && s.Help.ShowAll:
		s.Help.ShowAll = false
		return nil, true
	}

	switch s.Session {
	case state.TopicView:
		return handleTopicViewIntent(s, parsed, deps)
	case state.ItemView:
		return handleItemViewIntent(s, parsed, deps)
	case state.DetailView:
		return handleDetailViewIntent(s, parsed, deps)
	case state.SavedView:
		return handleSavedViewIntent(s, parsed, deps)
	default:
		return nil, false
	}
}

func handleFilterExitWithJJ(s *state.ModelState, msg tea.KeyMsg) bool {
	l, ok := activeList(s)
	if !ok || l.FilterState() != list.Filtering {
		s.PendingJJExit = false
		return false
	}
	if msg.String() != "j" {
		s.PendingJJExit = false
		return false
	}
	if s.PendingJJExit {
		l.ResetFilter()
		s.PendingJJExit = false
		return true
	}
	s.PendingJJExit = true
	return false
}

func activeList(s *state.ModelState) (*list.Model, bool) {
	switch s.Session {
	case state.TopicView:
		return &s.TopicList, true
	case state.ItemView:
		return &s.ItemList, true
	case state.SavedView:
		return &s.SavedList, true
	default:
		return nil, false
	}
}

func handleQuitView(s *state.ModelState, msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "y", "Y":
		return tea.Quit, true
	case "n", "N", "esc", "q", "Q":
		s.Session = s.Previous
		return nil, true
	}
	return nil, true
}

func handleDeleteAgentView(s *state.ModelState, msg tea.KeyMsg, deps Deps) (tea.Cmd, bool) {
	switch msg.String() {
	case "y", "Y":
		s.Session = state.TopicView
		topic, ok := selectedTopic(s)
		if !ok {
			return nil, true
		}
		startLoading(s, fmt.Sprintf("Deleting %s...", topic.TopicName))
		return tea.Batch(s.Spinner.Tick, DeleteAgentCmd(deps.Workspace, topic)), true
	case "n", "N", "esc", "q", "Q":
		s.Session = state.TopicView
		return nil, true
	}
	return nil, true
}

func handleTopicViewIntent(s *state.ModelState, in intent.Intent, deps Deps) (tea.Cmd, bool) {
	switch in.Type {
	case intent.Open:
		if topic, ok := selectedTopic(s); ok {
			selectTopic(s, deps, topic.ID)
			s.Session = state.ItemView
		}
		return nil, true
	case intent.SwitchView:
		switchTab(s, deps)
		return nil, true
	case intent.NewFeedAgent:
		return openAgentForm(s, state.NewAgentForm(curation.TopicTypeFeed)), true
	case intent.NewLearningAgent:
		return openAgentForm(s, state.NewAgentForm(curation.TopicTypeLearning)), true
	case intent.EditAgent:
		if topic, ok := selectedTopic(s); ok {
			return openAgentForm(s, state.EditAgentForm(topic)), true
		}
		return nil, true
	case intent.DeleteAgent:
		if _, ok := selectedTopic(s); ok {
			s.Session = state.DeleteAgentView
		}
		return nil, true
	case intent.Refresh:
		if topic, ok := selectedTopic(s); ok {
			selectTopic(s, deps, topic.ID)
		}
		return refreshActive(s, deps), true
	case intent.RefreshAll:
		return refreshAll(s, deps), true
	case intent.ShowSaved:
		return showSaved(s, deps), true
	}
	return nil, false
}

func handleItemViewIntent(s *state.ModelState, in intent.Intent, deps Deps) (tea.Cmd, bool) {
	switch in.Type {
	case intent.Back:
		s.Session = state.TopicView
		return nil, true
	case intent.Open:
		if item, ok := selectedContent(&s.ItemList); ok {
			openDetail(s, item, state.ItemView)
		}
		return nil, true
	case intent.Save:
		if item, ok := selectedContent(&s.ItemList); ok {
			return toggleSave(s, deps, item), true
		}
		return nil, true
	case intent.Refresh:
		return refreshActive(s, deps), true
	case intent.RefreshAll:
		return refreshAll(s, deps), true
	case intent.SwitchView:
		switchTab(s, deps)
		s.Session = state.TopicView
		return nil, true
	case intent.ShowSaved:
		return showSaved(s, deps), true
	}
	return nil, false
}

func handleDetailViewIntent(s *state.ModelState, in intent.Intent, deps Deps) (tea.Cmd, bool) {
	switch in.Type {
	case intent.Back:
		s.Session = s.DetailParent
		return nil, true
	case intent.Open:
		item, ok := detailItem(s)
		if !ok {
			return nil, true
		}
		if item.URL() == "" {
			s.StatusMessage = "Generated content has no link"
			return nil, true
		}
		if deps.OpenBrowser != nil {
			if err := deps.OpenBrowser(item.URL()); err != nil {
				s.StatusMessage = fmt.Sprintf("Could not open browser: %v", err)
			}
		}
		return nil, true
	case intent.Save:
		if item, ok := detailItem(s); ok {
			return toggleSave(s, deps, item), true
		}
		return nil, true
	}
	return nil, false
}

func handleSavedViewIntent(s *state.ModelState, in intent.Intent, deps Deps) (tea.Cmd, bool) {
	switch in.Type {
	case intent.Back, intent.ShowSaved:
		s.Session = s.Previous
		if s.Session != state.ItemView {
			s.Session = state.TopicView
		}
		return nil, true
	case intent.Open:
		if item, ok := selectedContent(&s.SavedList); ok {
			openDetail(s, item, state.SavedView)
		}
		return nil, true
	case intent.Save:
		if item, ok := selectedContent(&s.SavedList); ok {
			return toggleSave(s, deps, item), true
		}
		return nil, true
	case intent.Refresh:
		startLoading(s, "Loading saved items...")
		return tea.Batch(s.Spinner.Tick, LoadSavedCmd(deps.Workspace, deps.Session)), true
	}
	return nil, false
}

func openAgentForm(s *state.ModelState, form state.AgentForm) tea.Cmd {
	s.Previous = s.Session
	s.Form = form
	s.Session = state.AgentFormView
	return textinput.Blink
}

func handleAgentForm(s *state.ModelState, msg tea.KeyMsg, deps Deps) (tea.Cmd, bool) {
	if s.Loading {
		return nil, true
	}
	switch msg.String() {
	case "esc":
		s.Form = state.AgentForm{}
		s.Session = state.TopicView
		return nil, true
	case "tab", "down":
		return s.Form.Next(), true
	case "shift+tab", "up":
		return s.Form.Prev(), true
	case "enter":
		if !s.Form.OnLastField() {
			return s.Form.Next(), true
		}
		return submitAgentForm(s, deps), true
	case "ctrl+s":
		return submitAgentForm(s, deps), true
	}
	return s.Form.Update(msg), true
}

func submitAgentForm(s *state.ModelState, deps Deps) tea.Cmd {
	if !signedIn(s, deps) {
		s.Form.Err = s.StatusMessage
		return nil
	}
	values, err := s.Form.Values()
	if err != nil {
		s.Form.Err = err.Error()
		return nil
	}
	s.Form.Err = ""
	if s.Form.Editing() {
		patch, err := values.Patch()
		if err != nil {
			s.Form.Err = err.Error()
			return nil
		}
		startLoading(s, "Saving agent...")
		return tea.Batch(s.Spinner.Tick, UpdateAgentCmd(deps.Workspace, s.Form.TopicID, patch))
	}
	if err := values.Validate(); err != nil {
		s.Form.Err = err.Error()
		return nil
	}
	startLoading(s, "Creating agent...")
	return tea.Batch(s.Spinner.Tick, CreateAgentCmd(deps.Workspace, deps.Session, values))
}

func refreshActive(s *state.ModelState, deps Deps) tea.Cmd {
	if !signedIn(s, deps) {
		return nil
	}
	topic, ok := deps.Workspace.ActiveTopic(s.Tab)
	if !ok {
		s.StatusMessage = "No agent selected"
		return nil
	}
	if !topic.CanRefresh() {
		s.StatusMessage = fmt.Sprintf("Learning plan %s is completed", topic.TopicName)
		return nil
	}
	if deps.Workspace.Feed.Refreshing(deps.Session, topic.ID) {
		s.StatusMessage = "Refresh already in progress"
		return nil
	}
	startLoading(s, fmt.Sprintf("Refreshing %s...", topic.TopicName))
	return tea.Batch(s.Spinner.Tick, RefreshTopicCmd(deps.Workspace, deps.Session, topic))
}

func refreshAll(s *state.ModelState, deps Deps) tea.Cmd {
	if !signedIn(s, deps) {
		return nil
	}
	if deps.Workspace.Feed.Refreshing(deps.Session, 0) {
		s.StatusMessage = "Refresh already in progress"
		return nil
	}
	startLoading(s, "Refreshing all agents...")
	return tea.Batch(s.Spinner.Tick, RefreshAllCmd(deps.Workspace, deps.Session))
}

func toggleSave(s *state.ModelState, deps Deps, item *presenter.ContentItem) tea.Cmd {
	if !signedIn(s, deps) {
		return nil
	}
	ws := deps.Workspace
	contentID := item.Item.ID
	switch ws.Saved.State(contentID) {
	case usecase.SavePending:
		s.StatusMessage = "Save in progress"
		return nil
	case usecase.SaveCommitted:
		if item.SavedID != 0 {
			return UnsaveEntryCmd(ws, item.SavedID, contentID)
		}
		return UnsaveContentCmd(ws, contentID)
	}
	if !ws.BeginSave(contentID) {
		return nil
	}
	SyncLists(s, ws)
	refreshDetailIfOpen(s)
	return CompleteSaveCmd(ws, deps.Session, contentID)
}

func showSaved(s *state.ModelState, deps Deps) tea.Cmd {
	if !signedIn(s, deps) {
		return nil
	}
	s.Previous = s.Session
	s.Session = state.SavedView
	s.SavedList.ResetSelected()
	presenter.ApplySavedList(&s.SavedList, deps.Workspace.Saved.Entries())
	startLoading(s, "Loading saved items...")
	return tea.Batch(s.Spinner.Tick, LoadSavedCmd(deps.Workspace, deps.Session))
}

func switchTab(s *state.ModelState, deps Deps) {
	if s.Tab == usecase.FeedView {
		s.Tab = usecase.LearningView
	} else {
		s.Tab = usecase.FeedView
	}
	s.TopicList.ResetFilter()
	s.ItemList.ResetFilter()
	s.ItemList.ResetSelected()
	SyncLists(s, deps.Workspace)
}

// SelectHighlightedTopic makes the sidebar's highlighted agent the active
// topic of the current tab.
func SelectHighlightedTopic(s *state.ModelState, deps Deps) {
	if topic, ok := selectedTopic(s); ok {
		selectTopic(s, deps, topic.ID)
	}
}

func selectTopic(s *state.ModelState, deps Deps, topicID int64) {
	ws := deps.Workspace
	if current, ok := ws.Selection.Active(s.Tab); ok && current == topicID {
		return
	}
	if _, err := ws.Select(topicID); err != nil {
		s.Err = err
		return
	}
	s.Err = nil
	s.ItemList.ResetFilter()
	s.ItemList.ResetSelected()
	SyncLists(s, ws)
}

func openDetail(s *state.ModelState, item *presenter.ContentItem, parent state.Session) {
	s.DetailParent = parent
	s.Session = state.DetailView
	refreshDetailViewport(s, item)
	s.Viewport.GotoTop()
}

func refreshDetailIfOpen(s *state.ModelState) {
	if s.Session != state.DetailView {
		return
	}
	if item, ok := detailItem(s); ok {
		refreshDetailViewport(s, item)
	}
}

func refreshDetailViewport(s *state.ModelState, item *presenter.ContentItem) {
	if s == nil || item == nil {
		return
	}
	s.Viewport.SetContent(buildDetailContentForWidth(item.Item, item.State, detailWrapWidth(s)))
}

func detailWrapWidth(s *state.ModelState) int {
	viewportContentWidth := s.Viewport.Width - s.Viewport.Style.GetHorizontalFrameSize()
	if viewportContentWidth > 0 {
		return viewportContentWidth
	}
	// Before the first resize.
	return clampMin(s.ItemList.Width()-1-s.Viewport.Style.GetHorizontalFrameSize(), 1)
}

func detailItem(s *state.ModelState) (*presenter.ContentItem, bool) {
	if s.DetailParent == state.SavedView {
		return selectedContent(&s.SavedList)
	}
	return selectedContent(&s.ItemList)
}

func selectedTopic(s *state.ModelState) (curation.Topic, bool) {
	item, ok := s.TopicList.SelectedItem().(*presenter.TopicItem)
	if !ok || item == nil {
		return curation.Topic{}, false
	}
	return item.Topic, true
}

func selectedContent(model *list.Model) (*presenter.ContentItem, bool) {
	item, ok := model.SelectedItem().(*presenter.ContentItem)
	if !ok || item == nil {
		return nil, false
	}
	return item, true
}

func signedIn(s *state.ModelState, deps Deps) bool {
	if deps.Workspace != nil && deps.Session.Active() {
		return true
	}
	s.StatusMessage = "Not signed in. Run `sutra register` or `sutra login` first."
	return false
}

func startLoading(s *state.ModelState, text string) {
	s.Loading = true
	s.LoadingText = text
	s.Err = nil
}
