package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tesso57/sutra/internal/application/settings"
	"github.com/tesso57/sutra/internal/application/usecase"
	"github.com/tesso57/sutra/internal/domain/curation"
	"github.com/tesso57/sutra/internal/presentation/tui/state"
	"github.com/tesso57/sutra/internal/presentation/tui/update"
	"github.com/tesso57/sutra/internal/presentation/tui/view"
	listview "github.com/tesso57/sutra/internal/presentation/tui/view/list"
)

// Model represents the main application state.
type Model struct {
	settings  settings.Settings
	workspace *usecase.Workspace
	session   curation.Session
	state     *state.ModelState
}

// NewModel creates a new application model over a workspace of the signed-in user.
func NewModel(cfg settings.Settings, ws *usecase.Workspace, session curation.Session) *Model {
	return &Model{
		settings:  cfg,
		workspace: ws,
		session:   session,
		state:     newModelState(cfg),
	}
}

// Init starts the initial load, or explains how to sign in.
func (m *Model) Init() tea.Cmd {
	if m.workspace == nil || !m.session.Active() {
		m.state.StatusMessage = "Not signed in. Run `sutra register` or `sutra login` first."
		return nil
	}
	m.state.Loading = true
	m.state.LoadingText = "Loading agents..."
	return tea.Batch(m.state.Spinner.Tick, update.LoadWorkspaceCmd(m.workspace, m.session))
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd
	deps := m.deps()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, handled := update.HandleKeyMsg(m.state, msg, deps)
		if handled {
			update.UpdateListSizes(m.state)
			return m, cmd
		}
	case tea.WindowSizeMsg:
		update.HandleWindowSize(m.state, msg)
	case update.WorkspaceLoadedMsg:
		update.HandleWorkspaceLoadedMsg(m.state, msg, deps)
	case update.RefreshedMsg:
		update.HandleRefreshedMsg(m.state, msg, deps)
	case update.SaveToggledMsg:
		update.HandleSaveToggledMsg(m.state, msg, deps)
	case update.SavedLoadedMsg:
		update.HandleSavedLoadedMsg(m.state, msg, deps)
	case update.AgentSubmittedMsg:
		update.HandleAgentSubmittedMsg(m.state, msg, deps)
	case update.AgentDeletedMsg:
		update.HandleAgentDeletedMsg(m.state, msg, deps)
	}

	if m.state.Loading {
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	switch m.state.Session {
	case state.TopicView:
		prevIdx := m.state.TopicList.Index()
		m.state.TopicList, cmd = m.state.TopicList.Update(msg)
		if m.state.TopicList.Index() != prevIdx && m.workspace != nil {
			update.SelectHighlightedTopic(m.state, deps)
		}
		cmds = append(cmds, cmd)
	case state.ItemView:
		m.state.ItemList, cmd = m.state.ItemList.Update(msg)
		cmds = append(cmds, cmd)
	case state.SavedView:
		m.state.SavedList, cmd = m.state.SavedList.Update(msg)
		cmds = append(cmds, cmd)
	case state.DetailView:
		m.state.Viewport, cmd = m.state.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	case state.AgentFormView:
		cmds = append(cmds, m.state.Form.Update(msg))
	}

	return m, tea.Batch(cmds...)
}

// View renders the application view.
func (m *Model) View() string {
	return view.Render(m.buildProps())
}

func (m *Model) deps() update.Deps {
	return update.Deps{
		Workspace:   m.workspace,
		Session:     m.session,
		OpenBrowser: openBrowser,
	}
}

func newModelState(cfg settings.Settings) *state.ModelState {
	st := &state.ModelState{
		Session:   state.TopicView,
		Tab:       usecase.FeedView,
		TopicList: newTopicList(cfg),
		ItemList:  newContentList(cfg, "Items"),
		SavedList: newContentList(cfg, "Saved"),
		Viewport:  newViewport(),
		Help:      help.New(),
		Spinner:   newSpinner(),
		Keys:      state.NewKeyMap(cfg.KeyMap),
	}

	for _, l := range []*list.Model{&st.TopicList, &st.ItemList, &st.SavedList} {
		l.KeyMap.PrevPage = st.Keys.UpPage
		l.KeyMap.NextPage = st.Keys.DownPage
	}
	return st
}

func newTopicList(cfg settings.Settings) list.Model {
	d := listview.NewTopicDelegate(lipgloss.Color(cfg.Theme.Completed))
	d.Styles.NormalTitle = d.Styles.NormalTitle.Foreground(lipgloss.Color(cfg.Theme.TopicName))
	l := list.New([]list.Item{}, d, 0, 0)
	l.Title = "Agents"
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()
	return l
}

func newContentList(cfg settings.Settings, title string) list.Model {
	l := list.New([]list.Item{}, listview.NewContentDelegate(lipgloss.Color(cfg.Theme.Saved)), 0, 0)
	l.Title = title
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return s
}

func newViewport() viewport.Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)
	return vp
}
