package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tesso57/sutra/internal/application/usecase"
	"github.com/tesso57/sutra/internal/domain/curation"
	"github.com/tesso57/sutra/internal/presentation/tui"
)

// TUICmd opens the terminal UI. A signed-out session still starts the UI,
// which then shows how to sign in.
type TUICmd struct{}

func (c *TUICmd) Run(ctx context.Context, app *App) error {
	s, err := app.Sessions.Current()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	app.Logger.Info().Int64("user_id", s.UserID).Msg("starting tui")
	p := tea.NewProgram(tui.NewModel(app.Settings, app.Workspace(), s), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

type RegisterCmd struct {
	Name     string `required:"" help:"Full name"`
	Email    string `required:"" help:"Email address"`
	Username string `required:"" help:"Username"`
	Password string `required:"" help:"Password"`
	Mobile   string `help:"Mobile number"`
}

func (c *RegisterCmd) Run(ctx context.Context, app *App) error {
	s, user, err := app.Sessions.Register(ctx, curation.Registration{
		Name:         c.Name,
		Email:        c.Email,
		Username:     c.Username,
		Password:     c.Password,
		MobileNumber: c.Mobile,
	})
	if err != nil {
		return err
	}
	app.printf("Registered user %d, signed in as %s\n", user.ID, s.Label())
	return nil
}

type LoginCmd struct {
	UserID   int64  `name:"user-id" required:"" help:"Account id"`
	Username string `help:"Display name for this session"`
}

func (c *LoginCmd) Run(ctx context.Context, app *App) error {
	s, err := app.Sessions.Login(ctx, c.UserID, c.Username)
	if err != nil {
		return err
	}
	app.printf("Signed in as %s\n", s.Label())
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(app *App) error {
	if err := app.Sessions.Logout(); err != nil {
		return err
	}
	app.printf("Signed out\n")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(app *App) error {
	s, err := app.Sessions.Current()
	if err != nil {
		return err
	}
	if !s.Active() {
		app.printf("Not signed in\n")
		return nil
	}
	app.printf("%s (user %d)\n", s.Label(), s.UserID)
	return nil
}

type TopicsCmd struct {
	Type string `enum:"all,feed,learning" default:"all" help:"Filter by agent type (all, feed, learning)"`
}

func (c *TopicsCmd) Run(ctx context.Context, app *App) error {
	s, err := app.Session()
	if err != nil {
		return err
	}
	topics, err := app.Workspace().Topics.List(ctx, s)
	if err != nil {
		return err
	}
	if c.Type != "all" {
		topics = curation.FilterTopics(topics, curation.TopicType(c.Type))
	}
	if len(topics) == 0 {
		app.printf("No agents yet. Create one with `sutra agent add`.\n")
		return nil
	}
	app.printf("%s\n", topicTable(topics))
	return nil
}

type AgentCmd struct {
	Add    AgentAddCmd    `cmd:"" help:"Create a feed or learning agent"`
	Edit   AgentEditCmd   `cmd:"" help:"Change an agent"`
	Delete AgentDeleteCmd `cmd:"" help:"Delete an agent and its content"`
}

type AgentAddCmd struct {
	Name     string `arg:"" help:"Topic of the agent"`
	Learning bool   `help:"Create a learning plan instead of a feed"`
	Details  string `help:"What the agent should focus on"`
	Language string `help:"Content language" default:"English"`
	Schedule string `enum:"daily,weekly,monthly" default:"daily" help:"Delivery cadence"`
	At       string `default:"08:00" help:"Delivery time (HH:MM)"`
	Source   string `enum:"internet,ai" default:"internet" help:"Feed source"`
	Days     int    `help:"Learning period in days"`
}

func (c *AgentAddCmd) Run(ctx context.Context, app *App) error {
	s, err := app.Session()
	if err != nil {
		return err
	}
	kind := curation.TopicTypeFeed
	if c.Learning {
		kind = curation.TopicTypeLearning
	}
	form := curation.NewAgentForm(kind)
	form.TopicName = c.Name
	form.Details = c.Details
	form.Language = c.Language
	form.Schedule = curation.Cadence(c.Schedule)
	form.ScheduleTime = c.At
	form.FeedSource = curation.FeedSource(c.Source)
	form.LearningPeriodDays = c.Days

	result, err := app.Workspace().Topics.CreateFromForm(ctx, s, form)
	if err != nil {
		return err
	}
	if result.Message != "" {
		app.printf("%s\n", result.Message)
	}
	for _, t := range result.TopicsAdded {
		app.printf("Created %s agent %d: %s\n", t.Kind(), t.ID, t.TopicName)
	}
	return nil
}

type AgentEditCmd struct {
	ID      int64  `arg:"" help:"Agent id"`
	Name    string `help:"New topic name"`
	Details string `help:"New details"`
	Source  string `help:"New feed source (internet, ai)"`
	Days    int    `help:"New learning period in days"`
}

func (c *AgentEditCmd) Run(ctx context.Context, app *App) error {
	s, err := app.Session()
	if err != nil {
		return err
	}
	ws := app.Workspace()
	if _, err := ws.LoadTopics(ctx, s); err != nil {
		return err
	}
	topic, ok := ws.Topics.Find(c.ID)
	if !ok {
		return fmt.Errorf("%w: %d", usecase.ErrUnknownTopic, c.ID)
	}

	form := curation.FormFromTopic(topic)
	if c.Name != "" {
		form.TopicName = c.Name
	}
	if c.Details != "" {
		form.Details = c.Details
	}
	switch src := curation.FeedSource(strings.ToLower(c.Source)); src {
	case "":
	case curation.FeedSourceInternet, curation.FeedSourceAI:
		form.FeedSource = src
	default:
		return &curation.FormError{Field: "feed_source", Message: "feed source must be internet or ai"}
	}
	if c.Days > 0 {
		form.LearningPeriodDays = c.Days
	}
	patch, err := form.Patch()
	if err != nil {
		return err
	}
	updated, err := ws.Topics.Update(ctx, c.ID, patch)
	if err != nil {
		return err
	}
	app.printf("Updated agent %d: %s\n", updated.ID, updated.TopicName)
	return nil
}

type AgentDeleteCmd struct {
	ID int64 `arg:"" help:"Agent id"`
}

func (c *AgentDeleteCmd) Run(ctx context.Context, app *App) error {
	if _, err := app.Session(); err != nil {
		return err
	}
	if err := app.Workspace().DeleteTopic(ctx, c.ID); err != nil {
		return err
	}
	app.printf("Deleted agent %d\n", c.ID)
	return nil
}

type RefreshCmd struct {
	Topic int64 `help:"Refresh only this agent"`
}

func (c *RefreshCmd) Run(ctx context.Context, app *App) error {
	s, err := app.Session()
	if err != nil {
		return err
	}
	ws := app.Workspace()
	var result curation.RefreshResult
	if c.Topic == 0 {
		result, err = ws.Feed.RefreshAll(ctx, s)
	} else {
		if _, err := ws.LoadTopics(ctx, s); err != nil {
			return err
		}
		topic, ok := ws.Topics.Find(c.Topic)
		if !ok {
			return fmt.Errorf("%w: %d", usecase.ErrUnknownTopic, c.Topic)
		}
		result, err = ws.Feed.RefreshOne(ctx, s, topic)
	}
	if err != nil {
		return err
	}
	app.printf("%s\n", refreshSummary(result))
	return nil
}

func refreshSummary(r curation.RefreshResult) string {
	msg := r.Message
	if msg == "" {
		msg = "Refreshed"
	}
	if r.TotalItemsFetched > 0 {
		msg += fmt.Sprintf(" (%d items)", r.TotalItemsFetched)
	}
	return msg
}

type SavedCmd struct {
	List   SavedListCmd   `cmd:"" default:"1" help:"List saved items"`
	Add    SavedAddCmd    `cmd:"" help:"Save a content item"`
	Remove SavedRemoveCmd `cmd:"" help:"Remove a content item from saved"`
}

type SavedListCmd struct{}

func (c *SavedListCmd) Run(ctx context.Context, app *App) error {
	s, err := app.Session()
	if err != nil {
		return err
	}
	entries, err := app.Workspace().Saved.List(ctx, s)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		app.printf("Nothing saved yet.\n")
		return nil
	}
	app.printf("%s\n", savedTable(entries))
	return nil
}

type SavedAddCmd struct {
	ContentID int64 `arg:"" help:"Content id"`
}

func (c *SavedAddCmd) Run(ctx context.Context, app *App) error {
	s, err := app.Session()
	if err != nil {
		return err
	}
	ws := app.Workspace()
	if _, err := ws.Saved.List(ctx, s); err != nil {
		return err
	}
	if ws.Saved.IsSaved(c.ContentID) {
		app.printf("Content %d is already saved\n", c.ContentID)
		return nil
	}
	entry, err := ws.Save(ctx, s, c.ContentID)
	if err != nil {
		return err
	}
	app.printf("Saved content %d (entry %d)\n", entry.ContentID, entry.ID)
	return nil
}

type SavedRemoveCmd struct {
	ContentID int64 `arg:"" help:"Content id"`
}

func (c *SavedRemoveCmd) Run(ctx context.Context, app *App) error {
	s, err := app.Session()
	if err != nil {
		return err
	}
	ws := app.Workspace()
	if _, err := ws.Saved.List(ctx, s); err != nil {
		return err
	}
	if err := ws.Saved.UnsaveContent(ctx, c.ContentID); err != nil {
		return err
	}
	app.printf("Removed content %d from saved\n", c.ContentID)
	return nil
}

type PrefsCmd struct {
	Show PrefsShowCmd `cmd:"" default:"1" help:"Show delivery preferences"`
	Set  PrefsSetCmd  `cmd:"" help:"Change delivery preferences"`
}

type PrefsShowCmd struct{}

func (c *PrefsShowCmd) Run(ctx context.Context, app *App) error {
	s, err := app.Session()
	if err != nil {
		return err
	}
	prefs, err := usecase.NewPreferencesService(app.Remote).Get(ctx, s)
	if err != nil {
		return err
	}
	printPrefs(app, prefs)
	return nil
}

type PrefsSetCmd struct {
	Frequency string   `help:"Delivery frequency (daily, weekly, custom)"`
	Languages []string `help:"Preferred languages, comma separated"`
	At        string   `help:"Delivery time (HH:MM)"`
}

func (c *PrefsSetCmd) Run(ctx context.Context, app *App) error {
	s, err := app.Session()
	if err != nil {
		return err
	}
	svc := usecase.NewPreferencesService(app.Remote)
	prefs, err := svc.Get(ctx, s)
	if err != nil {
		return err
	}
	if c.Frequency != "" {
		prefs.PeriodicFrequency = c.Frequency
	}
	if len(c.Languages) > 0 {
		prefs.PreferredLanguages = c.Languages
	}
	if c.At != "" {
		prefs.DeliveryTime = c.At
	}
	prefs, err = svc.Update(ctx, s, prefs)
	if err != nil {
		return err
	}
	printPrefs(app, prefs)
	return nil
}

func printPrefs(app *App, p curation.UserSettings) {
	app.printf("frequency: %s\nlanguages: %s\ndelivery:  %s\n",
		p.PeriodicFrequency, strings.Join(p.PreferredLanguages, ", "), p.DeliveryTime)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
