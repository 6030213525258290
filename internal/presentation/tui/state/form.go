package state

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tesso57/sutra/internal/domain/curation"
)

// Form field keys.
const (
	FieldName     = "name"
	FieldDetails  = "details"
	FieldLanguage = "language"
	FieldSchedule = "schedule"
	FieldTime     = "time"
	FieldSource   = "source"
	FieldPeriod   = "period"
)

// FormField is one labelled input of the agent form.
type FormField struct {
	Key   string
	Label string
	Input textinput.Model
}

// AgentForm is the create/edit agent dialog. TopicID is zero when creating.
type AgentForm struct {
	Kind    curation.TopicType
	TopicID int64
	Fields  []FormField
	Focus   int
	Err     string
}

// NewAgentForm returns an empty create dialog for the given kind.
func NewAgentForm(kind curation.TopicType) AgentForm {
	defaults := curation.NewAgentForm(kind)
	f := AgentForm{Kind: defaults.Type}
	f.add(FieldName, "Topic", "e.g. Rust async runtimes", "")
	f.add(FieldDetails, "Details", "what should the agent focus on", "")
	f.add(FieldLanguage, "Language", curation.DefaultLanguage, "")
	f.add(FieldSchedule, "Schedule", "daily / weekly / monthly", string(defaults.Schedule))
	f.add(FieldTime, "Time", "HH:MM", defaults.ScheduleTime)
	if kind == curation.TopicTypeLearning {
		f.add(FieldPeriod, "Days", "30", "")
	} else {
		f.add(FieldSource, "Source", "internet / ai", string(defaults.FeedSource))
	}
	f.focus(0)
	return f
}

// EditAgentForm returns a dialog pre-filled from an existing topic. Only the
// fields the server can update are shown.
func EditAgentForm(t curation.Topic) AgentForm {
	values := curation.FormFromTopic(t)
	f := AgentForm{Kind: values.Type, TopicID: t.ID}
	f.add(FieldName, "Topic", "", values.TopicName)
	f.add(FieldDetails, "Details", "", values.Details)
	if values.Type == curation.TopicTypeLearning {
		days := ""
		if values.LearningPeriodDays > 0 {
			days = strconv.Itoa(values.LearningPeriodDays)
		}
		f.add(FieldPeriod, "Days", "30", days)
	} else {
		f.add(FieldSource, "Source", "internet / ai", string(values.FeedSource))
	}
	f.focus(0)
	return f
}

func (f *AgentForm) add(key, label, placeholder, value string) {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 40
	ti.SetValue(value)
	f.Fields = append(f.Fields, FormField{Key: key, Label: label, Input: ti})
}

// Editing reports whether the form edits an existing topic.
func (f *AgentForm) Editing() bool {
	return f.TopicID != 0
}

// Title returns the dialog heading.
func (f *AgentForm) Title() string {
	kind := "feed"
	if f.Kind == curation.TopicTypeLearning {
		kind = "learning"
	}
	if f.Editing() {
		return fmt.Sprintf("Edit %s agent", kind)
	}
	return fmt.Sprintf("New %s agent", kind)
}

// Next moves the focus to the following field, wrapping around.
func (f *AgentForm) Next() tea.Cmd {
	if len(f.Fields) == 0 {
		return nil
	}
	return f.focus((f.Focus + 1) % len(f.Fields))
}

// Prev moves the focus to the previous field, wrapping around.
func (f *AgentForm) Prev() tea.Cmd {
	if len(f.Fields) == 0 {
		return nil
	}
	return f.focus((f.Focus - 1 + len(f.Fields)) % len(f.Fields))
}

// OnLastField reports whether the focus is on the final input.
func (f *AgentForm) OnLastField() bool {
	return f.Focus == len(f.Fields)-1
}

func (f *AgentForm) focus(idx int) tea.Cmd {
	var cmd tea.Cmd
	for i := range f.Fields {
		if i == idx {
			cmd = f.Fields[i].Input.Focus()
			continue
		}
		f.Fields[i].Input.Blur()
	}
	f.Focus = idx
	return cmd
}

// Update forwards a message to the focused input.
func (f *AgentForm) Update(msg tea.Msg) tea.Cmd {
	if f.Focus < 0 || f.Focus >= len(f.Fields) {
		return nil
	}
	var cmd tea.Cmd
	f.Fields[f.Focus].Input, cmd = f.Fields[f.Focus].Input.Update(msg)
	return cmd
}

// Value returns the trimmed value of a field, or "" when the form lacks it.
func (f *AgentForm) Value(key string) string {
	for _, field := range f.Fields {
		if field.Key == key {
			return strings.TrimSpace(field.Input.Value())
		}
	}
	return ""
}

// SetValue replaces the value of a field.
func (f *AgentForm) SetValue(key, value string) {
	for i := range f.Fields {
		if f.Fields[i].Key == key {
			f.Fields[i].Input.SetValue(value)
			return
		}
	}
}

// Values converts the inputs into a domain form.
func (f *AgentForm) Values() (curation.AgentForm, error) {
	form := curation.NewAgentForm(f.Kind)
	form.TopicName = f.Value(FieldName)
	form.Details = f.Value(FieldDetails)
	form.Language = f.Value(FieldLanguage)
	if v := f.Value(FieldSchedule); v != "" {
		form.Schedule = curation.Cadence(strings.ToLower(v))
	}
	if v := f.Value(FieldTime); v != "" {
		form.ScheduleTime = v
	}
	if v := f.Value(FieldSource); v != "" {
		form.FeedSource = curation.FeedSource(strings.ToLower(v))
	}
	if v := f.Value(FieldPeriod); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return form, &curation.FormError{Field: "learning_period_days", Message: "learning period must be a number of days"}
		}
		form.LearningPeriodDays = days
	}
	return form, nil
}

// View renders the labelled inputs with a marker on the focused one.
func (f *AgentForm) View() string {
	var b strings.Builder
	for i, field := range f.Fields {
		marker := "  "
		if i == f.Focus {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%-9s %s\n", marker, field.Label+":", field.Input.View())
	}
	return strings.TrimRight(b.String(), "\n")
}
