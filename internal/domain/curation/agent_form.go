package curation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Cadence is how often an agent delivers content.
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

const (
	DefaultLanguage     = "English"
	DefaultScheduleTime = "08:00"

	interestDelimiter = ". "

	labelLanguage       = "Language:"
	labelSchedule       = "Schedule:"
	labelTopicType      = "Topic Type:"
	labelFeedSource     = "Feed Source:"
	labelLearningPeriod = "Learning Period:"
)

var interestLabels = []string{labelLanguage, labelSchedule, labelTopicType, labelFeedSource, labelLearningPeriod}

// AgentForm holds the structured fields of the create-agent form.
// The server only accepts free text, so the form is composed into one interest string.
type AgentForm struct {
	TopicName          string
	Details            string
	Language           string
	Schedule           Cadence
	ScheduleTime       string
	Type               TopicType
	FeedSource         FeedSource
	LearningPeriodDays int
}

// NewAgentForm returns a form with the defaults of a fresh create dialog.
func NewAgentForm(kind TopicType) AgentForm {
	return AgentForm{
		Schedule:     CadenceDaily,
		ScheduleTime: DefaultScheduleTime,
		Type:         kind,
		FeedSource:   FeedSourceInternet,
	}
}

// FormFromTopic pre-fills a form for editing an existing topic.
func FormFromTopic(t Topic) AgentForm {
	f := NewAgentForm(t.Kind())
	f.TopicName = t.TopicName
	f.Details = t.Description
	if t.FeedSource != "" {
		f.FeedSource = t.FeedSource
	}
	f.LearningPeriodDays = t.LearningPeriodDays
	return f
}

// Normalized trims every field and fills defaults.
func (f AgentForm) Normalized() AgentForm {
	f.TopicName = strings.TrimSpace(f.TopicName)
	f.Details = strings.TrimSpace(f.Details)
	f.Language = strings.TrimSpace(f.Language)
	if f.Language == "" {
		f.Language = DefaultLanguage
	}
	f.Schedule = Cadence(strings.ToLower(strings.TrimSpace(string(f.Schedule))))
	if f.Schedule == "" {
		f.Schedule = CadenceDaily
	}
	f.ScheduleTime = strings.TrimSpace(f.ScheduleTime)
	if f.ScheduleTime == "" {
		f.ScheduleTime = DefaultScheduleTime
	}
	if f.Type != TopicTypeLearning {
		f.Type = TopicTypeFeed
	}
	f.FeedSource = FeedSource(strings.ToLower(strings.TrimSpace(string(f.FeedSource))))
	if f.Type == TopicTypeLearning {
		f.FeedSource = FeedSourceAI
	} else if f.FeedSource == "" {
		f.FeedSource = FeedSourceInternet
	}
	return f
}

// Validate checks the normalized form.
func (f AgentForm) Validate() error {
	n := f.Normalized()
	if n.TopicName == "" {
		return &FormError{Field: "topic_name", Message: "topic name is required"}
	}
	if strings.Contains(n.TopicName, interestDelimiter) {
		return &FormError{Field: "topic_name", Message: "topic name must be a single sentence"}
	}
	if strings.Contains(n.Language, interestDelimiter) {
		return &FormError{Field: "language", Message: "language must be a single word or phrase"}
	}
	for _, field := range []struct{ name, value string }{
		{"topic_name", n.TopicName}, {"details", n.Details}, {"language", n.Language},
	} {
		for _, label := range interestLabels {
			if strings.Contains(field.value, label) {
				return &FormError{Field: field.name, Message: fmt.Sprintf("must not contain %q", label)}
			}
		}
	}
	switch n.Schedule {
	case CadenceDaily, CadenceWeekly, CadenceMonthly:
	default:
		return &FormError{Field: "schedule", Message: "schedule must be daily, weekly or monthly"}
	}
	if _, err := time.Parse("15:04", n.ScheduleTime); err != nil {
		return &FormError{Field: "schedule_time", Message: "schedule time must be HH:MM"}
	}
	if n.Type == TopicTypeLearning {
		if n.LearningPeriodDays <= 0 {
			return &FormError{Field: "learning_period_days", Message: "learning period must be a positive number of days"}
		}
		return nil
	}
	switch n.FeedSource {
	case FeedSourceInternet, FeedSourceAI:
	default:
		return &FormError{Field: "feed_source", Message: "feed source must be internet or ai"}
	}
	return nil
}

// Compose validates the form and renders the interest string submitted to onboarding.
// Fields appear exactly once, in a fixed order.
func (f AgentForm) Compose() (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	n := f.Normalized()
	head := fmt.Sprintf("%s. %s. Language: %s. Schedule: %s at %s. Topic Type: %s",
		n.TopicName, n.Details, n.Language, n.Schedule, n.ScheduleTime, n.Type)
	if n.Type == TopicTypeLearning {
		return fmt.Sprintf("%s. Learning Period: %d days", head, n.LearningPeriodDays), nil
	}
	return fmt.Sprintf("%s. Feed Source: %s", head, n.FeedSource), nil
}

// Patch returns the partial update that applies the form to an existing topic.
func (f AgentForm) Patch() (TopicPatch, error) {
	n := f.Normalized()
	if n.TopicName == "" {
		return TopicPatch{}, &FormError{Field: "topic_name", Message: "topic name is required"}
	}
	patch := TopicPatch{
		TopicName:   &n.TopicName,
		Description: &n.Details,
		FeedSource:  &n.FeedSource,
	}
	if n.Type == TopicTypeLearning {
		if n.LearningPeriodDays <= 0 {
			return TopicPatch{}, &FormError{Field: "learning_period_days", Message: "learning period must be a positive number of days"}
		}
		days := n.LearningPeriodDays
		patch.LearningPeriodDays = &days
	}
	return patch, nil
}

// ParseInterest reads a composed interest string back into a form.
// Unlabelled sentences after the first become the details.
func ParseInterest(text string) (AgentForm, error) {
	text = strings.TrimSpace(text)
	parts := strings.Split(text, interestDelimiter)
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return AgentForm{}, &FormError{Field: "interests", Message: "interest text has no topic name"}
	}

	form := AgentForm{TopicName: name, Type: TopicTypeFeed}
	var details []string
	for _, part := range parts[1:] {
		switch {
		case strings.Contains(part, labelTopicType):
			form.Type = TopicType(strings.ToLower(labelValue(part, labelTopicType)))
		case strings.Contains(part, labelFeedSource):
			form.FeedSource = FeedSource(strings.ToLower(labelValue(part, labelFeedSource)))
		case strings.Contains(part, labelLearningPeriod):
			form.LearningPeriodDays = digitsOf(labelValue(part, labelLearningPeriod))
		case strings.Contains(part, labelLanguage):
			form.Language = labelValue(part, labelLanguage)
		case strings.Contains(part, labelSchedule):
			cadence, at, _ := strings.Cut(labelValue(part, labelSchedule), " at ")
			form.Schedule = Cadence(strings.TrimSpace(cadence))
			form.ScheduleTime = strings.TrimSpace(at)
		default:
			details = append(details, part)
		}
	}
	form.Details = strings.TrimSpace(strings.Join(details, interestDelimiter))
	if form.Type != TopicTypeLearning {
		form.Type = TopicTypeFeed
		if form.FeedSource == "" {
			form.FeedSource = FeedSourceInternet
		}
	} else {
		form.FeedSource = FeedSourceAI
	}
	return form, nil
}

func labelValue(part, label string) string {
	_, value, _ := strings.Cut(part, label)
	return strings.TrimSpace(value)
}

func digitsOf(s string) int {
	var digits strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}
