package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
	"github.com/tesso57/sutra/internal/domain/curation"
	"github.com/tesso57/sutra/internal/infrastructure/ai"
)

// Request describes the content wanted for one topic refresh.
type Request struct {
	Topic    curation.Topic
	Language string
	// Day is the learning day to produce; zero for feed topics.
	Day   int
	Count int
}

// Generator produces content drafts for a topic.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]Draft, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) ([]Draft, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) ([]Draft, error) {
	return f(ctx, req)
}

const feedAcceptHeader = "application/atom+xml, application/rss+xml, application/feed+json, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5"

type acceptTransport struct {
	base http.RoundTripper
}

func (t acceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	clone := req.Clone(req.Context())
	if clone.Header.Get("Accept") == "" {
		clone.Header.Set("Accept", feedAcceptHeader)
	}
	return base.RoundTrip(clone)
}

// FeedGenerator pulls internet content from a search feed.
type FeedGenerator struct {
	// URL maps a search query to a feed URL.
	URL     func(query string) string
	Client  *http.Client
	Timeout time.Duration
}

// Generate implements Generator.
func (g FeedGenerator) Generate(ctx context.Context, req Request) ([]Draft, error) {
	if g.URL == nil {
		return nil, errors.New("feed url template is not configured")
	}
	query := strings.TrimSpace(req.Topic.TopicName + " " + req.Topic.Description)
	url := g.URL(query)

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	client := g.Client
	if client == nil {
		client = &http.Client{}
	}
	fp := gofeed.NewParser()
	fp.UserAgent = "Sutra/1.0"
	fp.Client = &http.Client{Transport: acceptTransport{base: client.Transport}, Timeout: client.Timeout}
	parsed, err := fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	drafts := make([]Draft, 0, min(req.Count, len(parsed.Items)))
	for _, item := range parsed.Items {
		if len(drafts) >= req.Count {
			break
		}
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Link) == "" {
			continue
		}
		source := parsed.Title
		if item.Author != nil && item.Author.Name != "" {
			source = item.Author.Name
		}
		d := Draft{
			Title:   strings.TrimSpace(item.Title),
			Summary: strings.TrimSpace(item.Description),
			Content: item.Content,
			Source:  source,
			URL:     item.Link,
		}
		if item.Image != nil {
			d.ImageURL = item.Image.URL
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

const maxPromptDescriptionChars = 2000

// PromptGenerator asks a text model for feed articles or learning lessons and
// parses its JSON answer.
type PromptGenerator struct {
	Client ai.Client
}

// Generate implements Generator.
func (g PromptGenerator) Generate(ctx context.Context, req Request) ([]Draft, error) {
	if g.Client == nil {
		return nil, errors.New("ai client is not configured")
	}
	raw, err := g.Client.Generate(ctx, buildPrompt(req))
	if err != nil {
		return nil, err
	}
	drafts, err := parseDrafts(raw)
	if err != nil {
		return nil, err
	}
	if len(drafts) > req.Count {
		drafts = drafts[:req.Count]
	}
	for i := range drafts {
		if req.Day > 0 {
			drafts[i].Source = lessonSource(req)
		} else if drafts[i].Source == "" {
			drafts[i].Source = "AI"
		}
		// Generated content carries no link.
		drafts[i].URL = ""
	}
	return drafts, nil
}

func buildPrompt(req Request) string {
	topic := struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Language    string `json:"language"`
	}{
		Name:        strings.TrimSpace(req.Topic.TopicName),
		Description: limitText(strings.TrimSpace(req.Topic.Description), maxPromptDescriptionChars),
		Language:    req.Language,
	}
	payload, _ := json.Marshal(topic)

	lines := []string{"You are writing content for a personal curation app."}
	if req.Day > 0 {
		lines = append(lines,
			fmt.Sprintf("Write day %d of a %d-day learning plan on the topic.", req.Day, req.Topic.LearningPeriodDays),
			"Build on earlier days and end with one short exercise.",
		)
	} else {
		lines = append(lines, fmt.Sprintf("Write %d short, current articles on the topic.", req.Count))
	}
	lines = append(lines,
		`Return ONLY valid JSON without markdown: {"items":[{"title":"...","summary":"...","content":"..."}]}`,
		"Rules:",
		"- summary: 1 to 2 sentences.",
		"- content: plain text paragraphs.",
		"- write in the requested language.",
		"Topic JSON:",
		string(payload),
	)
	return strings.Join(lines, "\n")
}

func limitText(s string, maxChars int) string {
	runes := []rune(s)
	if maxChars <= 0 || len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

func parseDrafts(raw string) ([]Draft, error) {
	type payload struct {
		Items []struct {
			Title   string `json:"title"`
			Summary string `json:"summary"`
			Content string `json:"content"`
		} `json:"items"`
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, errors.New("ai client returned empty output")
	}
	decode := func(data string) ([]Draft, error) {
		var out payload
		if err := json.Unmarshal([]byte(data), &out); err != nil {
			return nil, err
		}
		drafts := make([]Draft, 0, len(out.Items))
		for _, item := range out.Items {
			if strings.TrimSpace(item.Title) == "" {
				continue
			}
			drafts = append(drafts, Draft{
				Title:   strings.TrimSpace(item.Title),
				Summary: strings.TrimSpace(item.Summary),
				Content: strings.TrimSpace(item.Content),
			})
		}
		if len(drafts) == 0 {
			return nil, errors.New("ai output has no items")
		}
		return drafts, nil
	}

	drafts, err := decode(text)
	if err == nil {
		return drafts, nil
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("failed to parse ai output as JSON: %w", err)
	}
	drafts, decodeErr := decode(text[start : end+1])
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to parse ai output as JSON: %w", decodeErr)
	}
	return drafts, nil
}

func lessonSource(req Request) string {
	return fmt.Sprintf("Learning Day %d/%d", req.Day, req.Topic.LearningPeriodDays)
}

// OfflineGenerator produces deterministic placeholder content. It never fails.
type OfflineGenerator struct {
	Now func() time.Time
}

// Generate implements Generator.
func (g OfflineGenerator) Generate(_ context.Context, req Request) ([]Draft, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	name := req.Topic.TopicName
	if req.Day > 0 {
		return []Draft{{
			Title:   fmt.Sprintf("Day %d: %s", req.Day, name),
			Summary: fmt.Sprintf("Lesson %d of %d on %s.", req.Day, req.Topic.LearningPeriodDays, name),
			Content: fmt.Sprintf("Today's lesson covers %s. %s", name, req.Topic.Description),
			Source:  lessonSource(req),
		}}, nil
	}
	stamp := now().UTC().Format("2006-01-02 15:04")
	drafts := make([]Draft, 0, req.Count)
	for i := 1; i <= req.Count; i++ {
		d := Draft{
			Title:   fmt.Sprintf("%s update %d (%s)", name, i, stamp),
			Summary: fmt.Sprintf("Item %d about %s.", i, name),
			Content: req.Topic.Description,
			Source:  "offline",
		}
		if req.Topic.FeedSource != curation.FeedSourceAI {
			d.URL = fmt.Sprintf("https://example.invalid/%d/%d", req.Topic.ID, now().UnixNano()+int64(i))
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// Sources routes a request to the generator for the topic's source. A missing
// or failing generator falls back to Fallback.
type Sources struct {
	Internet Generator
	AI       Generator
	Fallback Generator
	Logger   zerolog.Logger
}

// Generate implements Generator.
func (s Sources) Generate(ctx context.Context, req Request) ([]Draft, error) {
	primary, name := s.Internet, "internet"
	if req.Day > 0 || req.Topic.FeedSource == curation.FeedSourceAI {
		primary, name = s.AI, "ai"
	}
	if primary != nil {
		drafts, err := primary.Generate(ctx, req)
		if err == nil && len(drafts) > 0 {
			return drafts, nil
		}
		if s.Fallback == nil {
			if err == nil {
				err = errors.New("generator returned no content")
			}
			return nil, err
		}
		s.Logger.Warn().Err(err).Str("source", name).Int64("topic_id", req.Topic.ID).Msg("generation failed, using fallback")
	}
	if s.Fallback == nil {
		return nil, fmt.Errorf("no %s generator configured", name)
	}
	return s.Fallback.Generate(ctx, req)
}
