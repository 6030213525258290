package devserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/tesso57/sutra/internal/domain/curation"
)

type fakeAI struct {
	prompt string
	out    string
	err    error
}

func (f *fakeAI) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.out, f.err
}

const rssFixture = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Search</title>
<item><title>India win</title><link>https://news.test/1</link><description>Big win</description></item>
<item><title></title><link>https://news.test/skip</link></item>
<item><title>Second</title><link>https://news.test/2</link></item>
<item><title>Third</title><link>https://news.test/3</link></item>
</channel></rss>`

func TestFeedGenerator(t *testing.T) {
	var gotQuery, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	gen := FeedGenerator{
		URL:     func(q string) string { return srv.URL + "/rss?q=" + strings.ReplaceAll(q, " ", "+") },
		Timeout: 5 * time.Second,
	}
	drafts, err := gen.Generate(context.Background(), Request{
		Topic: curation.Topic{TopicName: "Cricket", Description: "India"},
		Count: 2,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if gotQuery != "Cricket India" || !strings.Contains(gotAccept, "application/rss+xml") {
		t.Fatalf("query = %q, accept = %q", gotQuery, gotAccept)
	}
	if len(drafts) != 2 || drafts[0].Title != "India win" || drafts[1].URL != "https://news.test/2" {
		t.Fatalf("drafts = %+v", drafts)
	}
	if drafts[0].Source != "Search" || drafts[0].Summary != "Big win" {
		t.Fatalf("first draft = %+v", drafts[0])
	}
}

func TestPromptGenerator_Lesson(t *testing.T) {
	client := &fakeAI{out: "Here you go:\n{\"items\":[{\"title\":\"Day 2: Go\",\"summary\":\"Interfaces\",\"content\":\"...\"},{\"title\":\"extra\"}]}"}
	gen := PromptGenerator{Client: client}
	drafts, err := gen.Generate(context.Background(), Request{
		Topic:    curation.Topic{TopicName: "Go", LearningPeriodDays: 5},
		Language: "English",
		Day:      2,
		Count:    1,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(drafts) != 1 || drafts[0].Source != "Learning Day 2/5" || drafts[0].URL != "" {
		t.Fatalf("drafts = %+v", drafts)
	}
	if !strings.Contains(client.prompt, "day 2 of a 5-day learning plan") || !strings.Contains(client.prompt, `"language":"English"`) {
		t.Fatalf("prompt = %s", client.prompt)
	}
}

func TestParseDrafts_Errors(t *testing.T) {
	for _, raw := range []string{"", "no json here", `{"items":[]}`, `{"items":[{"title":" "}]}`} {
		if _, err := parseDrafts(raw); err == nil {
			t.Errorf("parseDrafts(%q) succeeded", raw)
		}
	}
}

func TestOfflineGenerator(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	gen := OfflineGenerator{Now: func() time.Time { return now }}

	feed, _ := gen.Generate(context.Background(), Request{Topic: curation.Topic{ID: 4, TopicName: "Cricket"}, Count: 3})
	if len(feed) != 3 || feed[0].URL == "" || feed[0].URL == feed[1].URL {
		t.Fatalf("internet drafts = %+v", feed)
	}
	ai, _ := gen.Generate(context.Background(), Request{Topic: curation.Topic{TopicName: "AI", FeedSource: curation.FeedSourceAI}, Count: 1})
	if len(ai) != 1 || ai[0].URL != "" {
		t.Fatalf("ai drafts = %+v", ai)
	}
	lesson, _ := gen.Generate(context.Background(), Request{Topic: curation.Topic{TopicName: "Go", LearningPeriodDays: 3}, Day: 3, Count: 1})
	if len(lesson) != 1 || lesson[0].Title != "Day 3: Go" || lesson[0].Source != "Learning Day 3/3" {
		t.Fatalf("lesson = %+v", lesson)
	}
}

func TestSources_Routing(t *testing.T) {
	var used []string
	named := func(name string, err error) Generator {
		return GeneratorFunc(func(context.Context, Request) ([]Draft, error) {
			used = append(used, name)
			if err != nil {
				return nil, err
			}
			return []Draft{{Title: name}}, nil
		})
	}
	src := Sources{
		Internet: named("internet", nil),
		AI:       named("ai", errors.New("codex missing")),
		Fallback: named("fallback", nil),
		Logger:   zerolog.Nop(),
	}

	drafts, err := src.Generate(context.Background(), Request{Topic: curation.Topic{FeedSource: curation.FeedSourceInternet}})
	if err != nil || drafts[0].Title != "internet" {
		t.Fatalf("internet route = %+v, %v", drafts, err)
	}
	drafts, err = src.Generate(context.Background(), Request{Topic: curation.Topic{}, Day: 1})
	if err != nil || drafts[0].Title != "fallback" {
		t.Fatalf("lesson route = %+v, %v", drafts, err)
	}
	if strings.Join(used, ",") != "internet,ai,fallback" {
		t.Fatalf("used = %v", used)
	}

	noFallback := Sources{AI: named("ai", errors.New("down"))}
	if _, err := noFallback.Generate(context.Background(), Request{Day: 1}); err == nil {
		t.Fatal("expected error without fallback")
	}
}
