package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/tesso57/sutra/internal/domain/curation"
)

func TestTopicRegistryCreateFromFormSubmitsComposedText(t *testing.T) {
	remote := &stubRemote{}
	want := "Cricket news. Indian team. Language: English. Schedule: daily at 08:00. Topic Type: feed. Feed Source: internet"
	remote.On("SubmitOnboarding", int64(7), want).Return(curation.OnboardingResult{Message: "ok"}, nil).Once()
	remote.On("ListTopics", int64(7)).Return([]curation.Topic{{ID: 1, TopicName: "Cricket news", TopicType: curation.TopicTypeFeed}}, nil).Once()

	registry := NewTopicRegistry(remote, zerolog.Nop())
	form := curation.NewAgentForm(curation.TopicTypeFeed)
	form.TopicName = "Cricket news"
	form.Details = "Indian team"

	if _, err := registry.CreateFromForm(context.Background(), testSession, form); err != nil {
		t.Fatalf("CreateFromForm() error = %v", err)
	}
	remote.AssertExpectations(t)
	if got := registry.FeedTopics(); len(got) != 1 || got[0].TopicName != "Cricket news" {
		t.Fatalf("FeedTopics() = %+v", got)
	}
}

func TestTopicRegistryCreateRejectsInvalidFormWithoutRequest(t *testing.T) {
	remote := &stubRemote{}
	registry := NewTopicRegistry(remote, zerolog.Nop())

	_, err := registry.CreateFromForm(context.Background(), testSession, curation.AgentForm{Details: "no name"})
	var formErr *curation.FormError
	if !errors.As(err, &formErr) {
		t.Fatalf("error = %v, want FormError", err)
	}
	if len(remote.interests) != 0 {
		t.Fatalf("request issued for invalid form: %v", remote.interests)
	}

	if _, err := registry.CreateFromFreeText(context.Background(), curation.Session{}, "Space"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("error = %v, want ErrNoSession", err)
	}
}

func TestTopicRegistryCreateReflectsServerParsing(t *testing.T) {
	remote := &stubRemote{}
	registry := NewTopicRegistry(remote, zerolog.Nop())
	form := curation.NewAgentForm(curation.TopicTypeLearning)
	form.TopicName = "Go generics"
	form.Details = "From scratch"
	form.LearningPeriodDays = 14

	if _, err := registry.CreateFromForm(context.Background(), testSession, form); err != nil {
		t.Fatalf("CreateFromForm() error = %v", err)
	}
	learning := registry.LearningTopics()
	if len(learning) != 1 {
		t.Fatalf("LearningTopics() = %+v", learning)
	}
	got := learning[0]
	if got.TopicName != "Go generics" || got.Description != "From scratch" || got.LearningPeriodDays != 14 || got.FeedSource != curation.FeedSourceAI {
		t.Fatalf("topic = %+v", got)
	}
	if len(registry.FeedTopics()) != 0 {
		t.Fatal("learning topic leaked into the feed view")
	}
}

func TestTopicRegistryListFailureDegradesToEmpty(t *testing.T) {
	remote := seededRemote()
	registry := NewTopicRegistry(remote, zerolog.Nop())
	if _, err := registry.List(context.Background(), testSession); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	remote.On("ListTopics", int64(7)).Return(nil, curation.ErrServer).Once()
	topics, err := registry.List(context.Background(), testSession)
	if !errors.Is(err, curation.ErrServer) {
		t.Fatalf("error = %v, want ErrServer", err)
	}
	if len(topics) != 0 || len(registry.Topics()) != 0 {
		t.Fatalf("topics after failure = %+v", registry.Topics())
	}
}

func TestTopicRegistryDiscardsStaleList(t *testing.T) {
	slow := make(chan struct{})
	started := make(chan struct{})
	remote := &stubRemote{}
	remote.On("ListTopics", int64(7)).Run(func(mock.Arguments) {
		close(started)
		<-slow
	}).Return([]curation.Topic{{ID: 1, TopicName: "old"}}, nil).Once()
	remote.On("ListTopics", int64(7)).Return([]curation.Topic{{ID: 2, TopicName: "new"}}, nil).Once()

	registry := NewTopicRegistry(remote, zerolog.Nop())
	done := make(chan []curation.Topic)
	go func() {
		topics, _ := registry.List(context.Background(), testSession)
		done <- topics
	}()
	<-started

	fresh, err := registry.List(context.Background(), testSession)
	if err != nil || len(fresh) != 1 || fresh[0].ID != 2 {
		t.Fatalf("second List() = %+v, %v", fresh, err)
	}
	close(slow)
	stale := <-done
	if len(stale) != 1 || stale[0].ID != 2 {
		t.Fatalf("stale List() returned %+v", stale)
	}
	if got := registry.Topics(); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("Topics() = %+v, want the later list", got)
	}
}

func TestTopicRegistryUpdate(t *testing.T) {
	remote := seededRemote()
	registry := NewTopicRegistry(remote, zerolog.Nop())
	if _, err := registry.List(context.Background(), testSession); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	name := "Cricket"
	updated, err := registry.Update(context.Background(), 1, curation.TopicPatch{TopicName: &name})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.TopicName != "Cricket" {
		t.Fatalf("updated = %+v", updated)
	}
	if topic, _ := registry.Find(1); topic.TopicName != "Cricket" || topic.FeedSource != curation.FeedSourceInternet {
		t.Fatalf("local topic = %+v", topic)
	}

	if _, err := registry.Update(context.Background(), 1, curation.TopicPatch{}); err == nil {
		t.Fatal("expected error for empty patch")
	}
}

func TestTopicRegistryUpdateAckOnlyPatchesLocally(t *testing.T) {
	remote := &stubRemote{}
	desc := "Test cricket only"
	patch := curation.TopicPatch{Description: &desc}
	remote.On("ListTopics", int64(7)).Return([]curation.Topic{{ID: 4, TopicName: "Cricket", Description: "All"}}, nil).Once()
	remote.On("UpdateTopic", int64(4), patch).Return((*curation.Topic)(nil), nil).Once()

	registry := NewTopicRegistry(remote, zerolog.Nop())
	if _, err := registry.List(context.Background(), testSession); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	updated, err := registry.Update(context.Background(), 4, patch)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.TopicName != "Cricket" || updated.Description != desc {
		t.Fatalf("updated = %+v", updated)
	}
	remote.AssertExpectations(t)
}

func TestTopicRegistryUpdateFailureLeavesLocalCopy(t *testing.T) {
	remote := &stubRemote{}
	name := "Renamed"
	remote.On("ListTopics", int64(7)).Return([]curation.Topic{{ID: 4, TopicName: "Cricket"}}, nil).Once()
	remote.On("UpdateTopic", int64(4), mock.Anything).Return((*curation.Topic)(nil), curation.ErrValidation).Once()

	registry := NewTopicRegistry(remote, zerolog.Nop())
	_, _ = registry.List(context.Background(), testSession)
	if _, err := registry.Update(context.Background(), 4, curation.TopicPatch{TopicName: &name}); !errors.Is(err, curation.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if topic, _ := registry.Find(4); topic.TopicName != "Cricket" {
		t.Fatalf("local topic changed on failure: %+v", topic)
	}
}

func TestTopicRegistryUpdateDuringListIsNotUndone(t *testing.T) {
	stale := []curation.Topic{{ID: 1, TopicName: "Cricket", TopicType: curation.TopicTypeFeed}}
	name := "Chess"
	patch := curation.TopicPatch{TopicName: &name}
	started := make(chan struct{})
	release := make(chan struct{})
	remote := &stubRemote{}
	remote.On("ListTopics", int64(7)).Return(stale, nil).Once()
	remote.On("ListTopics", int64(7)).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(stale, nil).Once()
	remote.On("UpdateTopic", int64(1), patch).Return(&curation.Topic{ID: 1, TopicName: "Chess", TopicType: curation.TopicTypeFeed}, nil).Once()

	registry := NewTopicRegistry(remote, zerolog.Nop())
	if _, err := registry.List(context.Background(), testSession); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = registry.List(context.Background(), testSession)
	}()
	<-started

	if _, err := registry.Update(context.Background(), 1, patch); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	close(release)
	<-done

	if got, _ := registry.Find(1); got.TopicName != "Chess" {
		t.Fatalf("Find(1).TopicName = %q, want the update to survive the older list", got.TopicName)
	}
	remote.AssertExpectations(t)
}
