package devserver

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/tesso57/sutra/internal/domain/curation"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func mustUser(t *testing.T, s *Store, email string) curation.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), curation.Registration{Name: "Ada", Email: email, Username: "ada", Password: "pw"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return u
}

func mustTopic(t *testing.T, s *Store, userID int64, form curation.AgentForm) curation.Topic {
	t.Helper()
	topic, created, err := s.AddTopic(context.Background(), userID, form.Normalized())
	if err != nil || !created {
		t.Fatalf("AddTopic() = %v, %v", created, err)
	}
	return topic
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	if got, _ := statusOf(err); got != want {
		t.Fatalf("status of %v = %d, want %d", err, got, want)
	}
}

func TestOpenDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.db")
	db, err := OpenDB(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = db.Close()
	db, err = OpenDB(path)
	if err != nil {
		t.Fatalf("second OpenDB() error = %v", err)
	}
	_ = db.Close()
}

func TestStore_Users(t *testing.T) {
	s := openTestStore(t)
	u := mustUser(t, s, "ada@example.com")

	_, err := s.CreateUser(context.Background(), curation.Registration{Name: "Ada", Email: "ADA@example.com"})
	assertStatus(t, err, http.StatusBadRequest)

	got, err := s.User(context.Background(), u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != "ada@example.com" || got.Password != "" || got.CreatedAt.IsZero() {
		t.Fatalf("User() = %+v", got)
	}
	_, err = s.User(context.Background(), 999)
	assertStatus(t, err, http.StatusNotFound)
}

func TestStore_AddTopicLinksDuplicateName(t *testing.T) {
	s := openTestStore(t)
	u := mustUser(t, s, "ada@example.com")
	form := curation.AgentForm{TopicName: "Cricket news", Details: "Indian team"}
	first := mustTopic(t, s, u.ID, form)

	form.TopicName = "cricket NEWS"
	second, created, err := s.AddTopic(context.Background(), u.ID, form.Normalized())
	if err != nil {
		t.Fatal(err)
	}
	if created || second.ID != first.ID {
		t.Fatalf("duplicate name created a topic: %+v", second)
	}

	learning := mustTopic(t, s, u.ID, curation.AgentForm{TopicName: "Go", Type: curation.TopicTypeLearning, LearningPeriodDays: 3})
	if learning.CurrentDay != 1 || learning.FeedSource != curation.FeedSourceAI || learning.IsCompleted {
		t.Fatalf("learning topic = %+v", learning)
	}
}

func TestStore_DeleteTopicCascades(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	u := mustUser(t, s, "ada@example.com")
	keep := mustTopic(t, s, u.ID, curation.AgentForm{TopicName: "Keep"})
	drop := mustTopic(t, s, u.ID, curation.AgentForm{TopicName: "Drop"})

	kept, err := s.StoreContent(ctx, keep, []Draft{{Title: "k"}})
	if err != nil {
		t.Fatal(err)
	}
	dropped, err := s.StoreContent(ctx, drop, []Draft{{Title: "d1"}, {Title: "d2"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, u.ID, dropped[0].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, u.ID, kept[0].ID); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteTopic(ctx, drop.ID); err != nil {
		t.Fatalf("DeleteTopic() error = %v", err)
	}
	topics, _ := s.Topics(ctx, u.ID)
	if len(topics) != 1 || topics[0].ID != keep.ID {
		t.Fatalf("topics after delete = %+v", topics)
	}
	saved, _ := s.Saved(ctx, u.ID)
	if len(saved) != 1 || saved[0].ContentID != kept[0].ID {
		t.Fatalf("saved after delete = %+v", saved)
	}
	snap, _ := s.Feed(ctx, u.ID, time.Now().UTC(), 10)
	if len(snap.Topics) != 1 || snap.Topics[0].TopicID != keep.ID {
		t.Fatalf("feed after delete = %+v", snap)
	}
	assertStatus(t, s.DeleteTopic(ctx, drop.ID), http.StatusNotFound)
}

func TestStore_SaveTwiceRejected(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	u := mustUser(t, s, "ada@example.com")
	topic := mustTopic(t, s, u.ID, curation.AgentForm{TopicName: "Cricket"})
	items, _ := s.StoreContent(ctx, topic, []Draft{{Title: "a"}})

	id, err := s.Save(ctx, u.ID, items[0].ID)
	if err != nil || id == 0 {
		t.Fatalf("Save() = %d, %v", id, err)
	}
	_, err = s.Save(ctx, u.ID, items[0].ID)
	assertStatus(t, err, http.StatusBadRequest)
	_, err = s.Save(ctx, u.ID, 12345)
	assertStatus(t, err, http.StatusNotFound)

	if err := s.Unsave(ctx, id); err != nil {
		t.Fatal(err)
	}
	assertStatus(t, s.Unsave(ctx, id), http.StatusNotFound)
}

func TestStore_FeedFiltersByDayAndLimit(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return day }
	u := mustUser(t, s, "ada@example.com")
	topic := mustTopic(t, s, u.ID, curation.AgentForm{TopicName: "Cricket"})
	if _, err := s.StoreContent(ctx, topic, []Draft{{Title: "1"}, {Title: "2"}, {Title: "3"}}); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Feed(ctx, u.ID, day, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Topics) != 1 || len(snap.Topics[0].Items) != 2 || snap.Topics[0].Items[0].Title != "3" {
		t.Fatalf("Feed() = %+v", snap)
	}
	other, _ := s.Feed(ctx, u.ID, day.AddDate(0, 0, 1), 10)
	if len(other.Topics) != 0 {
		t.Fatalf("next day feed = %+v", other)
	}
}

func TestStore_Settings(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	u := mustUser(t, s, "ada@example.com")

	got, err := s.Settings(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.PeriodicFrequency != "daily" || got.DeliveryTime != "06:00:00" || len(got.PreferredLanguages) != 1 {
		t.Fatalf("default settings = %+v", got)
	}
	want := curation.UserSettings{PeriodicFrequency: "weekly", PreferredLanguages: []string{"en", "hi"}, DeliveryTime: "07:30"}
	if _, err := s.UpdateSettings(ctx, u.ID, want); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Settings(ctx, u.ID)
	if got.PeriodicFrequency != "weekly" || len(got.PreferredLanguages) != 2 || got.UserID != u.ID {
		t.Fatalf("settings = %+v", got)
	}
}

func TestStore_DeleteContentBeforeKeepsSaved(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	old := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return old }
	u := mustUser(t, s, "ada@example.com")
	topic := mustTopic(t, s, u.ID, curation.AgentForm{TopicName: "Cricket"})
	stale, err := s.StoreContent(ctx, topic, []Draft{{Title: "saved"}, {Title: "stale"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, u.ID, stale[0].ID); err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return old.AddDate(0, 0, 10) }
	if _, err := s.StoreContent(ctx, topic, []Draft{{Title: "fresh"}}); err != nil {
		t.Fatal(err)
	}

	deleted, err := s.DeleteContentBefore(ctx, old.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("DeleteContentBefore() error = %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if snap, _ := s.Feed(ctx, u.ID, old, 10); len(snap.Topics) != 1 || len(snap.Topics[0].Items) != 1 || snap.Topics[0].Items[0].Title != "saved" {
		t.Fatalf("old day after cleanup = %+v", snap)
	}
	if snap, _ := s.Feed(ctx, u.ID, old.AddDate(0, 0, 10), 10); len(snap.Topics) != 1 {
		t.Fatalf("fresh content removed: %+v", snap)
	}
}
