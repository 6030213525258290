package devserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tesso57/sutra/internal/domain/curation"
)

// timeLayout sorts lexically, so date ranges compare as strings.
const timeLayout = "2006-01-02 15:04:05.000000"

const topicColumns = `id, owner_user_id, topic_name, description, topic_type, feed_source,
	language, learning_period_days, current_day, is_completed, created_at, last_fetched`

const contentColumns = `id, topic_id, title, summary, content, source, url, image_url, fetched_at`

// Draft is generated content not yet stored.
type Draft struct {
	Title    string
	Summary  string
	Content  string
	Source   string
	URL      string
	ImageURL string
}

// topicRecord is a topic with the server-only language column.
type topicRecord struct {
	curation.Topic
	Language string
}

// Store is the sqlite persistence of the development server.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore wraps a migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw sql.NullString) curation.Timestamp {
	if !raw.Valid || raw.String == "" {
		return curation.Timestamp{}
	}
	t, err := time.Parse(timeLayout, raw.String)
	if err != nil {
		return curation.Timestamp{}
	}
	return curation.NewTimestamp(t)
}

// CreateUser registers an account. Emails are unique.
func (s *Store) CreateUser(ctx context.Context, reg curation.Registration) (curation.User, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE lower(email) = lower(?)`, reg.Email).Scan(&exists)
	if err != nil {
		return curation.User{}, err
	}
	if exists > 0 {
		return curation.User{}, badRequest("Email already registered")
	}
	created := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, mobile_number, username, password, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		reg.Name, reg.Email, reg.MobileNumber, reg.Username, reg.Password, formatTime(created))
	if err != nil {
		return curation.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return curation.User{}, err
	}
	return curation.User{
		ID:           id,
		Name:         reg.Name,
		Email:        reg.Email,
		MobileNumber: reg.MobileNumber,
		Username:     reg.Username,
		CreatedAt:    curation.NewTimestamp(created),
	}, nil
}

// User returns an account without its password.
func (s *Store) User(ctx context.Context, id int64) (curation.User, error) {
	var u curation.User
	var created sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, mobile_number, username, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.MobileNumber, &u.Username, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return curation.User{}, notFound("User not found")
	}
	if err != nil {
		return curation.User{}, err
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}

// AddTopic creates a topic for the user from a parsed interest. A topic of the
// same name already owned by the user is linked instead and created is false.
func (s *Store) AddTopic(ctx context.Context, userID int64, form curation.AgentForm) (topic curation.Topic, created bool, err error) {
	if _, err := s.User(ctx, userID); err != nil {
		return curation.Topic{}, false, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+topicColumns+` FROM topics WHERE owner_user_id = ? AND lower(topic_name) = lower(?)`,
		userID, form.TopicName)
	existing, err := scanTopic(row)
	if err == nil {
		return existing.Topic, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return curation.Topic{}, false, err
	}

	currentDay := 0
	if form.Type == curation.TopicTypeLearning {
		currentDay = 1
	}
	language := form.Language
	if language == "" {
		language = curation.DefaultLanguage
	}
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO topics (owner_user_id, topic_name, description, topic_type, feed_source, language,
			learning_period_days, current_day, is_completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		userID, form.TopicName, form.Details, string(form.Type), string(form.FeedSource), language,
		form.LearningPeriodDays, currentDay, formatTime(now))
	if err != nil {
		return curation.Topic{}, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return curation.Topic{}, false, err
	}
	rec, err := s.topic(ctx, id)
	if err != nil {
		return curation.Topic{}, false, err
	}
	return rec.Topic, true, nil
}

// Topics lists the user's topics in creation order.
func (s *Store) Topics(ctx context.Context, userID int64) ([]curation.Topic, error) {
	if _, err := s.User(ctx, userID); err != nil {
		return nil, err
	}
	records, err := s.topicsWhere(ctx, `owner_user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	out := make([]curation.Topic, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Topic)
	}
	return out, nil
}

func (s *Store) topicsWhere(ctx context.Context, where string, args ...any) ([]topicRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+topicColumns+` FROM topics WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []topicRecord
	for rows.Next() {
		rec, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) topic(ctx context.Context, id int64) (topicRecord, error) {
	rec, err := scanTopic(s.db.QueryRowContext(ctx, `SELECT `+topicColumns+` FROM topics WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return topicRecord{}, notFound("Topic not found")
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTopic(row scanner) (topicRecord, error) {
	var rec topicRecord
	var topicType, feedSource string
	var completed int
	var created, fetched sql.NullString
	err := row.Scan(&rec.ID, &rec.OwnerUserID, &rec.TopicName, &rec.Description, &topicType, &feedSource,
		&rec.Language, &rec.LearningPeriodDays, &rec.CurrentDay, &completed, &created, &fetched)
	if err != nil {
		return topicRecord{}, err
	}
	rec.TopicType = curation.TopicType(topicType)
	rec.FeedSource = curation.FeedSource(feedSource)
	rec.IsCompleted = completed != 0
	rec.CreatedAt = parseTime(created)
	rec.LastFetched = parseTime(fetched)
	return rec, nil
}

// UpdateTopic applies a partial update.
func (s *Store) UpdateTopic(ctx context.Context, id int64, patch curation.TopicPatch) (curation.Topic, error) {
	rec, err := s.topic(ctx, id)
	if err != nil {
		return curation.Topic{}, err
	}
	if patch.TopicName != nil && strings.TrimSpace(*patch.TopicName) == "" {
		return curation.Topic{}, badRequest("topic_name must not be empty")
	}
	if patch.LearningPeriodDays != nil && *patch.LearningPeriodDays <= 0 {
		return curation.Topic{}, badRequest("learning_period_days must be positive")
	}
	patch.Apply(&rec.Topic)
	_, err = s.db.ExecContext(ctx,
		`UPDATE topics SET topic_name = ?, description = ?, feed_source = ?, learning_period_days = ? WHERE id = ?`,
		rec.TopicName, rec.Description, string(rec.FeedSource), rec.LearningPeriodDays, id)
	if err != nil {
		return curation.Topic{}, err
	}
	return rec.Topic, nil
}

// DeleteTopic removes a topic with its content and the saves of that content.
func (s *Store) DeleteTopic(ctx context.Context, id int64) error {
	if _, err := s.topic(ctx, id); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{
		`DELETE FROM saved WHERE content_id IN (SELECT id FROM content WHERE topic_id = ?)`,
		`DELETE FROM content WHERE topic_id = ?`,
		`DELETE FROM topics WHERE id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// StoreContent inserts drafts for a topic and records the fetch. The topic's
// current day and completion flag are written as given.
func (s *Store) StoreContent(ctx context.Context, topic curation.Topic, drafts []Draft) ([]curation.ContentItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now()
	items := make([]curation.ContentItem, 0, len(drafts))
	for _, d := range drafts {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO content (topic_id, title, summary, content, source, url, image_url, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			topic.ID, d.Title, d.Summary, d.Content, d.Source, d.URL, d.ImageURL, formatTime(now))
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		items = append(items, curation.ContentItem{
			ID: id, TopicID: topic.ID, Title: d.Title, Summary: d.Summary, Content: d.Content,
			Source: d.Source, URL: d.URL, ImageURL: d.ImageURL, FetchedAt: curation.NewTimestamp(now),
		})
	}
	completed := 0
	if topic.IsCompleted {
		completed = 1
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE topics SET current_day = ?, is_completed = ?, last_fetched = ? WHERE id = ?`,
		topic.CurrentDay, completed, formatTime(now), topic.ID)
	if err != nil {
		return nil, err
	}
	return items, tx.Commit()
}

// DeleteContentBefore removes content fetched before cutoff and returns how
// many items went. Saved content is kept.
func (s *Store) DeleteContentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM content WHERE fetched_at < ? AND id NOT IN (SELECT content_id FROM saved)`,
		formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Feed returns the user's content fetched on day, newest first, at most limit
// items per topic. Topics without content that day are omitted.
func (s *Store) Feed(ctx context.Context, userID int64, day time.Time, limit int) (curation.Snapshot, error) {
	if _, err := s.User(ctx, userID); err != nil {
		return curation.Snapshot{}, err
	}
	topics, err := s.topicsWhere(ctx, `owner_user_id = ?`, userID)
	if err != nil {
		return curation.Snapshot{}, err
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	snap := curation.Snapshot{UserID: userID, Date: curation.NewTimestamp(start), Topics: []curation.TopicFeed{}}
	for _, t := range topics {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+contentColumns+` FROM content
			WHERE topic_id = ? AND fetched_at >= ? AND fetched_at < ?
			ORDER BY fetched_at DESC, id DESC LIMIT ?`,
			t.ID, formatTime(start), formatTime(end), limit)
		if err != nil {
			return curation.Snapshot{}, err
		}
		items, err := scanContent(rows)
		if err != nil {
			return curation.Snapshot{}, err
		}
		if len(items) == 0 {
			continue
		}
		snap.Topics = append(snap.Topics, curation.TopicFeed{TopicID: t.ID, TopicName: t.TopicName, Items: items})
	}
	return snap, nil
}

func scanContent(rows *sql.Rows) ([]curation.ContentItem, error) {
	defer func() { _ = rows.Close() }()
	var out []curation.ContentItem
	for rows.Next() {
		var c curation.ContentItem
		var fetched sql.NullString
		if err := rows.Scan(&c.ID, &c.TopicID, &c.Title, &c.Summary, &c.Content, &c.Source, &c.URL, &c.ImageURL, &fetched); err != nil {
			return nil, err
		}
		c.FetchedAt = parseTime(fetched)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Save bookmarks content. Saving twice is rejected.
func (s *Store) Save(ctx context.Context, userID, contentID int64) (int64, error) {
	if _, err := s.User(ctx, userID); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM content WHERE id = ?`, contentID).Scan(&count); err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, notFound("Content not found")
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM saved WHERE user_id = ? AND content_id = ?`, userID, contentID).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, badRequest("Content already saved")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO saved (user_id, content_id, saved_at) VALUES (?, ?, ?)`, userID, contentID, formatTime(s.now()))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Saved lists bookmarks, newest first.
func (s *Store) Saved(ctx context.Context, userID int64) ([]curation.SavedEntry, error) {
	if _, err := s.User(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.saved_at, c.id, c.topic_id, c.title, c.summary, c.content, c.source, c.url, c.image_url, c.fetched_at
		FROM saved s JOIN content c ON c.id = s.content_id
		WHERE s.user_id = ? ORDER BY s.saved_at DESC, s.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []curation.SavedEntry{}
	for rows.Next() {
		var e curation.SavedEntry
		var savedAt, fetched sql.NullString
		c := &e.Content
		if err := rows.Scan(&e.ID, &savedAt, &c.ID, &c.TopicID, &c.Title, &c.Summary, &c.Content, &c.Source, &c.URL, &c.ImageURL, &fetched); err != nil {
			return nil, err
		}
		e.UserID = userID
		e.ContentID = c.ID
		e.SavedAt = parseTime(savedAt)
		c.FetchedAt = parseTime(fetched)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Unsave deletes a bookmark by its save id.
func (s *Store) Unsave(ctx context.Context, savedID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved WHERE id = ?`, savedID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("Saved content not found")
	}
	return nil
}

func defaultSettings(userID int64) curation.UserSettings {
	return curation.UserSettings{
		UserID:             userID,
		PeriodicFrequency:  "daily",
		PreferredLanguages: []string{"en"},
		DeliveryTime:       "06:00:00",
	}
}

// Settings returns the user's preferences, defaults when never written.
func (s *Store) Settings(ctx context.Context, userID int64) (curation.UserSettings, error) {
	if _, err := s.User(ctx, userID); err != nil {
		return curation.UserSettings{}, err
	}
	var freq, langs, at string
	err := s.db.QueryRowContext(ctx,
		`SELECT periodic_frequency, preferred_languages, delivery_time FROM user_settings WHERE user_id = ?`, userID).
		Scan(&freq, &langs, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultSettings(userID), nil
	}
	if err != nil {
		return curation.UserSettings{}, err
	}
	out := curation.UserSettings{UserID: userID, PeriodicFrequency: freq, DeliveryTime: at}
	if err := json.Unmarshal([]byte(langs), &out.PreferredLanguages); err != nil {
		return curation.UserSettings{}, fmt.Errorf("decode languages: %w", err)
	}
	return out, nil
}

// UpdateSettings replaces the user's preferences.
func (s *Store) UpdateSettings(ctx context.Context, userID int64, in curation.UserSettings) (curation.UserSettings, error) {
	if _, err := s.User(ctx, userID); err != nil {
		return curation.UserSettings{}, err
	}
	if in.PreferredLanguages == nil {
		in.PreferredLanguages = []string{}
	}
	langs, err := json.Marshal(in.PreferredLanguages)
	if err != nil {
		return curation.UserSettings{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_settings (user_id, periodic_frequency, preferred_languages, delivery_time)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			periodic_frequency = excluded.periodic_frequency,
			preferred_languages = excluded.preferred_languages,
			delivery_time = excluded.delivery_time`,
		userID, in.PeriodicFrequency, string(langs), in.DeliveryTime)
	if err != nil {
		return curation.UserSettings{}, err
	}
	in.UserID = userID
	return in, nil
}
