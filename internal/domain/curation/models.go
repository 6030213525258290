// Package curation defines the core content-curation models.
package curation

// TopicType partitions topics into the feed and learning views.
type TopicType string

const (
	TopicTypeFeed     TopicType = "feed"
	TopicTypeLearning TopicType = "learning"
)

// FeedSource selects where a feed topic gets its content.
type FeedSource string

const (
	FeedSourceInternet FeedSource = "internet"
	FeedSourceAI       FeedSource = "ai"
)

// User is a registered account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobile_number,omitempty"`
	Username     string    `json:"username,omitempty"`
	Password     string    `json:"password,omitempty"`
	CreatedAt    Timestamp `json:"created_at"`
}

// Registration carries the fields submitted when creating a user.
type Registration struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number,omitempty"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

// Topic is an agent: a subject the server fetches or generates content for.
type Topic struct {
	ID                 int64      `json:"id"`
	OwnerUserID        int64      `json:"owner_user_id,omitempty"`
	TopicName          string     `json:"topic_name"`
	Description        string     `json:"description"`
	TopicType          TopicType  `json:"topic_type"`
	FeedSource         FeedSource `json:"feed_source,omitempty"`
	LearningPeriodDays int        `json:"learning_period_days,omitempty"`
	CurrentDay         int        `json:"current_day,omitempty"`
	IsCompleted        bool       `json:"is_completed"`
	CreatedAt          Timestamp  `json:"created_at"`
	LastFetched        Timestamp  `json:"last_fetched,omitzero"`
}

// TopicPatch is a partial topic update. Nil fields are left unchanged.
type TopicPatch struct {
	TopicName          *string     `json:"topic_name,omitempty"`
	Description        *string     `json:"description,omitempty"`
	FeedSource         *FeedSource `json:"feed_source,omitempty"`
	LearningPeriodDays *int        `json:"learning_period_days,omitempty"`
}

// Empty reports whether the patch carries no field.
func (p TopicPatch) Empty() bool {
	return p.TopicName == nil && p.Description == nil && p.FeedSource == nil && p.LearningPeriodDays == nil
}

// Apply copies the supplied fields onto t.
func (p TopicPatch) Apply(t *Topic) {
	if t == nil {
		return
	}
	if p.TopicName != nil {
		t.TopicName = *p.TopicName
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.FeedSource != nil {
		t.FeedSource = *p.FeedSource
	}
	if p.LearningPeriodDays != nil {
		t.LearningPeriodDays = *p.LearningPeriodDays
	}
}

// ContentItem is one fetched or generated piece of content. It is immutable once fetched.
type ContentItem struct {
	ID        int64     `json:"id"`
	TopicID   int64     `json:"topic_id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	Content   string    `json:"content,omitempty"`
	Source    string    `json:"source,omitempty"`
	URL       string    `json:"url,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	FetchedAt Timestamp `json:"fetched_at"`
}

// IsGenerated reports whether the item was produced by AI rather than linked from the web.
func (c ContentItem) IsGenerated() bool {
	return c.URL == ""
}

// SavedEntry is a bookmark. ID identifies the save relationship, not the content.
type SavedEntry struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	ContentID int64       `json:"content_id"`
	SavedAt   Timestamp   `json:"saved_at,omitzero"`
	Content   ContentItem `json:"content"`
}

// TopicFeed groups the items of one topic inside a snapshot.
type TopicFeed struct {
	TopicID   int64         `json:"topic_id"`
	TopicName string        `json:"topic_name,omitempty"`
	Items     []ContentItem `json:"items"`
}

// Snapshot is the full per-user content state. It always replaces the previous one.
type Snapshot struct {
	UserID int64       `json:"user_id,omitempty"`
	Date   Timestamp   `json:"date,omitzero"`
	Topics []TopicFeed `json:"topics"`
}

// ItemsFor returns the items of topicID, or nil when the snapshot has none.
func (s *Snapshot) ItemsFor(topicID int64) []ContentItem {
	if s == nil {
		return nil
	}
	for _, tf := range s.Topics {
		if tf.TopicID == topicID {
			return tf.Items
		}
	}
	return nil
}

// Without returns a copy of the snapshot that no longer holds topicID.
func (s *Snapshot) Without(topicID int64) *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{UserID: s.UserID, Date: s.Date, Topics: make([]TopicFeed, 0, len(s.Topics))}
	for _, tf := range s.Topics {
		if tf.TopicID == topicID {
			continue
		}
		out.Topics = append(out.Topics, tf)
	}
	return out
}

// UserSettings are the delivery preferences stored per user.
type UserSettings struct {
	UserID             int64    `json:"user_id,omitempty"`
	PeriodicFrequency  string   `json:"periodic_frequency"`
	PreferredLanguages []string `json:"preferred_languages"`
	DeliveryTime       string   `json:"delivery_time"`
}

// OnboardingResult reports the topics created or linked by an onboarding submission.
type OnboardingResult struct {
	Message      string   `json:"message"`
	TopicsAdded  []Topic  `json:"topics_added"`
	TopicsLinked []string `json:"topics_linked"`
}

// RefreshResult acknowledges a server-side refresh.
type RefreshResult struct {
	Message           string `json:"message"`
	TotalItemsFetched int    `json:"total_items_fetched,omitempty"`
}
