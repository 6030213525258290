package usecase

import (
	"sync"

	"github.com/tesso57/sutra/internal/domain/curation"
)

// View is one of the topic views, each with its own selection.
type View int

const (
	FeedView View = iota
	LearningView
)

// Views lists the topic views in display order.
var Views = []View{FeedView, LearningView}

// TopicType returns the topic type shown by the view.
func (v View) TopicType() curation.TopicType {
	if v == LearningView {
		return curation.TopicTypeLearning
	}
	return curation.TopicTypeFeed
}

func (v View) String() string {
	if v == LearningView {
		return "Learning"
	}
	return "Feed"
}

// ViewFor returns the view that shows the topic.
func ViewFor(t curation.Topic) View {
	if t.IsLearning() {
		return LearningView
	}
	return FeedView
}

// Selection keeps the active topic of each view.
type Selection struct {
	mu     *sync.Mutex
	active map[View]int64
}

// NewSelection constructs a Selection with its own lock.
func NewSelection() *Selection {
	return newSelection(&sync.Mutex{})
}

func newSelection(mu *sync.Mutex) *Selection {
	return &Selection{mu: mu, active: make(map[View]int64)}
}

// Select makes topicID the active topic of the view.
func (s *Selection) Select(view View, topicID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[view] = topicID
}

// Active returns the active topic id of the view.
func (s *Selection) Active(view View) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.active[view]
	return id, ok
}

// Reconcile clears a selection whose topic is gone and selects the first topic
// of the view when nothing is selected.
func (s *Selection) Reconcile(view View, topics []curation.Topic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked(view, topics)
}

func (s *Selection) reconcileLocked(view View, topics []curation.Topic) {
	visible := curation.FilterTopics(topics, view.TopicType())
	if id, ok := s.active[view]; ok {
		if _, found := curation.FindTopic(visible, id); found {
			return
		}
		delete(s.active, view)
	}
	if len(visible) > 0 {
		s.active[view] = visible[0].ID
	}
}

// Forget clears every selection pointing at topicID.
func (s *Selection) Forget(topicID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgetLocked(topicID)
}

func (s *Selection) forgetLocked(topicID int64) {
	for view, id := range s.active {
		if id == topicID {
			delete(s.active, view)
		}
	}
}
