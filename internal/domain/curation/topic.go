package curation

// Kind returns the topic type, treating unknown values as feed.
func (t Topic) Kind() TopicType {
	if t.TopicType == TopicTypeLearning {
		return TopicTypeLearning
	}
	return TopicTypeFeed
}

// IsLearning reports whether the topic belongs to the learning view.
func (t Topic) IsLearning() bool {
	return t.Kind() == TopicTypeLearning
}

// Day returns the current learning day, defaulting to 1 when the server omits it.
func (t Topic) Day() int {
	if t.CurrentDay < 1 {
		return 1
	}
	return t.CurrentDay
}

// Completed reports whether a learning plan is finished.
// The server flag is trusted; a current day past the period also counts.
func (t Topic) Completed() bool {
	if !t.IsLearning() {
		return false
	}
	if t.IsCompleted {
		return true
	}
	return t.LearningPeriodDays > 0 && t.CurrentDay > t.LearningPeriodDays
}

// CanRefresh reports whether a refresh may be requested for the topic.
func (t Topic) CanRefresh() bool {
	return !t.Completed()
}

// Progress describes how far a learning plan has advanced.
type Progress struct {
	Day   int
	Total int
	// Ratio is clamped to [0, 1].
	Ratio     float64
	Completed bool
}

// Progress returns the learning progress. Day never exceeds Total and Ratio never exceeds 1,
// even if the server reports a current day past the period.
func (t Topic) Progress() Progress {
	if !t.IsLearning() || t.LearningPeriodDays <= 0 {
		return Progress{Completed: t.Completed()}
	}
	day := min(t.Day(), t.LearningPeriodDays)
	return Progress{
		Day:       day,
		Total:     t.LearningPeriodDays,
		Ratio:     float64(day) / float64(t.LearningPeriodDays),
		Completed: t.Completed(),
	}
}

// FilterTopics returns the topics of the given kind, preserving order.
func FilterTopics(topics []Topic, kind TopicType) []Topic {
	out := make([]Topic, 0, len(topics))
	for _, t := range topics {
		if t.Kind() == kind {
			out = append(out, t)
		}
	}
	return out
}

// FindTopic returns the topic with the given id.
func FindTopic(topics []Topic, id int64) (Topic, bool) {
	for _, t := range topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}
