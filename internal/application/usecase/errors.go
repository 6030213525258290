package usecase

import "errors"

var (
	// ErrNoSession is returned by operations that need a signed-in user.
	ErrNoSession = errors.New("not signed in")
	// ErrTopicCompleted rejects a refresh of a finished learning plan.
	ErrTopicCompleted = errors.New("learning plan is completed")
	// ErrRefreshInFlight rejects a refresh while the same one is outstanding.
	ErrRefreshInFlight = errors.New("refresh already in progress")
	// ErrNotSaved is returned when a content id has no saved entry to remove.
	ErrNotSaved     = errors.New("content is not saved")
	ErrNoSelection  = errors.New("no topic selected")
	ErrUnknownTopic = errors.New("unknown topic")
)
