package curation

import "strconv"

// Session identifies the signed-in user. The zero value means signed out.
// There is no token and no expiry: presence of a user id is the whole session.
type Session struct {
	UserID   int64
	Username string
}

// Active reports whether a user is signed in.
func (s Session) Active() bool {
	return s.UserID > 0
}

// Label returns a display name for the session.
func (s Session) Label() string {
	if s.Username != "" {
		return s.Username
	}
	if s.UserID > 0 {
		return "user " + strconv.FormatInt(s.UserID, 10)
	}
	return ""
}
