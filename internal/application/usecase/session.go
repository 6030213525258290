package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/tesso57/sutra/internal/domain/curation"
)

// SessionService signs users in and out explicitly. The session is a plain
// value passed to every operation.
type SessionService struct {
	Users UserStore
	Repo  SessionRepository
}

// NewSessionService constructs a SessionService.
func NewSessionService(users UserStore, repo SessionRepository) SessionService {
	return SessionService{Users: users, Repo: repo}
}

// Current returns the persisted session, which may be signed out.
func (s SessionService) Current() (curation.Session, error) {
	return s.Repo.Load()
}

// Require returns the persisted session or ErrNoSession.
func (s SessionService) Require() (curation.Session, error) {
	session, err := s.Repo.Load()
	if err != nil {
		return curation.Session{}, err
	}
	if !session.Active() {
		return curation.Session{}, ErrNoSession
	}
	return session, nil
}

// Register creates an account and signs it in.
func (s SessionService) Register(ctx context.Context, reg curation.Registration) (curation.Session, curation.User, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Username = strings.TrimSpace(reg.Username)
	reg.MobileNumber = strings.TrimSpace(reg.MobileNumber)
	for _, field := range []struct{ name, value string }{
		{"name", reg.Name}, {"email", reg.Email}, {"username", reg.Username}, {"password", reg.Password},
	} {
		if field.value == "" {
			return curation.Session{}, curation.User{}, &curation.FormError{Field: field.name, Message: field.name + " is required"}
		}
	}
	if !strings.Contains(reg.Email, "@") {
		return curation.Session{}, curation.User{}, &curation.FormError{Field: "email", Message: "email is invalid"}
	}

	user, err := s.Users.CreateUser(ctx, reg)
	if err != nil {
		return curation.Session{}, curation.User{}, fmt.Errorf("register: %w", err)
	}
	session := sessionFor(user, reg.Username)
	if err := s.Repo.Save(session); err != nil {
		return curation.Session{}, user, fmt.Errorf("persist session: %w", err)
	}
	return session, user, nil
}

// Login signs in an existing user after checking that the account exists.
// There are no credentials to verify.
func (s SessionService) Login(ctx context.Context, userID int64, username string) (curation.Session, error) {
	if userID <= 0 {
		return curation.Session{}, &curation.FormError{Field: "user_id", Message: "user id must be positive"}
	}
	user, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		return curation.Session{}, fmt.Errorf("login: %w", err)
	}
	session := sessionFor(user, strings.TrimSpace(username))
	if err := s.Repo.Save(session); err != nil {
		return curation.Session{}, fmt.Errorf("persist session: %w", err)
	}
	return session, nil
}

// Logout clears the persisted session.
func (s SessionService) Logout() error {
	return s.Repo.Clear()
}

func sessionFor(user curation.User, username string) curation.Session {
	if username == "" {
		username = user.Username
	}
	if username == "" {
		username = user.Name
	}
	return curation.Session{UserID: user.ID, Username: username}
}
