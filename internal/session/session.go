package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/steamgames/internal/client"
	"github.com/mcoot/steamgames/internal/model"
)

// Display messages recorded as the last auth error
const (
	MessageInvalidCredentials = "Invalid username or password"
	MessageMissingCredentials = "Username and password are required"
	MessageAuthFailed         = "Failed to authenticate"
)

// probeLimit is the smallest listing that proves a credential works
const probeLimit = 1

// Prober issues the request used to validate a credential pair
type Prober interface {
	ListGames(ctx context.Context, authHeader string, limit int) ([]model.GameSummary, error)
}

// Credential is a username/password pair. It is held in memory only.
type Credential struct {
	Username string
	Password string
}

// Store holds the one session of the application. It is read by every view
// and written only by Login and Logout.
type Store struct {
	prober Prober
	logger *slog.Logger

	mu            sync.RWMutex
	credential    *Credential
	authenticated bool
	lastAuthError string
	loggingIn     bool
}

// New creates a logged-out session store
func New(prober Prober, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Store{
		prober: prober,
		logger: logger,
	}
}

// Login validates the pair with a probe request and, on success, keeps it
// for later calls. On failure the pair is dropped and LastAuthError explains why.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	if username == "" || password == "" {
		s.fail(MessageMissingCredentials)
		return false
	}

	s.mu.Lock()
	s.loggingIn = true
	s.lastAuthError = ""
	s.mu.Unlock()

	_, err := s.prober.ListGames(ctx, client.BasicAuthHeader(username, password), probeLimit)

	if err != nil {
		msg := MessageAuthFailed
		if errors.Is(err, client.ErrUnauthorized) {
			msg = MessageInvalidCredentials
		}
		s.logger.Info("login failed", slog.String("username", username), slog.String("error", err.Error()))
		s.fail(msg)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = &Credential{Username: username, Password: password}
	s.authenticated = true
	s.lastAuthError = ""
	s.loggingIn = false

	s.logger.Info("logged in", slog.String("username", username))
	return true
}

func (s *Store) fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = nil
	s.authenticated = false
	s.lastAuthError = msg
	s.loggingIn = false
}

// Logout forgets the credential. No request is made.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authenticated {
		s.logger.Info("logged out", slog.String("username", s.credential.Username))
	}
	s.credential = nil
	s.authenticated = false
	s.lastAuthError = ""
}

// AuthHeader returns the Basic header for the current credential.
// ok is false whenever the session is not usable for authenticated calls.
func (s *Store) AuthHeader() (header string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticated || s.credential == nil {
		return "", false
	}
	if s.credential.Username == "" || s.credential.Password == "" {
		return "", false
	}
	return client.BasicAuthHeader(s.credential.Username, s.credential.Password), true
}

// Authenticated reports whether the last login succeeded and no logout happened since
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Username returns the logged in user, or "" when logged out
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticated || s.credential == nil {
		return ""
	}
	return s.credential.Username
}

// LastAuthError returns the message of the last failed login, or ""
func (s *Store) LastAuthError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAuthError
}

// ClearAuthError drops the last login failure message
func (s *Store) ClearAuthError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAuthError = ""
}

// LoggingIn reports whether a probe request is in flight
func (s *Store) LoggingIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggingIn
}
