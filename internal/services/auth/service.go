package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/steamgames/internal/dependencies/clock"
	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidUsername    = errors.New("username must not be empty or contain ':'")
)

// Service checks Basic credentials against stored users.
//
// A successful check is remembered for CacheDuration so that repeated
// requests with the same pair skip the bcrypt comparison.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu       sync.RWMutex
	verified map[string]verifiedEntry

	cost          int
	cacheDuration time.Duration
}

type verifiedEntry struct {
	username  string
	expiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	// BcryptCost is the hashing cost for new passwords
	BcryptCost int
	// CacheDuration is how long a verified pair is trusted. Zero disables the cache.
	CacheDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost:    bcrypt.DefaultCost,
		CacheDuration: 5 * time.Minute,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{
		storage:       storage,
		clock:         clock,
		logger:        logger,
		verified:      make(map[string]verifiedEntry),
		cost:          cfg.BcryptCost,
		cacheDuration: cfg.CacheDuration,
	}
}

// CreateUser registers a new user with a plaintext password
func (s *Service) CreateUser(ctx context.Context, username, password string) (*model.User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	_, err := s.storage.GetUser(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	return s.saveUser(ctx, username, hash)
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// PutUser creates or replaces a user whose password is already hashed
func (s *Service) PutUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, err
	}
	return s.saveUser(ctx, username, passwordHash)
}

func (s *Service) saveUser(ctx context.Context, username, hash string) (*model.User, error) {
	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	// A changed password must not keep authenticating through the cache
	s.forget(username)
	return user, nil
}

// Authenticate checks a username and password
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	key := cacheKey(username, password)
	if s.cached(key) {
		return &model.User{Username: username}, nil
	}

	user, err := s.storage.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("password mismatch", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if s.cacheDuration > 0 {
		s.mu.Lock()
		s.verified[key] = verifiedEntry{username: username, expiresAt: s.clock.Now().Add(s.cacheDuration)}
		s.mu.Unlock()
	}
	return user, nil
}

func (s *Service) cached(key string) bool {
	s.mu.RLock()
	entry, ok := s.verified[key]
	s.mu.RUnlock()

	if !ok {
		return false
	}
	if s.clock.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.verified, key)
		s.mu.Unlock()
		return false
	}
	return true
}

func (s *Service) forget(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.verified {
		if entry.username == username {
			delete(s.verified, key)
		}
	}
}

// CleanExpired removes expired cache entries (call periodically)
func (s *Service) CleanExpired() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.verified {
		if now.After(entry.expiresAt) {
			delete(s.verified, key)
		}
	}
}

// cacheKey never holds the plaintext password
func cacheKey(username, password string) string {
	sum := sha256.Sum256([]byte(username + "\x00" + password))
	return hex.EncodeToString(sum[:])
}

func validateUsername(username string) error {
	if username == "" || strings.ContainsRune(username, ':') {
		return ErrInvalidUsername
	}
	return nil
}
