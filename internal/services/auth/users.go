package auth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UsersFile is the YAML document listing API users.
//
//	users:
//	  - username: alice
//	    password: secret
//	  - username: bob
//	    password_hash: $2a$10$...
type UsersFile struct {
	Users []UserEntry `yaml:"users"`
}

// UserEntry sets exactly one of Password or PasswordHash
type UserEntry struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password,omitempty"`
	PasswordHash string `yaml:"password_hash,omitempty"`
}

// LoadUsersFile reads a users file from disk and stores every entry
func (s *Service) LoadUsersFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return s.LoadUsers(ctx, data)
}

// LoadUsers parses a users document and stores every entry, replacing
// existing users with the same name
func (s *Service) LoadUsers(ctx context.Context, data []byte) (int, error) {
	var file UsersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("parse users file: %w", err)
	}

	for i, entry := range file.Users {
		if err := s.putEntry(ctx, entry); err != nil {
			return i, fmt.Errorf("user %d (%q): %w", i+1, entry.Username, err)
		}
	}
	return len(file.Users), nil
}

func (s *Service) putEntry(ctx context.Context, entry UserEntry) error {
	switch {
	case entry.Password != "" && entry.PasswordHash != "":
		return errors.New("set either password or password_hash, not both")
	case entry.PasswordHash != "":
		_, err := s.PutUser(ctx, entry.Username, entry.PasswordHash)
		return err
	case entry.Password != "":
		hash, err := s.hash(entry.Password)
		if err != nil {
			return err
		}
		_, err = s.PutUser(ctx, entry.Username, hash)
		return err
	default:
		return errors.New("missing password")
	}
}
