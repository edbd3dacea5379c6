package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/zingerfi/zingerfi-server/types"
)

var (
	ErrInvalidUserID  = errors.New("invalid user id")
	ErrInvalidKeyFile = errors.New("invalid key file")
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._@+-]{1,128}$`)

// Entry is the device-local Confide key of one identity.
// PrivateKey is base64 PKCS8, kept only on this device.
type Entry struct {
	UserID     string `json:"userId"`
	Email      string `json:"email,omitempty"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
	Created    int64  `json:"created"`
}

// Store keeps one JSON file per identity under a single directory
type Store struct {
	dir string
	mu  sync.Mutex
}

// Open creates the directory if missing
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keystore dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(userID string) (string, error) {
	if !userIDPattern.MatchString(userID) || userID == "." || userID == ".." {
		return "", ErrInvalidUserID
	}
	return filepath.Join(s.dir, userID+".json"), nil
}

// Save replaces the identity's entry. The file is written next to the target and renamed into place.
func (s *Store) Save(entry *Entry) error {
	p, err := s.path(entry.UserID)
	if err != nil {
		return err
	}
	if entry.Created == 0 {
		entry.Created = time.Now().UnixMilli()
	}
	content, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".keystore-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (s *Store) Load(userID string) (*Entry, error) {
	p, err := s.path(userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(content, &entry); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKeyFile, err.Error())
	}
	if entry.UserID != userID || entry.PrivateKey == "" {
		return nil, ErrInvalidKeyFile
	}
	return &entry, nil
}

func (s *Store) Delete(userID string) error {
	p, err := s.path(userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.ErrNotFound
		}
		return err
	}
	return nil
}
