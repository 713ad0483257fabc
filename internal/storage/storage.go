package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/hailam/chessboard/internal/config"
)

// Storage keys
const (
	keyConfig      = "config"
	keyPreferences = "preferences"
	sessionPrefix  = "session/"
)

// ErrNotFound is returned for a session that was never saved.
var ErrNotFound = errors.New("storage: not found")

// Session is a saved board: the position it started from and the moves
// played since, so history survives a restart.
type Session struct {
	ID          string    `json:"id"`
	Start       string    `json:"start"`
	Moves       []string  `json:"moves"`
	FEN         string    `json:"fen"`
	Orientation string    `json:"orientation"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Preferences are desktop settings that are not part of a board's
// configuration.
type Preferences struct {
	SoundEnabled bool `json:"sound_enabled"`
	// LastSession is the session the desktop app resumes.
	LastSession string `json:"last_session"`
}

// DefaultPreferences returns default preferences
func DefaultPreferences() Preferences {
	return Preferences{SoundEnabled: true, LastSession: "desktop"}
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %q: %w", dir, err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes key into v and reports whether it was present.
func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SaveConfig saves the board configuration.
func (s *Storage) SaveConfig(c config.Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.put(keyConfig, c)
}

// LoadConfig loads the board configuration, returns defaults if not found.
// Fields missing from the stored record keep their defaults.
func (s *Storage) LoadConfig() (config.Config, error) {
	c := config.Default()
	if _, err := s.get(keyConfig, &c); err != nil {
		return config.Default(), err
	}
	if err := c.Validate(); err != nil {
		return config.Default(), fmt.Errorf("storage: stored config: %w", err)
	}
	return c, nil
}

// SavePreferences saves the desktop preferences.
func (s *Storage) SavePreferences(p Preferences) error {
	return s.put(keyPreferences, p)
}

// LoadPreferences loads the desktop preferences, returns defaults if not found.
func (s *Storage) LoadPreferences() (Preferences, error) {
	p := DefaultPreferences()
	if _, err := s.get(keyPreferences, &p); err != nil {
		return DefaultPreferences(), err
	}
	return p, nil
}

// SaveSession saves sess under its ID.
func (s *Storage) SaveSession(sess Session) error {
	if sess.ID == "" {
		return errors.New("storage: session without id")
	}
	sess.UpdatedAt = time.Now()
	return s.put(sessionPrefix+sess.ID, sess)
}

// LoadSession loads the session id.
func (s *Storage) LoadSession(id string) (Session, error) {
	var sess Session
	found, err := s.get(sessionPrefix+id, &sess)
	if err != nil {
		return Session{}, err
	}
	if !found {
		return Session{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	return sess, nil
}

// DeleteSession removes the session id. Deleting a missing session is not
// an error.
func (s *Storage) DeleteSession(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(sessionPrefix + id))
	})
}

// Sessions returns every saved session in key order.
func (s *Storage) Sessions() ([]Session, error) {
	var out []Session
	prefix := []byte(sessionPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var sess Session
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sess)
			})
			if err != nil {
				return err
			}
			out = append(out, sess)
		}
		return nil
	})
	return out, err
}
