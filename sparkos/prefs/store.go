// Package prefs persists user preferences in a small SQLite key/value table.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"sparkdice/sparkos/dice"
)

const (
	KeyTheme      = "theme"
	KeySound      = "sound"
	KeyLastResult = "last_result"
	KeyRolls      = "rolls"
)

var (
	ErrNotFound = errors.New("prefs: not found")
	ErrClosed   = errors.New("prefs: store closed")
)

type writeReq struct {
	key, value string
	done       chan struct{}
}

// Store is a key/value preference table. Set writes synchronously; SetAsync
// queues the write for a background writer goroutine and never blocks.
type Store struct {
	db *sql.DB

	ch   chan writeReq
	wg   sync.WaitGroup
	once sync.Once

	// mu guards closed and every use of ch and db against Close.
	mu     sync.RWMutex
	closed bool

	// OnError, if set, receives background write failures. It runs on the
	// writer goroutine.
	OnError func(key string, err error)
}

// Open opens (or creates) the database at path. ":memory:" keeps the table in
// memory.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("prefs: empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("prefs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("prefs: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prefs: init %s: %w", path, err)
	}

	s := &Store{db: db, ch: make(chan writeReq, 64)}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS prefs (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) loop() {
	for req := range s.ch {
		if req.done != nil && req.key == "" {
			// Flush marker.
			close(req.done)
			continue
		}
		err := s.set(req.key, req.value)
		if err != nil && s.OnError != nil {
			s.OnError(req.key, err)
		}
	}
}

func (s *Store) set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prefs(key, value, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("prefs: set %s: %w", key, err)
	}
	return nil
}

// Get returns the stored value or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrClosed
	}
	var v string
	err := s.db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("prefs: get %s: %w", key, err)
	}
	return v, nil
}

// Set writes key synchronously.
func (s *Store) Set(key, value string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return s.set(key, value)
}

// SetAsync queues a write. It reports false if the store is closed or the
// queue is full; the write is dropped in that case.
func (s *Store) SetAsync(key, value string) bool {
	if s == nil || key == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- writeReq{key: key, value: value}:
		return true
	default:
		return false
	}
}

// Flush waits until every write queued before the call has been applied.
func (s *Store) Flush() {
	if s == nil {
		return
	}
	done := make(chan struct{})
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return
	}
	s.ch <- writeReq{done: done}
	s.mu.RUnlock()
	<-done
}

func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// Snapshot is the preference set the app reads at startup.
type Snapshot struct {
	Theme      string
	Sound      bool
	LastResult dice.Face
	Rolls      uint64
}

// Load reads every known key, keeping def for keys that are missing or
// malformed. The first read error is returned alongside the partial result.
func (s *Store) Load(def Snapshot) (Snapshot, error) {
	out := def
	var firstErr error
	note := func(err error) {
		if err != nil && !errors.Is(err, ErrNotFound) && firstErr == nil {
			firstErr = err
		}
	}

	if v, err := s.Get(KeyTheme); err == nil && v != "" {
		out.Theme = v
	} else {
		note(err)
	}
	if v, err := s.Get(KeySound); err == nil {
		if b, perr := strconv.ParseBool(v); perr == nil {
			out.Sound = b
		}
	} else {
		note(err)
	}
	if v, err := s.Get(KeyLastResult); err == nil {
		if n, perr := strconv.Atoi(v); perr == nil && dice.Face(n).Valid() {
			out.LastResult = dice.Face(n)
		}
	} else {
		note(err)
	}
	if v, err := s.Get(KeyRolls); err == nil {
		if n, perr := strconv.ParseUint(v, 10, 64); perr == nil {
			out.Rolls = n
		}
	} else {
		note(err)
	}
	return out, firstErr
}
