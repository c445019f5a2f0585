// Package session scopes the temporary files of one pipeline run.
//
// Types:
//   - Session: one run. Creates scratch files and removes them all on End.
//   - SessionManager: hands out sessions one at a time and sweeps scratch
//     files left behind by runs that never ended.
//
// Expected outputs:
// - Session IDs are unique (UUID)
// - At most one session is active; Begin waits for the current run to end
// - End removes every file the session created, on success and failure paths
//
// Used by the API handlers and the CLI around every tool invocation.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go-pdftools/internal/utils"

	"github.com/rs/zerolog/log"
)

type Session struct {
	ID        string
	Files     []string
	CreatedAt time.Time
	dir       string
	Mutex     sync.Mutex
}

type SessionManager struct {
	Dir      string
	Sessions map[string]*Session
	Mutex    sync.RWMutex
	slot     chan struct{}
}

// NewSessionManager keeps scratch files under dir, creating it if needed.
func NewSessionManager(dir string) (*SessionManager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &SessionManager{
		Dir:      dir,
		Sessions: make(map[string]*Session),
		slot:     make(chan struct{}, 1),
	}, nil
}

// Begin waits until no other run is active and starts a new session.
// It fails if ctx ends first.
func (sm *SessionManager) Begin(ctx context.Context) (*Session, error) {
	select {
	case sm.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for the running job: %w", ctx.Err())
	}

	sm.Mutex.Lock()
	defer sm.Mutex.Unlock()
	session := &Session{
		ID:        utils.GenerateUUID(),
		Files:     []string{},
		CreatedAt: time.Now(),
		dir:       sm.Dir,
	}
	sm.Sessions[session.ID] = session
	log.Debug().Str("session", session.ID).Msg("run started")
	return session, nil
}

// End removes the session's files and lets the next run start.
func (sm *SessionManager) End(s *Session) {
	s.Cleanup()
	sm.Mutex.Lock()
	_, active := sm.Sessions[s.ID]
	delete(sm.Sessions, s.ID)
	sm.Mutex.Unlock()
	if active {
		<-sm.slot
	}
	log.Debug().Str("session", s.ID).Dur("took", time.Since(s.CreatedAt)).Msg("run ended")
}

// Sweep removes scratch files older than maxAge that belong to no active
// session.
func (sm *SessionManager) Sweep(maxAge time.Duration) int {
	sm.Mutex.RLock()
	owned := make(map[string]bool)
	for _, s := range sm.Sessions {
		for _, f := range s.GetFiles() {
			owned[f] = true
		}
	}
	sm.Mutex.RUnlock()

	entries, err := os.ReadDir(sm.Dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(sm.Dir, entry.Name())
		info, err := entry.Info()
		if err != nil || owned[path] || time.Since(info.ModTime()) < maxAge {
			continue
		}
		if os.Remove(path) == nil {
			removed++
		}
	}
	if removed > 0 {
		log.Info().Int("files", removed).Msg("swept stale scratch files")
	}
	return removed
}

// CreateTemp creates a scratch file owned by the session. pattern follows
// os.CreateTemp.
func (s *Session) CreateTemp(pattern string) (*os.File, error) {
	prefix := s.ID + "-"
	if strings.Contains(pattern, string(os.PathSeparator)) {
		return nil, errors.New("scratch pattern must not contain a path separator")
	}
	f, err := os.CreateTemp(s.dir, prefix+pattern)
	if err != nil {
		return nil, err
	}
	s.AddFile(f.Name())
	return f, nil
}

func (s *Session) AddFile(filepath string) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	s.Files = append(s.Files, filepath)
}

func (s *Session) GetFiles() []string {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	return append([]string(nil), s.Files...)
}

func (s *Session) Cleanup() {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	for _, file := range s.Files {
		os.Remove(file)
	}
	s.Files = s.Files[:0]
}
