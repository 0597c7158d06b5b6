// Package prompts provides a file-backed system prompt store.
// Clean Architecture: Adapter implementing ports.PromptSource.
// Override files are re-read when they change on disk, so prompt tuning
// does not require a restart.
package prompts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Override file names inside the prompts directory.
const (
	baseFile     = "base.txt"
	groundedFile = "grounded.txt"
)

// Store watches a directory of prompt override files and serves their
// latest content. A missing or empty file means "no override" and the
// generator falls back to its compiled-in prompt.
type Store struct {
	dir     string
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	mu       sync.RWMutex
	base     string
	grounded string
}

// NewStore creates a prompt store for dir and loads the current files.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	s := &Store{
		dir:     dir,
		watcher: w,
		logger:  logger,
	}
	s.reload(baseFile)
	s.reload(groundedFile)

	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return s, nil
}

// Watch starts applying file changes until ctx is done.
func (s *Store) Watch(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-s.watcher.Events:
				if !ok {
					return
				}
				name := filepath.Base(event.Name)
				if name != baseFile && name != groundedFile {
					continue
				}
				switch {
				case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
					s.reload(name)
				case event.Op&fsnotify.Remove != 0:
					s.set(name, "")
				}
			case err, ok := <-s.watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("prompt watcher error", zap.Error(err))
			}
		}
	}()
}

// Stop stops the watcher.
func (s *Store) Stop() error {
	return s.watcher.Close()
}

// System returns the override prompt for the requested mode, or "" when
// no override is present.
func (s *Store) System(strict bool) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if strict {
		return s.grounded
	}
	return s.base
}

func (s *Store) reload(name string) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		s.set(name, "")
		return
	}
	s.set(name, strings.TrimSpace(string(data)))
}

func (s *Store) set(name, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == groundedFile {
		s.grounded = content
	} else {
		s.base = content
	}
}
