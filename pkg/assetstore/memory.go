package assetstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for tests and
// local development. It records the bytes of every uploaded file.
type MemoryStore struct {
	objects map[string][]byte
	mu      sync.RWMutex

	// FailUploads makes every Upload return an error, for exercising
	// failure paths.
	FailUploads bool
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
	}
}

// Upload reads the local file and stores its contents under
// <folder>/<publicID><ext>.
func (s *MemoryStore) Upload(_ context.Context, localPath string, params UploadParams) (string, error) {
	if s.FailUploads {
		return "", fmt.Errorf("upload of %s rejected", localPath)
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", localPath, err)
	}

	key := params.Folder + "/" + params.PublicID + filepath.Ext(localPath)

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return "memory://" + key, nil
}

// Get returns the stored bytes for a key, if present.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len reports how many objects have been stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
