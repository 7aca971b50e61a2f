package filesystem

import (
	"fmt"
	"path/filepath"
	"sync"
)

type memoryFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryFileSystem returns a Filesystem backed by a map of file paths to
// contents. Paths are cleaned before lookup.
func NewMemoryFileSystem(files map[string][]byte) Filesystem {
	m := &memoryFileSystem{files: make(map[string][]byte, len(files))}
	for path, content := range files {
		m.files[filepath.Clean(path)] = content
	}
	return m
}

func (m *memoryFileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	return append([]byte(nil), content...), nil
}

func (m *memoryFileSystem) IsFile(path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.files[filepath.Clean(path)]
	return ok, nil
}
