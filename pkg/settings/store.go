package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/natefinch/atomic"
)

// FileStore keeps Settings in a JSON file. Writes replace the file
// atomically. All methods are concurrent-safe.
type FileStore struct {
	path string
	mu   sync.RWMutex
	s    *Settings
}

// Open loads the settings at path. A missing file yields default settings;
// the file is created on the first write.
func Open(path string) (*FileStore, error) {
	fs := &FileStore{path: path, s: Default()}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err = json.Unmarshal(data, fs.s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if fs.s.Resources.Images == nil {
		fs.s.Resources.Images = []Resource{}
	}
	return fs, nil
}

// Path returns the backing file.
func (fs *FileStore) Path() string { return fs.path }

// Get returns a copy of the current settings.
func (fs *FileStore) Get() Settings {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	c := *fs.s
	c.Resources.Images = append([]Resource{}, fs.s.Resources.Images...)
	return c
}

// Template returns the joined template text.
func (fs *FileStore) Template() string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.s.Template.Join()
}

// SetTemplate splits text into chunks and saves it.
func (fs *FileStore) SetTemplate(text string) error {
	chunks, err := Split(text)
	if err != nil {
		return err
	}
	return fs.Update(func(s *Settings) error {
		s.Template = chunks
		return nil
	})
}

// Update applies fn to the settings and saves the result. Nothing is saved
// or changed when fn fails.
func (fs *FileStore) Update(fn func(s *Settings) error) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	next := *fs.s
	next.Resources.Images = append([]Resource{}, fs.s.Resources.Images...)
	if err := fn(&next); err != nil {
		return err
	}
	data, err := json.MarshalIndent(&next, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err = atomic.WriteFile(fs.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	fs.s = &next
	return nil
}
