package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"redditminer/pkg/models"
)

const tempSuffix = ".tmp"

// Manager handles file storage operations and duplicate detection
type Manager struct {
	outputDir  string
	downloaded map[string]bool
	mu         sync.RWMutex
}

// NewManager creates a new storage manager
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manager := &Manager{
		outputDir:  outputDir,
		downloaded: make(map[string]bool),
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// scanExistingFiles records files already present in the output directory
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), tempSuffix) {
			continue
		}
		m.downloaded[entry.Name()] = true
	}

	return nil
}

// IsDownloaded checks if a file with the given name already exists
func (m *Manager) IsDownloaded(filename string) bool {
	filename = filepath.Base(filename)

	m.mu.RLock()
	known := m.downloaded[filename]
	m.mu.RUnlock()
	if known {
		return true
	}

	if _, err := os.Stat(filepath.Join(m.outputDir, filename)); err == nil {
		m.mu.Lock()
		m.downloaded[filename] = true
		m.mu.Unlock()
		return true
	}

	return false
}

// SaveImage writes r to filename inside the output directory
func (m *Manager) SaveImage(r io.Reader, filename string) error {
	filename = filepath.Base(filename)
	if err := m.writeAtomic(filename, r); err != nil {
		return err
	}

	m.mu.Lock()
	m.downloaded[filename] = true
	m.mu.Unlock()

	return nil
}

// SavePostsJSON writes posts as a 4-space indented JSON array and returns the path
func (m *Manager) SavePostsJSON(subreddit string, posts []models.Post, at time.Time) (string, error) {
	if posts == nil {
		posts = []models.Post{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(posts); err != nil {
		return "", fmt.Errorf("failed to encode posts: %w", err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	name := ArtifactName(subreddit, at, "json")
	if err := m.writeAtomic(name, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return filepath.Join(m.outputDir, name), nil
}

// SaveURLList writes one URL per line and returns the path
func (m *Manager) SaveURLList(subreddit string, urls []string, at time.Time) (string, error) {
	var buf bytes.Buffer
	for _, u := range urls {
		buf.WriteString(u)
		buf.WriteByte('\n')
	}

	name := ArtifactName(subreddit, at, "txt")
	if err := m.writeAtomic(name, &buf); err != nil {
		return "", err
	}
	return filepath.Join(m.outputDir, name), nil
}

// LoadPostsJSON reads a posts artifact back
func LoadPostsJSON(path string) ([]models.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var posts []models.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return posts, nil
}

// ArtifactName is images_<subreddit>_<unix seconds>.<ext>
func ArtifactName(subreddit string, at time.Time, ext string) string {
	return fmt.Sprintf("images_%s_%d.%s", subreddit, at.Unix(), ext)
}

// writeAtomic writes through a temporary file and renames it into place
func (m *Manager) writeAtomic(filename string, r io.Reader) error {
	target := filepath.Join(m.outputDir, filename)
	tempFile := target + tempSuffix

	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, target); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetDownloadedCount returns the number of files known to the manager
func (m *Manager) GetDownloadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.downloaded)
}
