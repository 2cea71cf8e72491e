// Package sink provides output destinations for generated files.
package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// OutputSink receives generated file content.
// Implementations must be safe for concurrent calls.
type OutputSink interface {
	// WriteFile writes content to the slash-separated relative path.
	// The sink determines the actual location.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// FilesystemSink writes generated files below a root directory.
type FilesystemSink struct {
	// Root is the base directory for all writes.
	Root string

	// Mode is the file permission mode (default: 0644).
	Mode os.FileMode

	// Overwrite controls behavior for existing files.
	// If false, returns an error when a file exists.
	Overwrite bool

	mu        sync.Mutex
	written   []string
	unchanged []string
}

// NewFilesystemSink creates a FilesystemSink that overwrites files below root.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{
		Root:      root,
		Mode:      0644,
		Overwrite: true,
	}
}

// WriteFile writes content to path within the root directory using a temp
// file and rename. A file whose content already matches is left untouched so
// its modification time survives repeated go generate runs.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := resolve(s.Root, path)
	if err != nil {
		return err
	}

	if s.Overwrite {
		if existing, err := os.ReadFile(fullPath); err == nil && bytes.Equal(existing, content) {
			s.record(&s.unchanged, path)
			return nil
		}
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0644
	}

	tempFile, err := os.CreateTemp(dir, ".shortname-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	cleanup := func() { _ = os.Remove(tempPath) }

	_, writeErr := tempFile.Write(content)
	closeErr := tempFile.Close()
	if writeErr != nil {
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", writeErr)
	}
	if closeErr != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", closeErr)
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		cleanup()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := ctx.Err(); err != nil {
		cleanup()
		return err
	}

	if s.Overwrite {
		if err := os.Rename(tempPath, fullPath); err != nil {
			cleanup()
			return fmt.Errorf("failed to rename temp file: %w", err)
		}
	} else {
		// Link fails with EEXIST instead of racing a stat.
		if err := os.Link(tempPath, fullPath); err != nil {
			cleanup()
			if errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("file already exists: %q", path)
			}
			return fmt.Errorf("failed to create file: %w", err)
		}
		cleanup()
	}

	s.record(&s.written, path)
	return nil
}

func (s *FilesystemSink) record(list *[]string, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*list = append(*list, path)
}

// Written returns the sorted paths whose content changed.
func (s *FilesystemSink) Written() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sorted(s.written)
}

// Unchanged returns the sorted paths that already held the generated content.
func (s *FilesystemSink) Unchanged() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sorted(s.unchanged)
}

// MemorySink stores generated files in memory.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink creates a new MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// WriteFile stores a copy of content under path.
func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = bytes.Clone(content)
	return nil
}

// Files returns a copy of all written files.
func (s *MemorySink) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]byte, len(s.files))
	for path, content := range s.files {
		result[path] = bytes.Clone(content)
	}
	return result
}

// Paths returns the sorted paths of all written files.
func (s *MemorySink) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.files))
	for path := range s.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Get returns the content of a single file, or nil if not found.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bytes.Clone(s.files[path])
}

// Reset clears all stored files.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
}

// CompareSink compares generated content with the files below Root without
// writing anything. It backs the check command.
type CompareSink struct {
	Root string

	mu    sync.Mutex
	stale []string
}

// NewCompareSink creates a CompareSink rooted at root.
func NewCompareSink(root string) *CompareSink {
	return &CompareSink{Root: root}
}

// WriteFile records path as stale when the file on disk is missing or differs.
func (s *CompareSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := resolve(s.Root, path)
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(fullPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read %q: %w", path, err)
	case bytes.Equal(existing, content):
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = append(s.stale, path)
	return nil
}

// Stale returns the sorted paths that are missing or out of date.
func (s *CompareSink) Stale() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sorted(s.stale)
}

// resolve joins path to root and rejects results outside root.
func resolve(root, path string) (string, error) {
	fullPath := filepath.Join(root, filepath.FromSlash(path))

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root directory: %w", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) && absPath != absRoot {
		return "", fmt.Errorf("path escapes root directory: %q", path)
	}
	return fullPath, nil
}

func sorted(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}

// ValidatePath checks if a path is valid for output.
// Paths must be relative, slash-separated, clean, and free of ".." elements.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return errors.New("absolute paths not allowed")
	}
	// Drive letters are rejected on every platform.
	if len(path) >= 2 && path[1] == ':' && ((path[0] >= 'A' && path[0] <= 'Z') || (path[0] >= 'a' && path[0] <= 'z')) {
		return errors.New("absolute paths not allowed")
	}
	if strings.Contains(path, `\`) {
		return errors.New("path must use / as separator")
	}
	for _, elem := range strings.Split(path, "/") {
		if elem == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := filepath.ToSlash(filepath.Clean(path)); cleaned != path {
		return fmt.Errorf("path is not clean (expected %q, got %q)", cleaned, path)
	}
	return nil
}
