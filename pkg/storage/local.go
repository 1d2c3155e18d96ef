package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// LocalStorage stores objects on the local filesystem under a base directory
// and serves them from a base URL (the HTTP server exposes the directory as
// static files).
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage creates a LocalStorage rooted at baseDir
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes data under a sanitized pathPrefix and returns the public URL
func (s *LocalStorage) Save(_ context.Context, pathPrefix, name string, data []byte) (string, error) {
	prefix := SanitizePathSegment(pathPrefix)
	name = SanitizeFileName(name)

	dir := s.baseDir
	if prefix != "" {
		dir = filepath.Join(s.baseDir, prefix)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create upload subdirectory: %w", err)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	if prefix != "" {
		return fmt.Sprintf("%s/%s/%s", s.baseURL, prefix, name), nil
	}
	return fmt.Sprintf("%s/%s", s.baseURL, name), nil
}

// Delete removes the object behind url. Unknown URLs are ignored.
func (s *LocalStorage) Delete(_ context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return nil
	}
	// Re-sanitize to keep the path inside the base directory
	parts := strings.Split(rel, "/")
	for i := range parts {
		parts[i] = SanitizeFileName(parts[i])
	}

	path := filepath.Join(append([]string{s.baseDir}, parts...)...)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}

// SanitizePathSegment replaces unsafe characters so the segment is a safe
// directory name
func SanitizePathSegment(segment string) string {
	return unsafePathChars.ReplaceAllString(strings.TrimSpace(segment), "_")
}

// SanitizeFileName keeps the extension while sanitizing the base name
func SanitizeFileName(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	ext = unsafePathChars.ReplaceAllString(strings.TrimPrefix(ext, "."), "")
	base = unsafePathChars.ReplaceAllString(base, "_")
	if ext == "" {
		return base
	}
	return base + "." + ext
}
