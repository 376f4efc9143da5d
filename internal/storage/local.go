package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage handles receipt and document storage on the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Save stores an uploaded file and returns its relative path.
// Files land under subDir organized by year/month (e.g. "receipts/2026/08").
func (s *LocalStorage) Save(header *multipart.FileHeader, subDir string) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(s.basePath, subDir, time.Now().Format("2006/01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	ext := filepath.Ext(header.Filename)
	filename := fmt.Sprintf("%s%s", generateID(), ext)
	filePath := filepath.Join(dir, filename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	relPath, _ := filepath.Rel(s.basePath, filePath)
	return relPath, nil
}

// SaveBytes stores raw bytes and returns the relative path
func (s *LocalStorage) SaveBytes(data []byte, filename string, subDir string) (string, error) {
	dir := filepath.Join(s.basePath, subDir, time.Now().Format("2006/01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	ext := filepath.Ext(filename)
	uniqueFilename := fmt.Sprintf("%s%s", generateID(), ext)
	filePath := filepath.Join(dir, uniqueFilename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	relPath, _ := filepath.Rel(s.basePath, filePath)
	return relPath, nil
}

// Open returns a stored file for reading
func (s *LocalStorage) Open(relativePath string) (*os.File, error) {
	return os.Open(filepath.Join(s.basePath, relativePath))
}

// Delete removes a file
func (s *LocalStorage) Delete(relativePath string) error {
	return os.Remove(filepath.Join(s.basePath, relativePath))
}

// Exists checks if a file exists
func (s *LocalStorage) Exists(relativePath string) bool {
	_, err := os.Stat(filepath.Join(s.basePath, relativePath))
	return err == nil
}

// FullPath returns the absolute path for serving files
func (s *LocalStorage) FullPath(relativePath string) string {
	return filepath.Join(s.basePath, relativePath)
}

// generateID creates a unique identifier for filenames
func generateID() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// ValidContentTypes returns allowed MIME types for uploads
func ValidContentTypes() map[string]bool {
	return map[string]bool{
		"application/pdf": true,
		"image/jpeg":      true,
		"image/jpg":       true,
		"image/png":       true,
	}
}

// MaxFileSize returns the maximum allowed file size (10MB)
func MaxFileSize() int64 {
	return 10 * 1024 * 1024
}

// IsValidContentType checks if the content type is allowed
func IsValidContentType(contentType string) bool {
	return ValidContentTypes()[contentType]
}
