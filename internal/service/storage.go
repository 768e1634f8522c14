package service

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
)

// FileStorage writes document content under a base directory, namespaced by
// owner id and slug. Paths of distinct slugs never collide, so concurrent
// writers are safe as long as the slug invariant holds.
type FileStorage struct {
	baseDir string
}

// NewFileStorage creates a FileStorage rooted at baseDir
func NewFileStorage(baseDir string) *FileStorage {
	return &FileStorage{baseDir: baseDir}
}

// SaveTemp streams src to a uniquely named staging file in the owner's
// directory and returns its relative path. The final path of a document is
// only claimed by Promote after its record commits, so a writer that loses
// the slug race never touches another writer's content.
func (s *FileStorage) SaveTemp(ownerID int, src io.Reader) (string, error) {
	dir := filepath.Join(s.baseDir, strconv.Itoa(ownerID))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file on server: %w", err)
	}
	fullPath := dst.Name()

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to finish writing file: %w", err)
	}

	relPath, err := filepath.Rel(s.baseDir, fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve stored path: %w", err)
	}
	return filepath.ToSlash(relPath), nil
}

// DocumentPath returns the relative path document content lives at
func (s *FileStorage) DocumentPath(ownerID int, slug, ext string) string {
	return path.Join(strconv.Itoa(ownerID), slug+ext)
}

// Promote renames a staged file to its final path. Both live in the owner's
// directory, so the rename is atomic.
func (s *FileStorage) Promote(tempRelPath, finalRelPath string) error {
	err := os.Rename(
		filepath.Join(s.baseDir, filepath.FromSlash(tempRelPath)),
		filepath.Join(s.baseDir, filepath.FromSlash(finalRelPath)),
	)
	if err != nil {
		return fmt.Errorf("failed to move stored file into place: %w", err)
	}
	return nil
}

// Remove deletes a stored file. A nil path or an already-missing file is not
// an error, so deletion stays idempotent toward file absence.
func (s *FileStorage) Remove(relPath *string) error {
	if relPath == nil || *relPath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(*relPath)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stored file: %w", err)
	}
	return nil
}
