package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProofStorage keeps transfer-proof images on the local filesystem, one
// directory per user.
type ProofStorage struct {
	rootPath       string
	maxUploadBytes int64
}

func NewProofStorage(rootPath string, maxUploadMB int64) (*ProofStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root dir %s: %w", rootPath, err)
	}

	return &ProofStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Save stores an uploaded proof and returns its relative path and size.
// The write goes to a temporary file first and is renamed into place, so a
// failed upload never leaves a half-written proof behind.
func (s *ProofStorage) Save(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	safeName := sanitizeFilename(originalName)
	fileName := fmt.Sprintf("%s_%d%s", userID.String(), time.Now().UnixNano(), filepath.Ext(safeName))

	userDir := filepath.Join(s.rootPath, userID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("storage: create user dir: %w", err)
	}

	targetPath := filepath.Join(userDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("storage: create file: %w", err)
	}
	defer f.Close()

	limitedReader := io.LimitedReader{R: r, N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limitedReader)
	if err != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: write file: %w", err)
	}

	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: file exceeds the %d byte limit", s.maxUploadBytes)
	}

	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("storage: close file: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", 0, fmt.Errorf("storage: rename file: %w", err)
	}

	relative := filepath.Join(userID.String(), fileName)
	return relative, written, nil
}

// Delete removes a stored proof. A missing file is not an error.
func (s *ProofStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.rootPath, relativePath)
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}

// sanitizeFilename strips path traversal characters from an uploaded name.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "proof"
	}
	return name
}
