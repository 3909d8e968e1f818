// Package filestore writes uploaded leak photos to the local upload directory
// and publishes them under a URL the client can load.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxFileSize   = 10 << 20
	MaxFilesCount = 5
)

var ErrFileTooLarge = errors.New("file exceeds the 10MB size limit")

// Publisher turns a file saved by SaveUpload into the URL stored on a leak.
type Publisher interface {
	Publish(ctx context.Context, localPath string) (string, error)
}

// SaveUpload copies an uploaded part into dir under a random name that keeps
// the lower-cased original extension, and returns the local path.
func SaveUpload(dir string, fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxFileSize {
		return "", fmt.Errorf("%s: %w", fh.Filename, ErrFileTooLarge)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return path, nil
}
