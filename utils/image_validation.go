package utils

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// MinImageSize is the smallest file, in bytes, accepted as an image.
const MinImageSize = 100

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateLeakImage reports whether the file at path is plausibly an image:
// a regular file of at least MinImageSize bytes with a .jpg, .jpeg, .png,
// .gif or .webp extension. Any I/O error yields false.
//
// This is a necessary-but-not-sufficient heuristic check, not content-based
// leak detection. The file's bytes are never inspected, so it cannot tell a
// leak photo from any other image, or an image from a renamed file.
func ValidateLeakImage(path string, log *zap.Logger) bool {
	if log == nil {
		log = zap.NewNop()
	}

	info, err := os.Stat(path)
	if err != nil {
		log.Warn("image check: stat failed", zap.String("path", path), zap.Error(err))
		return false
	}
	if !info.Mode().IsRegular() {
		log.Warn("image check: not a regular file", zap.String("path", path))
		return false
	}
	if info.Size() < MinImageSize {
		log.Warn("image check: file too small", zap.String("path", path), zap.Int64("size", info.Size()))
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !imageExtensions[ext] {
		log.Warn("image check: extension not allowed", zap.String("path", path), zap.String("ext", ext))
		return false
	}

	log.Debug("image check passed", zap.String("path", path))
	return true
}
