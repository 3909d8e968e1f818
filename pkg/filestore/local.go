package filestore

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
)

// Local serves files straight from the upload directory via /uploads/.
type Local struct {
	URLPrefix string
}

func NewLocal() *Local {
	return &Local{URLPrefix: "/uploads/"}
}

func (l *Local) Publish(_ context.Context, localPath string) (string, error) {
	return l.URLPrefix + filepath.Base(localPath), nil
}

// PublicDir exposes the files under dir to http.FileServer without directory
// listings: opening a directory reports os.ErrNotExist.
func PublicDir(dir string) http.FileSystem {
	return filesOnly{http.Dir(dir)}
}

type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
