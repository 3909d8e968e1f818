package filestore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
)

// GCS copies accepted uploads into a Cloud Storage bucket and returns the
// object's public URL. The local copy stays in place.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs: bucket name is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs: create client: %w", err)
	}
	return &GCS{client: client, bucket: bucket, prefix: "leaks/"}, nil
}

func (g *GCS) Publish(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	object := g.prefix + filepath.Base(localPath)
	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = mime.TypeByExtension(filepath.Ext(localPath))
	w.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return "", fmt.Errorf("gcs: upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs: finalize %s: %w", object, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, object), nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
