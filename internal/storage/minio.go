package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/carpeta/organizer/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStorage keeps point-in-time copies of stored snapshots in a bucket.
type MinIOStorage struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

// NewMinIOStorage creates a new MinIO storage client and ensures the bucket exists.
func NewMinIOStorage(cfg *config.MinIOConfig) (*MinIOStorage, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinIOStorage{client: mc, bucket: cfg.Bucket, now: time.Now}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// ignore "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// ObjectKey is where a backup of the snapshot stored under key at t lives:
// snapshots/<key>/<UTC timestamp>.json. Keys sort chronologically.
func ObjectKey(key string, t time.Time) string {
	return path.Join("snapshots", url.PathEscape(key), t.UTC().Format("20060102T150405.000Z")+".json")
}

// BackupSnapshot uploads blob as a new timestamped object.
func (s *MinIOStorage) BackupSnapshot(ctx context.Context, key string, blob []byte) error {
	return s.UploadFile(ctx, ObjectKey(key, s.now()), bytes.NewReader(blob), int64(len(blob)), "application/json")
}

// LatestBackup returns the object key of the newest backup for key, or "" when
// there is none.
func (s *MinIOStorage) LatestBackup(ctx context.Context, key string) (string, error) {
	prefix := path.Join("snapshots", url.PathEscape(key)) + "/"
	latest := ""
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return "", obj.Err
		}
		if obj.Key > latest {
			latest = obj.Key
		}
	}
	return latest, nil
}

// UploadFile uploads data from reader to the configured bucket using the provided key.
func (s *MinIOStorage) UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// DownloadFile returns a ReadCloser for the stored object.
func (s *MinIOStorage) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// perform a stat to ensure object exists
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}
