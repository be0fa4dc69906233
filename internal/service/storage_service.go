package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"homeschool_hub_backend/internal/config"
	"homeschool_hub_backend/internal/util"
	"homeschool_hub_backend/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// ObjectStore is a flat blob store keyed by slash-separated names. Get returns
// util.ErrNotFound for a missing key.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
	URL(key string) string
}

// DiskStore keeps objects under a directory, served at /uploads.
type DiskStore struct {
	Root string
}

func (d *DiskStore) path(key string) string {
	return filepath.Join(d.Root, filepath.FromSlash(key))
}

// Put writes through a temp file so readers never see a partial object.
func (d *DiskStore) Put(_ context.Context, key string, body []byte, _ string) error {
	dst := d.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".put-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (d *DiskStore) Get(_ context.Context, key string) ([]byte, error) {
	body, err := os.ReadFile(d.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, util.ErrNotFound
	}
	return body, err
}

func (d *DiskStore) Remove(_ context.Context, key string) error {
	err := os.Remove(d.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (d *DiskStore) URL(key string) string {
	return "/uploads/" + key
}

type MinioStore struct {
	Client *minio.Client
	Bucket string
}

func NewMinioStore(cfg *config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{Client: client, Bucket: cfg.MinioBucket}, nil
}

// EnsureBucket creates the bucket on first start.
func (m *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return m.Client.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{})
}

func (m *MinioStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := m.Client.PutObject(ctx, m.Bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *MinioStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := m.Client.GetObject(ctx, m.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return body, nil
}

func (m *MinioStore) Remove(ctx context.Context, key string) error {
	return m.Client.RemoveObject(ctx, m.Bucket, key, minio.RemoveObjectOptions{})
}

func (m *MinioStore) URL(key string) string {
	return "/" + m.Bucket + "/" + key
}

// StorageService keeps raw AI output that generation replaced with fallback
// content.
type StorageService struct {
	Store ObjectStore
}

// NewStorageService picks the configured backend. A MinIO client that cannot
// be built degrades to local disk.
func NewStorageService(cfg *config.Config) *StorageService {
	switch cfg.Storage.Type {
	case util.StorageMinio:
		store, err := NewMinioStore(&cfg.Storage)
		if err == nil {
			return &StorageService{Store: store}
		}
		logger.Log.Warn("MinIO unavailable, using local storage", zap.Error(err))
	case util.StorageLocal:
	default:
		logger.Log.Warn("Unknown storage type, using local storage", zap.String("type", cfg.Storage.Type))
	}
	return &StorageService{Store: &DiskStore{Root: cfg.Storage.LocalPath}}
}

// Prepare readies the backend. Only MinIO needs it.
func (s *StorageService) Prepare(ctx context.Context) error {
	if m, ok := s.Store.(*MinioStore); ok {
		return m.EnsureBucket(ctx)
	}
	return nil
}

// ArchivePath is where the raw AI output of an assignment is kept.
func ArchivePath(assignmentID string) string {
	return util.AIArchivePrefix + assignmentID + ".txt"
}

func (s *StorageService) ArchiveRawOutput(ctx context.Context, assignmentID, raw string) error {
	if assignmentID == "" {
		return fmt.Errorf("archive raw output: empty assignment id")
	}
	return s.Store.Put(ctx, ArchivePath(assignmentID), []byte(raw), "text/plain; charset=utf-8")
}

func (s *StorageService) RawOutput(ctx context.Context, assignmentID string) (string, error) {
	body, err := s.Store.Get(ctx, ArchivePath(assignmentID))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DropRawOutput removes the archive of a deleted assignment.
func (s *StorageService) DropRawOutput(ctx context.Context, assignmentID string) error {
	return s.Store.Remove(ctx, ArchivePath(assignmentID))
}
