package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Record is a submission accepted by the form backend.
type Record struct {
	ID        string    `json:"id"`
	FormName  string    `json:"form_name"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	RemoteIP  string    `json:"remote_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Values returns the field values of the record.
func (r Record) Values() Values {
	return Values{Name: r.Name, Email: r.Email, Message: r.Message}
}

// Sink receives a copy of every accepted submission.
type Sink interface {
	Archive(ctx context.Context, r Record) error
}

// ArchiveConfig points at an S3-compatible bucket.
type ArchiveConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
	UseSSL          bool
}

// MinioArchive writes each submission as a JSON object to a bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioArchive connects to the bucket described by cfg, creating it if
// it does not exist yet.
func NewMinioArchive(ctx context.Context, cfg ArchiveConfig) (*MinioArchive, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("contact: archive endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("contact: create archive client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("contact: check archive bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("contact: create archive bucket: %w", err)
		}
	}
	return &MinioArchive{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// ObjectName returns the key a record is stored under.
func ObjectName(prefix string, r Record) string {
	return path.Join(prefix, r.FormName, r.CreatedAt.UTC().Format("2006/01/02"), r.ID+".json")
}

// Archive stores r as JSON.
func (a *MinioArchive) Archive(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("contact: encode record: %w", err)
	}
	_, err = a.client.PutObject(ctx, a.bucket, ObjectName(a.prefix, r), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("contact: archive %s: %w", r.ID, err)
	}
	return nil
}
