// Package storage implements the engine's storage collaborator on top of
// S3-compatible object storage. A destination folder id has the form
// "bucket" or "bucket/prefix".
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bscott/mailsort/internal/config"
	"github.com/bscott/mailsort/internal/engine"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Client struct {
	mc *minio.Client
}

// New initializes the storage client from configuration; the secret key
// comes from the OS keyring.
func New(cfg *config.Config) (*Client, error) {
	if cfg.Storage.Endpoint == "" {
		return nil, errors.New("storage endpoint not configured - run 'mailsort config init' first")
	}

	secret, err := cfg.GetStorageSecret()
	if err != nil {
		return nil, err
	}

	mc, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, secret, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	return &Client{mc: mc}, nil
}

// FolderByID implements engine.Storage. Resolution fails when the id is
// malformed or the bucket does not exist.
func (c *Client) FolderByID(ctx context.Context, id string) (engine.Folder, error) {
	bucket, prefix, err := parseFolderID(id)
	if err != nil {
		return nil, err
	}

	exists, err := c.mc.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	return &Folder{client: c.mc, bucket: bucket, prefix: prefix}, nil
}

// Folder is one destination container: a bucket plus an optional key
// prefix.
type Folder struct {
	client *minio.Client
	bucket string
	prefix string
}

func (f *Folder) key(name string) string {
	if f.prefix == "" {
		return name
	}
	return f.prefix + "/" + name
}

// FilesByName returns the names of objects exactly matching name inside
// the folder.
func (f *Folder) FilesByName(ctx context.Context, name string) ([]string, error) {
	key := f.key(name)

	var names []string
	for obj := range f.client.ListObjects(ctx, f.bucket, minio.ListObjectsOptions{Prefix: key}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", key, obj.Err)
		}
		if obj.Key == key {
			names = append(names, name)
		}
	}

	return names, nil
}

// CreateFile uploads the attachment under a temporary key. The file gets
// its final name through SetName; creation and rename are deliberately
// two sequential storage operations.
func (f *Folder) CreateFile(ctx context.Context, att engine.Attachment) (engine.File, error) {
	tempKey := f.key(".upload-" + uuid.NewString())

	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := f.client.PutObject(ctx, f.bucket, tempKey,
		bytes.NewReader(att.Data), int64(len(att.Data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", att.Filename, err)
	}

	return &File{folder: f, objectKey: tempKey}, nil
}

// File is a stored object that can still be renamed.
type File struct {
	folder    *Folder
	objectKey string
}

// SetName moves the object to its final key (server-side copy, then
// removal of the temporary key).
func (fl *File) SetName(ctx context.Context, name string) error {
	dst := fl.folder.key(name)

	_, err := fl.folder.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: fl.folder.bucket, Object: dst},
		minio.CopySrcOptions{Bucket: fl.folder.bucket, Object: fl.objectKey})
	if err != nil {
		return fmt.Errorf("failed to rename to %s: %w", name, err)
	}

	if err := fl.folder.client.RemoveObject(ctx, fl.folder.bucket, fl.objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove temporary object %s: %w", fl.objectKey, err)
	}

	fl.objectKey = dst
	return nil
}

func parseFolderID(id string) (bucket, prefix string, err error) {
	id = strings.Trim(id, "/")
	if id == "" {
		return "", "", errors.New("empty folder id")
	}
	bucket, prefix, _ = strings.Cut(id, "/")
	return bucket, prefix, nil
}
