// internal/infra/gcs/content_store.go
package gcs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

// objectPrefix keeps content-addressed objects apart from anything else in the bucket.
const objectPrefix = "objects/"

var ErrContentStoreNotConfigured = errors.New("gcs content store: not configured")

// objectStore is the bucket surface ContentStore needs.
type objectStore interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name, contentType string, metadata map[string]string, data []byte) error
}

// ContentStore stores payloads in a public GCS bucket under the SHA-256 of
// their bytes, so identical content always maps to the same URI.
type ContentStore struct {
	bucket string
	store  objectStore
	log    *zap.Logger
}

// NewContentStore builds a content store on top of an existing GCS client.
// Bucket calls are never retried; failures surface on the first attempt.
func NewContentStore(client *storage.Client, bucket string) *ContentStore {
	b := strings.TrimSpace(bucket)
	var store objectStore
	if client != nil && b != "" {
		handle := client.Bucket(b).Retryer(storage.WithPolicy(storage.RetryNever))
		store = &bucketStore{handle: handle}
	}
	return newContentStore(b, store)
}

func newContentStore(bucket string, store objectStore) *ContentStore {
	return &ContentStore{bucket: bucket, store: store, log: zap.L().Named("gcs")}
}

// PutBinary stores data and returns its public URL.
func (s *ContentStore) PutBinary(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return s.put(ctx, data, fileName, mimeType)
}

// PutJSON stores an encoded JSON document and returns its public URL.
func (s *ContentStore) PutJSON(ctx context.Context, doc []byte, fileName string) (string, error) {
	return s.put(ctx, doc, fileName, "application/json")
}

func (s *ContentStore) put(ctx context.Context, data []byte, fileName, contentType string) (string, error) {
	if s == nil || s.store == nil || s.bucket == "" {
		return "", ErrContentStoreNotConfigured
	}
	if len(data) == 0 {
		return "", fmt.Errorf("gcs content store: payload is empty")
	}

	sum := sha256.Sum256(data)
	name := objectPrefix + hex.EncodeToString(sum[:])
	uri := PublicURL(s.bucket, name)

	exists, err := s.store.Exists(ctx, name)
	if err != nil {
		return "", fmt.Errorf("gcs content store: stat %s: %w", name, err)
	}
	if exists {
		s.log.Debug("object already stored", zap.String("object", name))
		return uri, nil
	}

	md := map[string]string{"fileName": fileName}
	if err := s.store.Create(ctx, name, contentType, md, data); err != nil {
		return "", fmt.Errorf("gcs content store: write %s: %w", name, err)
	}

	s.log.Info("stored", zap.String("uri", uri), zap.Int("bytes", len(data)))
	return uri, nil
}

// PublicURL builds a public GCS URL.
func PublicURL(bucket, objectPath string) string {
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", strings.TrimSpace(bucket), (&url.URL{Path: obj}).EscapedPath())
}

type bucketStore struct {
	handle *storage.BucketHandle
}

func (b *bucketStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := b.handle.Object(name).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	return false, err
}

func (b *bucketStore) Create(ctx context.Context, name, contentType string, metadata map[string]string, data []byte) error {
	w := b.handle.Object(name).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = metadata
	w.CacheControl = "public, max-age=31536000, immutable"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	err := w.Close()

	// A concurrent writer stored the same bytes first.
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return nil
	}
	return err
}
