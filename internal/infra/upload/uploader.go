// Package upload is the storage side of the issuance pipeline: it enforces
// payload rules, then hands bytes to one content-addressed provider.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"memecoin/internal/domain/coin"
)

// Provider is a content-addressed store. Implementations make exactly one
// attempt per call and return a gateway-resolvable URI.
type Provider interface {
	PutBinary(ctx context.Context, data []byte, fileName, mimeType string) (string, error)
	PutJSON(ctx context.Context, doc []byte, fileName string) (string, error)
}

// Uploader implements coin.StoragePort.
type Uploader struct {
	provider Provider
	name     string
	maxBytes int
	log      *zap.Logger
}

var _ coin.StoragePort = (*Uploader)(nil)

// New wraps provider (named for logs) with a binary size ceiling of maxBytes.
func New(provider Provider, name string, maxBytes int) *Uploader {
	return &Uploader{
		provider: provider,
		name:     name,
		maxBytes: maxBytes,
		log:      zap.L().Named("upload").With(zap.String("provider", name)),
	}
}

// MaxBytes is the binary payload ceiling.
func (u *Uploader) MaxBytes() int { return u.maxBytes }

// CheckBinary validates a binary payload without touching the network.
func (u *Uploader) CheckBinary(req coin.AssetUploadRequest) error {
	if len(req.Data) == 0 {
		return coin.Validationf("image is empty")
	}
	if u.maxBytes > 0 && len(req.Data) > u.maxBytes {
		return coin.Validationf("image is %d bytes; the limit is %d bytes", len(req.Data), u.maxBytes)
	}
	if strings.TrimSpace(req.FileName) == "" {
		return coin.Validationf("image file name is required")
	}
	return nil
}

// UploadBinary pins an asset. Oversized or empty payloads never leave the process.
func (u *Uploader) UploadBinary(ctx context.Context, req coin.AssetUploadRequest) (string, error) {
	if err := u.CheckBinary(req); err != nil {
		return "", err
	}
	uri, err := u.provider.PutBinary(ctx, req.Data, req.FileName, req.MimeType)
	if err != nil {
		return "", coin.UploadFailure("upload "+req.FileName, err)
	}
	if uri == "" {
		return "", coin.UploadFailure("upload "+req.FileName, fmt.Errorf("provider returned empty uri"))
	}
	u.log.Info("asset uploaded", zap.String("fileName", req.FileName), zap.Int("bytes", len(req.Data)), zap.String("uri", uri))
	return uri, nil
}

// UploadDocument pins a metadata document after a structural check.
func (u *Uploader) UploadDocument(ctx context.Context, doc coin.MetadataDocument, fileName string) (string, error) {
	if err := coin.ValidateDocument(doc); err != nil {
		return "", err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode metadata document: %w", err)
	}
	uri, err := u.provider.PutJSON(ctx, data, fileName)
	if err != nil {
		return "", coin.UploadFailure("upload "+fileName, err)
	}
	if uri == "" {
		return "", coin.UploadFailure("upload "+fileName, fmt.Errorf("provider returned empty uri"))
	}
	u.log.Info("document uploaded", zap.String("fileName", fileName), zap.String("uri", uri))
	return uri, nil
}
