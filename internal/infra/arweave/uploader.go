// internal/infra/arweave/uploader.go
package arweave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"memecoin/internal/infra/httpclient"
)

// HTTPUploader talks to an Irys uploader service (e.g. a Cloud Run wrapper)
// that bundles payloads onto Arweave and answers with a gateway URI.
//
//	POST {baseURL}/upload/file  raw bytes, Content-Type = asset mime, X-File-Name
//	POST {baseURL}/upload/json  application/json
//	-> 2xx {"uri": "https://gateway.irys.xyz/<id>"}
type HTTPUploader struct {
	client  httpclient.Doer
	baseURL string
	apiKey  string // optional bearer token
	log     *zap.Logger
}

// NewHTTPUploader builds the Arweave/Irys uploader.
func NewHTTPUploader(client httpclient.Doer, baseURL, apiKey string) *HTTPUploader {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")

	return &HTTPUploader{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     zap.L().Named("arweave"),
	}
}

// PutBinary uploads an asset and returns its gateway URI.
func (u *HTTPUploader) PutBinary(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return u.upload(ctx, "/upload/file", mimeType, fileName, data)
}

// PutJSON uploads an encoded metadata document and returns its gateway URI.
func (u *HTTPUploader) PutJSON(ctx context.Context, doc []byte, fileName string) (string, error) {
	return u.upload(ctx, "/upload/json", "application/json", fileName, doc)
}

func (u *HTTPUploader) upload(ctx context.Context, path, contentType, fileName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("payload is empty")
	}
	if u == nil || u.client == nil || u.baseURL == "" {
		return "", fmt.Errorf("baseURL is empty; arweave endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if fileName != "" {
		req.Header.Set("X-File-Name", fileName)
	}
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		u.log.Warn("http request failed", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("upload to arweave: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		u.log.Warn("upload failed", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("upload failed: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var res struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if res.URI == "" {
		return "", fmt.Errorf("upload response has empty uri")
	}

	u.log.Info("uploaded", zap.String("path", path), zap.String("uri", res.URI))
	return res.URI, nil
}
