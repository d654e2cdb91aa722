// internal/infra/ipfs/pinata_uploader.go
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"go.uber.org/zap"

	"memecoin/internal/infra/httpclient"
)

var (
	ErrPinataNotConfigured = errors.New("pinata: not configured")
	ErrPinataEmptyHash     = errors.New("pinata: response has empty IpfsHash")
)

const (
	pinFilePath = "/pinning/pinFileToIPFS"
	pinJSONPath = "/pinning/pinJSONToIPFS"
)

// PinataUploader pins files and JSON documents through the Pinata API and
// returns gateway URLs.
type PinataUploader struct {
	client     httpclient.Doer
	apiURL     string
	gatewayURL string
	apiKey     string
	apiSecret  string
	log        *zap.Logger
}

// NewPinataUploader builds the uploader. gatewayURL is the prefix joined with
// the returned IpfsHash, e.g. "https://gateway.pinata.cloud/ipfs/".
func NewPinataUploader(client httpclient.Doer, apiURL, gatewayURL, apiKey, apiSecret string) *PinataUploader {
	gw := strings.TrimSpace(gatewayURL)
	if gw != "" && !strings.HasSuffix(gw, "/") {
		gw += "/"
	}
	return &PinataUploader{
		client:     client,
		apiURL:     strings.TrimRight(strings.TrimSpace(apiURL), "/"),
		gatewayURL: gw,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		log:        zap.L().Named("pinata"),
	}
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinataMetadata struct {
	Name string `json:"name"`
}

// PutBinary pins data as a file named fileName.
func (u *PinataUploader) PutBinary(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	if err := u.ready(); err != nil {
		return "", err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("pinata: create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("pinata: write file part: %w", err)
	}

	meta, _ := json.Marshal(pinataMetadata{Name: fileName})
	if err := mw.WriteField("pinataMetadata", string(meta)); err != nil {
		return "", fmt.Errorf("pinata: write metadata field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("pinata: close multipart: %w", err)
	}

	u.log.Debug("pin file", zap.String("fileName", fileName), zap.Int("bytes", len(data)))
	return u.pin(ctx, pinFilePath, mw.FormDataContentType(), &body)
}

// PutJSON pins an already-encoded JSON document.
func (u *PinataUploader) PutJSON(ctx context.Context, doc []byte, fileName string) (string, error) {
	if err := u.ready(); err != nil {
		return "", err
	}
	if !json.Valid(doc) {
		return "", fmt.Errorf("pinata: document is not valid json")
	}

	payload, err := json.Marshal(struct {
		Content  json.RawMessage `json:"pinataContent"`
		Metadata pinataMetadata  `json:"pinataMetadata"`
	}{
		Content:  doc,
		Metadata: pinataMetadata{Name: fileName},
	})
	if err != nil {
		return "", fmt.Errorf("pinata: marshal payload: %w", err)
	}

	u.log.Debug("pin json", zap.String("fileName", fileName), zap.Int("bytes", len(doc)))
	return u.pin(ctx, pinJSONPath, "application/json", bytes.NewReader(payload))
}

func (u *PinataUploader) pin(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.apiURL+path, body)
	if err != nil {
		return "", fmt.Errorf("pinata: create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("pinata_api_key", u.apiKey)
	req.Header.Set("pinata_secret_api_key", u.apiSecret)

	resp, err := u.client.Do(req)
	if err != nil {
		u.log.Warn("pin request failed", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("pinata %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		u.log.Warn("pin rejected", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("pinata %s: status=%d body=%s", path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var res pinResponse
	if err := json.Unmarshal(respBody, &res); err != nil {
		return "", fmt.Errorf("pinata %s: decode response: %w", path, err)
	}
	hash := strings.TrimSpace(res.IpfsHash)
	if hash == "" {
		return "", ErrPinataEmptyHash
	}

	uri := u.gatewayURL + hash
	u.log.Info("pinned", zap.String("path", path), zap.String("uri", uri), zap.Int64("pinSize", res.PinSize))
	return uri, nil
}

func (u *PinataUploader) ready() error {
	if u == nil || u.client == nil || u.apiURL == "" || u.gatewayURL == "" {
		return ErrPinataNotConfigured
	}
	if u.apiKey == "" || u.apiSecret == "" {
		return fmt.Errorf("%w: missing api credentials", ErrPinataNotConfigured)
	}
	return nil
}
