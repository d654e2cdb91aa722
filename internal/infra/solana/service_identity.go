// internal/infra/solana/service_identity.go
package solana

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretspb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"memecoin/internal/domain/coin"
)

// ServiceIdentity is the single keypair that pays for and owns every coin the
// service issues.
type ServiceIdentity struct {
	Account types.Account
}

// Address is the base58 public key.
func (s *ServiceIdentity) Address() string {
	return s.Account.PublicKey.ToBase58()
}

// SecretSource returns the raw secret text stored under name.
type SecretSource interface {
	Secret(ctx context.Context, name string) (string, error)
}

// SecretManagerSource reads secret versions from GCP Secret Manager. Names are
// full version paths, e.g. projects/<p>/secrets/<s>/versions/latest.
type SecretManagerSource struct {
	Client *secretmanager.Client
}

func (s *SecretManagerSource) Secret(ctx context.Context, name string) (string, error) {
	if s == nil || s.Client == nil {
		return "", coin.Configurationf("secret manager client is not configured")
	}
	resp, err := s.Client.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("AccessSecretVersion: %w", err)
	}
	if resp == nil || resp.Payload == nil {
		return "", fmt.Errorf("AccessSecretVersion: empty payload")
	}
	return string(resp.Payload.Data), nil
}

// LoadServiceIdentity resolves the wallet secret, preferring the inline value
// over the secret manager version name. Only the public key is logged.
func LoadServiceIdentity(ctx context.Context, inline, secretName string, source SecretSource) (*ServiceIdentity, error) {
	text := strings.TrimSpace(inline)
	origin := "env"

	if text == "" {
		name := strings.TrimSpace(secretName)
		if name == "" {
			return nil, coin.Configurationf("service wallet secret is not set (SERVICE_WALLET_PRIVATE_KEY or SERVICE_WALLET_SECRET_NAME)")
		}
		if source == nil {
			return nil, coin.Configurationf("service wallet secret %s requires a secret source", name)
		}
		v, err := source.Secret(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%w: load service wallet secret: %w", coin.ErrConfiguration, err)
		}
		text = v
		origin = "secretmanager"
	}

	acc, err := DecodeSecret(text)
	if err != nil {
		return nil, err
	}

	zap.L().Named("identity").Info("service wallet loaded",
		zap.String("source", origin),
		zap.String("address", acc.PublicKey.ToBase58()),
	)
	return &ServiceIdentity{Account: acc}, nil
}

// DecodeSecret parses the canonical encoding: base58 of the 64-byte ed25519
// secret key (seed followed by public key).
func DecodeSecret(text string) (types.Account, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return types.Account{}, coin.Configurationf("service wallet secret is empty")
	}
	if strings.HasPrefix(s, "[") {
		return types.Account{}, coin.Configurationf("service wallet secret is a JSON byte array; expected base58 text")
	}

	raw, err := base58.Decode(s)
	if err != nil || len(raw) != ed25519.PrivateKeySize {
		if looksBase64(s) {
			return types.Account{}, coin.Configurationf("service wallet secret appears to be base64; expected base58 text")
		}
		if err != nil {
			return types.Account{}, coin.Configurationf("service wallet secret is not base58: %v", err)
		}
		return types.Account{}, coin.Configurationf("service wallet secret decodes to %d bytes, want %d", len(raw), ed25519.PrivateKeySize)
	}

	derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	if !bytes.Equal(derived, raw) {
		return types.Account{}, coin.Configurationf("service wallet secret public half does not match its seed")
	}

	acc, err := types.AccountFromBytes(raw)
	if err != nil {
		return types.Account{}, coin.Configurationf("service wallet secret: %v", err)
	}
	return acc, nil
}

// EncodeSecret renders acc in the canonical encoding.
func EncodeSecret(acc types.Account) string {
	return base58.Encode(acc.PrivateKey)
}

func looksBase64(s string) bool {
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding} {
		if b, err := enc.DecodeString(s); err == nil && len(b) == ed25519.PrivateKeySize {
			return true
		}
	}
	return false
}
