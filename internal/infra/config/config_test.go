package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memecoin/internal/domain/coin"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SOLANA_RPC_URL", "")
	t.Setenv("STORAGE_PROVIDER", "")
	t.Setenv("MAX_IMAGE_BYTES", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("SOLANA_CLUSTER", "")
	t.Setenv("SOLANA_CONFIRM_TIMEOUT", "")

	cfg := Load()
	assert.Equal(t, DefaultRPCURL, cfg.SolanaRPCURL)
	assert.Equal(t, "devnet", cfg.SolanaCluster)
	assert.Equal(t, ProviderPinata, cfg.StorageProvider)
	assert.Equal(t, 500*1024, cfg.MaxImageBytes)
	assert.Equal(t, 60*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_PROVIDER", "GCS")
	t.Setenv("MAX_IMAGE_BYTES", "1024")
	t.Setenv("SOLANA_CONFIRM_TIMEOUT", "5s")
	t.Setenv("MINT_COST_LIVE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	assert.Equal(t, ProviderGCS, cfg.StorageProvider)
	assert.Equal(t, 1024, cfg.MaxImageBytes)
	assert.Equal(t, 5*time.Second, cfg.ConfirmTimeout)
	assert.True(t, cfg.MintCostLive)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			SolanaRPCURL:            DefaultRPCURL,
			ServiceWalletPrivateKey: "secret",
			StorageProvider:         ProviderPinata,
			PinataAPIKey:            "key",
			PinataAPISecret:         "secret",
			MaxImageBytes:           DefaultMaxImageBytes,
		}
	}
	require.NoError(t, base().Validate())

	noWallet := base()
	noWallet.ServiceWalletPrivateKey = ""

	noPinata := base()
	noPinata.PinataAPISecret = ""

	noBucket := base()
	noBucket.StorageProvider = ProviderGCS

	unknown := base()
	unknown.StorageProvider = "s3"

	for name, cfg := range map[string]*Config{
		"missing wallet":   noWallet,
		"missing pinata":   noPinata,
		"missing bucket":   noBucket,
		"unknown provider": unknown,
	} {
		t.Run(name, func(t *testing.T) {
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, coin.ErrConfiguration))
		})
	}
}

func TestValidateRejectsMalformedValues(t *testing.T) {
	t.Setenv("SERVICE_WALLET_PRIVATE_KEY", "secret")
	t.Setenv("STORAGE_PROVIDER", ProviderPinata)
	t.Setenv("PINATA_API_KEY", "key")
	t.Setenv("PINATA_API_SECRET", "secret")
	t.Setenv("SOLANA_CONFIRM_TIMEOUT", "")
	t.Setenv("MINT_COST_LIVE", "")
	t.Setenv("MAX_IMAGE_BYTES", "")
	t.Setenv("UPLOAD_TIMEOUT", "")
	require.NoError(t, Load().Validate())

	t.Setenv("MAX_IMAGE_BYTES", "500KB")
	t.Setenv("SOLANA_CONFIRM_TIMEOUT", "soon")

	cfg := Load()
	assert.Equal(t, DefaultMaxImageBytes, cfg.MaxImageBytes)

	err := cfg.Validate()
	require.ErrorIs(t, err, coin.ErrConfiguration)
	assert.Contains(t, err.Error(), `MAX_IMAGE_BYTES="500KB"`)
	assert.Contains(t, err.Error(), `SOLANA_CONFIRM_TIMEOUT="soon"`)
}
