package di

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memecoin/internal/domain/coin"
	"memecoin/internal/infra/config"
	solanainfra "memecoin/internal/infra/solana"
)

func testConfig(secret string) *config.Config {
	return &config.Config{
		Port:                    "8080",
		SolanaRPCURL:            config.DefaultRPCURL,
		SolanaCluster:           "devnet",
		ConfirmTimeout:          time.Minute,
		ServiceWalletPrivateKey: secret,
		StorageProvider:         config.ProviderPinata,
		PinataAPIKey:            "key",
		PinataAPISecret:         "secret",
		PinataAPIURL:            config.DefaultPinataAPIURL,
		PinataGatewayURL:        config.DefaultPinataGateway,
		MaxImageBytes:           config.DefaultMaxImageBytes,
		UploadTimeout:           30 * time.Second,
		CORSAllowedOrigins:      []string{"*"},
	}
}

func TestNewContainerWiresPipeline(t *testing.T) {
	acc := types.NewAccount()

	c, err := NewContainer(t.Context(), testConfig(solanainfra.EncodeSecret(acc)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, acc.PublicKey.ToBase58(), c.Identity.Address())
	require.NotNil(t, c.CoinUC)

	deps := c.RouterDeps()
	assert.Equal(t, config.DefaultMaxImageBytes, deps.MaxImageBytes)
	assert.NotNil(t, deps.Coins)

	cost, err := c.CoinUC.EstimateCost(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "0.0091276", cost.String())

	_, err = c.CoinUC.RecentIssuances(t.Context(), 5)
	assert.ErrorIs(t, err, coin.ErrJournalDisabled)
}

func TestNewContainerConfigurationErrors(t *testing.T) {
	acc := types.NewAccount()

	cases := map[string]func(*config.Config){
		"base64 secret":    func(c *config.Config) { c.ServiceWalletPrivateKey = base64.StdEncoding.EncodeToString(acc.PrivateKey) },
		"missing pinata":   func(c *config.Config) { c.PinataAPISecret = "" },
		"unknown provider": func(c *config.Config) { c.StorageProvider = "s3" },
		"bad cost":         func(c *config.Config) { c.MintCostEstimateSOL = "-0.1" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(solanainfra.EncodeSecret(acc))
			mutate(cfg)
			_, err := NewContainer(t.Context(), cfg)
			assert.ErrorIs(t, err, coin.ErrConfiguration)
		})
	}
}
