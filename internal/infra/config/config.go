// internal/infra/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"memecoin/internal/domain/coin"
)

// Storage providers selectable with STORAGE_PROVIDER.
const (
	ProviderPinata = "pinata"
	ProviderIrys   = "irys"
	ProviderGCS    = "gcs"
)

const (
	DefaultRPCURL        = "https://api.devnet.solana.com"
	DefaultPinataAPIURL  = "https://api.pinata.cloud"
	DefaultPinataGateway = "https://gateway.pinata.cloud/ipfs/"
	DefaultMaxImageBytes = 500 * 1024
)

// Config holds every environment-derived setting of the service.
type Config struct {
	Port string

	// Ledger
	SolanaRPCURL   string
	SolanaCluster  string
	ConfirmTimeout time.Duration

	// Service identity: base58 secret inline, or a Secret Manager version name
	// ("projects/<PROJECT>/secrets/<SECRET>/versions/latest") holding it.
	ServiceWalletPrivateKey string
	ServiceWalletSecretName string
	GCPCreds                string

	// Content store
	StorageProvider  string
	PinataAPIKey     string
	PinataAPISecret  string
	PinataAPIURL     string
	PinataGatewayURL string
	IrysBaseURL      string
	IrysAPIKey       string
	GCSBucket        string
	MaxImageBytes    int
	UploadTimeout    time.Duration

	// Cost estimate
	MintCostEstimateSOL string
	MintCostLive        bool

	// Issuance journal (disabled when FirestoreProjectID is empty)
	FirestoreProjectID string
	JournalCollection  string

	CORSAllowedOrigins []string
	LogLevel           string

	// malformed lists variables that were set but could not be parsed.
	malformed []string
}

// Load reads the environment and returns Config. It never fails; call Validate,
// which also reports values that could not be parsed.
func Load() *Config {
	env := &envReader{}
	cfg := &Config{
		Port: getenvDefault("PORT", "8080"),

		SolanaRPCURL:   getenvDefault("SOLANA_RPC_URL", DefaultRPCURL),
		SolanaCluster:  getenvDefault("SOLANA_CLUSTER", "devnet"),
		ConfirmTimeout: env.getDuration("SOLANA_CONFIRM_TIMEOUT", 60*time.Second),

		ServiceWalletPrivateKey: strings.TrimSpace(os.Getenv("SERVICE_WALLET_PRIVATE_KEY")),
		ServiceWalletSecretName: strings.TrimSpace(os.Getenv("SERVICE_WALLET_SECRET_NAME")),
		GCPCreds:                os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		StorageProvider:  strings.ToLower(getenvDefault("STORAGE_PROVIDER", ProviderPinata)),
		PinataAPIKey:     strings.TrimSpace(os.Getenv("PINATA_API_KEY")),
		PinataAPISecret:  strings.TrimSpace(os.Getenv("PINATA_API_SECRET")),
		PinataAPIURL:     getenvDefault("PINATA_API_URL", DefaultPinataAPIURL),
		PinataGatewayURL: getenvDefault("PINATA_GATEWAY_URL", DefaultPinataGateway),
		IrysBaseURL:      strings.TrimSpace(os.Getenv("IRYS_BASE_URL")),
		IrysAPIKey:       strings.TrimSpace(os.Getenv("IRYS_API_KEY")),
		GCSBucket:        strings.TrimSpace(os.Getenv("GCS_BUCKET")),
		MaxImageBytes:    env.getInt("MAX_IMAGE_BYTES", DefaultMaxImageBytes),
		UploadTimeout:    env.getDuration("UPLOAD_TIMEOUT", 30*time.Second),

		MintCostEstimateSOL: strings.TrimSpace(os.Getenv("MINT_COST_ESTIMATE_SOL")),
		MintCostLive:        env.getBool("MINT_COST_LIVE"),

		FirestoreProjectID: strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID")),
		JournalCollection:  getenvDefault("JOURNAL_COLLECTION", "coin_issuances"),

		CORSAllowedOrigins: splitCSV(getenvDefault("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           getenvDefault("LOG_LEVEL", "info"),
	}
	cfg.malformed = env.malformed
	return cfg
}

// Validate reports the first setting that prevents the service from serving.
func (c *Config) Validate() error {
	if c == nil {
		return coin.Configurationf("config is nil")
	}
	if len(c.malformed) > 0 {
		return coin.Configurationf("malformed %s", strings.Join(c.malformed, ", "))
	}
	if strings.TrimSpace(c.SolanaRPCURL) == "" {
		return coin.Configurationf("SOLANA_RPC_URL is empty")
	}
	if c.ServiceWalletPrivateKey == "" && c.ServiceWalletSecretName == "" {
		return coin.Configurationf("set SERVICE_WALLET_PRIVATE_KEY or SERVICE_WALLET_SECRET_NAME")
	}
	if c.MaxImageBytes <= 0 {
		return coin.Configurationf("MAX_IMAGE_BYTES must be positive")
	}

	switch c.StorageProvider {
	case ProviderPinata:
		if c.PinataAPIKey == "" || c.PinataAPISecret == "" {
			return coin.Configurationf("PINATA_API_KEY and PINATA_API_SECRET are required for storage provider %q", c.StorageProvider)
		}
	case ProviderIrys:
		if c.IrysBaseURL == "" {
			return coin.Configurationf("IRYS_BASE_URL is required for storage provider %q", c.StorageProvider)
		}
	case ProviderGCS:
		if c.GCSBucket == "" {
			return coin.Configurationf("GCS_BUCKET is required for storage provider %q", c.StorageProvider)
		}
	default:
		return coin.Configurationf("unknown STORAGE_PROVIDER %q", c.StorageProvider)
	}
	return nil
}

// JournalEnabled reports whether issuance outcomes are recorded.
func (c *Config) JournalEnabled() bool {
	return c != nil && c.FirestoreProjectID != ""
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envReader parses typed variables and remembers the ones it had to reject.
type envReader struct {
	malformed []string
}

func (r *envReader) reject(key, v string) {
	r.malformed = append(r.malformed, key+"="+strconv.Quote(v))
}

func (r *envReader) getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.reject(key, v)
		return def
	}
	return n
}

func (r *envReader) getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		r.reject(key, v)
		return def
	}
	return d
}

func (r *envReader) getBool(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.reject(key, v)
		return false
	}
	return b
}

// splitCSV parses "a,b,c" / "a, b, c" into []string (empty items are removed).
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
