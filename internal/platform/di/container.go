// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	httpin "memecoin/internal/adapters/in/http"
	usecase "memecoin/internal/application/usecase"
	"memecoin/internal/domain/coin"
	"memecoin/internal/infra/arweave"
	"memecoin/internal/infra/config"
	firestoreinfra "memecoin/internal/infra/firestore"
	"memecoin/internal/infra/gcs"
	"memecoin/internal/infra/httpclient"
	"memecoin/internal/infra/ipfs"
	solanainfra "memecoin/internal/infra/solana"
	"memecoin/internal/infra/upload"
)

const rpcTimeout = 20 * time.Second

// Container owns every long-lived client and the wired use case.
type Container struct {
	Config   *config.Config
	Identity *solanainfra.ServiceIdentity
	CoinUC   *usecase.CoinUsecase

	firestore *firestore.Client
	gcs       *storage.Client
	secrets   *secretmanager.Client
}

// NewContainer validates cfg and builds the pipeline. Configuration problems
// come back as coin.ErrConfiguration.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := zap.L().Named("di")
	c := &Container{Config: cfg}

	var clientOpts []option.ClientOption
	if creds := strings.TrimSpace(cfg.GCPCreds); creds != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(creds))
		log.Info("using credentials file for GCP clients")
	}

	// 1) Service identity
	var source solanainfra.SecretSource
	if cfg.ServiceWalletPrivateKey == "" {
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("%w: secretmanager.NewClient: %w", coin.ErrConfiguration, err)
		}
		c.secrets = sm
		source = &solanainfra.SecretManagerSource{Client: sm}
	}
	identity, err := solanainfra.LoadServiceIdentity(ctx, cfg.ServiceWalletPrivateKey, cfg.ServiceWalletSecretName, source)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Identity = identity

	// 2) Content store
	provider, err := c.newStorageProvider(ctx, clientOpts)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	store := upload.New(provider, cfg.StorageProvider, cfg.MaxImageBytes)

	// 3) Ledger
	ledger := solanainfra.NewRPCLedger(cfg.SolanaRPCURL, httpclient.NewHTTP(rpcTimeout))
	minter := solanainfra.NewMintService(ledger, identity, cfg.SolanaCluster, cfg.ConfirmTimeout)

	var rent solanainfra.RentSource
	if cfg.MintCostLive {
		rent = ledger
	}
	estimator, err := solanainfra.NewCostEstimator(cfg.MintCostEstimateSOL, rent)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	// 4) Optional journal
	var journal coin.JournalPort
	if cfg.JournalEnabled() {
		fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.GCPCreds)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("%w: %w", coin.ErrConfiguration, err)
		}
		c.firestore = fs
		journal = firestoreinfra.NewIssuanceJournal(fs, cfg.JournalCollection)
	} else {
		log.Info("issuance journal disabled (FIRESTORE_PROJECT_ID empty)")
	}

	c.CoinUC = usecase.NewCoinUsecase(store, minter, estimator, journal, cfg.MaxImageBytes)

	log.Info("container ready",
		zap.String("wallet", identity.Address()),
		zap.String("cluster", cfg.SolanaCluster),
		zap.String("storage", cfg.StorageProvider),
		zap.Bool("journal", journal != nil),
		zap.Bool("liveCost", cfg.MintCostLive),
	)
	return c, nil
}

func (c *Container) newStorageProvider(ctx context.Context, clientOpts []option.ClientOption) (upload.Provider, error) {
	cfg := c.Config
	switch cfg.StorageProvider {
	case config.ProviderPinata:
		return ipfs.NewPinataUploader(
			httpclient.New(cfg.UploadTimeout),
			cfg.PinataAPIURL,
			cfg.PinataGatewayURL,
			cfg.PinataAPIKey,
			cfg.PinataAPISecret,
		), nil
	case config.ProviderIrys:
		return arweave.NewHTTPUploader(httpclient.New(cfg.UploadTimeout), cfg.IrysBaseURL, cfg.IrysAPIKey), nil
	case config.ProviderGCS:
		client, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("%w: storage.NewClient: %w", coin.ErrConfiguration, err)
		}
		c.gcs = client
		return gcs.NewContentStore(client, cfg.GCSBucket), nil
	default:
		return nil, coin.Configurationf("unknown STORAGE_PROVIDER %q", cfg.StorageProvider)
	}
}

// RouterDeps exposes what the HTTP shell needs.
func (c *Container) RouterDeps() httpin.RouterDeps {
	return httpin.RouterDeps{
		Coins:          c.CoinUC,
		MaxImageBytes:  c.Config.MaxImageBytes,
		AllowedOrigins: c.Config.CORSAllowedOrigins,
	}
}

// Close releases the GCP clients that were opened.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.firestore != nil {
		errs = append(errs, c.firestore.Close())
	}
	if c.gcs != nil {
		errs = append(errs, c.gcs.Close())
	}
	if c.secrets != nil {
		errs = append(errs, c.secrets.Close())
	}
	return errors.Join(errs...)
}
