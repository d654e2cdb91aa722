// internal/infra/solana/coin_mint.go
package solana

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	"memecoin/internal/domain/coin"
)

const (
	DefaultConfirmTimeout = 60 * time.Second
	defaultPollInterval   = 500 * time.Millisecond
)

// Ledger steps named in MintFailure errors.
const (
	StepRent      = "rent"
	StepDerive    = "derive"
	StepBlockhash = "blockhash"
	StepSign      = "sign"
	StepSubmit    = "submit"
	StepConfirm   = "confirm"
	StepObserve   = "observe"
)

var (
	ErrConfirmTimeout = errors.New("transaction not confirmed before deadline")
	ErrTxFailed       = errors.New("transaction failed on chain")
)

// MintService issues fungible coins in one bundled transaction signed by the
// service identity.
type MintService struct {
	ledger         Ledger
	identity       types.Account
	cluster        string
	confirmTimeout time.Duration
	pollInterval   time.Duration
	newMint        func() types.Account
	log            *zap.Logger
}

var _ coin.MintPort = (*MintService)(nil)

// NewMintService wires a ledger and the identity that pays for and controls
// every coin.
func NewMintService(ledger Ledger, identity *ServiceIdentity, cluster string, confirmTimeout time.Duration) *MintService {
	if confirmTimeout <= 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	return &MintService{
		ledger:         ledger,
		identity:       identity.Account,
		cluster:        cluster,
		confirmTimeout: confirmTimeout,
		pollInterval:   defaultPollInterval,
		newMint:        types.NewAccount,
		log:            zap.L().Named("mint"),
	}
}

// Issue creates the mint, the identity's holding account, the initial supply
// and the Metaplex metadata atomically. Any failure leaves no ledger effect
// unless the transaction was submitted and its outcome is unknown.
func (s *MintService) Issue(ctx context.Context, req coin.MintRequest) (*coin.MintResult, error) {
	authority := s.identity.PublicKey

	rent, err := s.ledger.MinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return nil, coin.MintFailure(StepRent, err)
	}

	mint := s.newMint()
	plan, err := buildIssueInstructions(authority, mint.PublicKey, req, rent)
	if err != nil {
		return nil, coin.MintFailure(StepDerive, err)
	}

	blockhash, err := s.ledger.LatestBlockhash(ctx)
	if err != nil {
		return nil, coin.MintFailure(StepBlockhash, err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{s.identity, mint},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        authority,
			RecentBlockhash: blockhash,
			Instructions:    plan.Instructions,
		}),
	})
	if err != nil {
		return nil, coin.MintFailure(StepSign, err)
	}

	mintAddr := plan.Mint.ToBase58()
	log := s.log.With(zap.String("mint", mintAddr), zap.String("symbol", req.Symbol))

	sig, err := s.ledger.SendTransaction(ctx, tx)
	if err != nil {
		return nil, coin.MintFailure(StepSubmit, err)
	}
	log.Info("issuance submitted", zap.String("signature", sig))

	if err := s.awaitConfirmation(ctx, sig); err != nil {
		log.Warn("issuance not confirmed", zap.String("signature", sig), zap.Error(err))
		return nil, coin.MintFailure(StepConfirm, &coin.UnconfirmedError{MintAddress: mintAddr, Signature: sig, Err: err})
	}
	log.Info("issuance confirmed", zap.String("signature", sig))

	return &coin.MintResult{
		MintAddress:     mintAddr,
		ExplorerURL:     coin.ExplorerURL(mintAddr, s.cluster),
		Signature:       sig,
		TokenAccount:    plan.TokenAccount.ToBase58(),
		MetadataAddress: plan.Metadata.ToBase58(),
	}, nil
}

func (s *MintService) awaitConfirmation(ctx context.Context, sig string) error {
	ctx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		st, err := s.ledger.SignatureStatus(ctx, sig)
		switch {
		case err != nil && ctx.Err() == nil:
			return err
		case st.Failed():
			return fmt.Errorf("%w: %v", ErrTxFailed, st.Err)
		case st.Landed():
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w (%s)", ErrConfirmTimeout, s.confirmTimeout)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Observe reports how far mintAddress got, using only ledger reads.
func (s *MintService) Observe(ctx context.Context, mintAddress string) (*coin.Observation, error) {
	if !coin.IsValidAddress(mintAddress) {
		return nil, coin.Validationf("invalid mint address %q", mintAddress)
	}
	mint := common.PublicKeyFromString(mintAddress)

	ata, _, err := common.FindAssociatedTokenAddress(s.identity.PublicKey, mint)
	if err != nil {
		return nil, coin.MintFailure(StepDerive, err)
	}
	metadata, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return nil, coin.MintFailure(StepDerive, err)
	}

	obs := &coin.Observation{
		MintAddress:     mintAddress,
		TokenAccount:    ata.ToBase58(),
		MetadataAddress: metadata.ToBase58(),
		Supply:          "0",
	}

	mintExists, err := s.ledger.AccountExists(ctx, mintAddress)
	if err != nil {
		return nil, coin.MintFailure(StepObserve, err)
	}
	if !mintExists {
		obs.State = coin.StatePending
		return obs, nil
	}

	supply, err := s.ledger.TokenSupply(ctx, mintAddress)
	if err != nil {
		return nil, coin.MintFailure(StepObserve, err)
	}
	obs.Supply = strconv.FormatUint(supply.Amount, 10)
	obs.Decimals = supply.Decimals

	accountExists, err := s.ledger.AccountExists(ctx, obs.TokenAccount)
	if err != nil {
		return nil, coin.MintFailure(StepObserve, err)
	}
	metadataExists, err := s.ledger.AccountExists(ctx, obs.MetadataAddress)
	if err != nil {
		return nil, coin.MintFailure(StepObserve, err)
	}

	obs.State = coin.DeriveState(mintExists, accountExists, supply.Amount > 0, metadataExists)
	return obs, nil
}
