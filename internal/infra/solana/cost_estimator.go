// internal/infra/solana/cost_estimator.go
package solana

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/shopspring/decimal"

	"memecoin/internal/domain/coin"
)

const (
	lamportsPerSOLExp = -9

	// Default rent parameters: 3480 lamports per byte-year, two years to be exempt,
	// plus 128 bytes of account storage overhead.
	rentLamportsPerByte    = 3480 * 2
	accountStorageOverhead = 128

	signatureFeeLamports = 5000
	issuanceSignatures   = 2 // service identity + ephemeral mint

	// MetadataAccountSize is the Metaplex metadata account length.
	MetadataAccountSize = 679
)

// issuanceAccountSizes are the accounts one issuance creates.
var issuanceAccountSizes = []uint64{token.MintAccountSize, token.TokenAccountSize, MetadataAccountSize}

// RentSource answers rent-exemption queries.
type RentSource interface {
	MinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
}

// CostEstimator reports the advisory SOL cost of one issuance.
type CostEstimator struct {
	override *decimal.Decimal
	live     RentSource
}

var _ coin.CostPort = (*CostEstimator)(nil)

// NewCostEstimator builds a static estimator. A non-empty override (in SOL)
// wins over everything; a non-nil live source switches to live rent queries.
func NewCostEstimator(override string, live RentSource) (*CostEstimator, error) {
	e := &CostEstimator{live: live}

	if v := strings.TrimSpace(override); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, coin.Configurationf("MINT_COST_ESTIMATE_SOL %q is not a number", v)
		}
		if d.IsNegative() {
			return nil, coin.Configurationf("MINT_COST_ESTIMATE_SOL must not be negative")
		}
		e.override = &d
	}
	return e, nil
}

// Estimate never submits anything to the ledger.
func (e *CostEstimator) Estimate(ctx context.Context) (decimal.Decimal, error) {
	if e.override != nil {
		return *e.override, nil
	}

	var lamports uint64
	for _, size := range issuanceAccountSizes {
		if e.live == nil {
			lamports += StaticRentExemption(size)
			continue
		}
		rent, err := e.live.MinimumBalanceForRentExemption(ctx, size)
		if err != nil {
			return decimal.Zero, fmt.Errorf("estimate cost: rent for %d bytes: %w", size, err)
		}
		lamports += rent
	}
	lamports += signatureFeeLamports * issuanceSignatures

	return LamportsToSOL(lamports), nil
}

// StaticRentExemption is the rent-exempt minimum under default rent parameters.
func StaticRentExemption(size uint64) uint64 {
	return (accountStorageOverhead + size) * rentLamportsPerByte
}

// LamportsToSOL converts without floating point.
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), lamportsPerSOLExp)
}
