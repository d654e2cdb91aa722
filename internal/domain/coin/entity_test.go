package coin

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMintRequest(t *testing.T) {
	req, err := NewMintRequest(" DogeClone ", "DOGE2", "https://gateway.pinata.cloud/ipfs/QmMeta", 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, "DogeClone", req.Name)
	assert.Equal(t, "DOGE2", req.Symbol)
	assert.Equal(t, uint8(9), req.Decimals)

	units, err := req.BaseUnits()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000_000_000_000), units)
}

func TestNewMintRequestRejects(t *testing.T) {
	cases := map[string]struct {
		name, symbol, uri string
		supply            uint64
		want              string
	}{
		"empty name":        {"", "SYM", "https://x/y", 1, "name is required"},
		"long name":         {strings.Repeat("n", 33), "SYM", "https://x/y", 1, "name must be at most 32"},
		"empty symbol":      {"Name", " ", "https://x/y", 1, "symbol is required"},
		"long symbol":       {"Name", "ABCDEFGHIJK", "https://x/y", 1, "symbol must be at most 10"},
		"missing metadata":  {"Name", "SYM", "", 1, "metadata uri is required"},
		"zero supply":       {"Name", "SYM", "https://x/y", 0, "supply must be positive"},
		"overflowing units": {"Name", "SYM", "https://x/y", MaxInitialSupply + 1, "supply must be at most"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewMintRequest(tc.name, tc.symbol, tc.uri, tc.supply)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestMaxInitialSupplyFitsBaseUnits(t *testing.T) {
	req, err := NewMintRequest("Name", "SYM", "https://x/y", MaxInitialSupply)
	require.NoError(t, err)
	_, err = req.BaseUnits()
	assert.NoError(t, err)
}

func TestExplorerURL(t *testing.T) {
	addr := "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	assert.Equal(t, "https://explorer.solana.com/address/"+addr+"?cluster=devnet", ExplorerURL(addr, "devnet"))
	assert.Equal(t, "https://explorer.solana.com/address/"+addr, ExplorerURL(addr, "mainnet-beta"))
}

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress("7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"))
	assert.False(t, IsValidAddress("short"))
	assert.False(t, IsValidAddress("0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl"))
}

func TestDeriveState(t *testing.T) {
	assert.Equal(t, StatePending, DeriveState(false, true, true, true))
	assert.Equal(t, StateMintCreated, DeriveState(true, false, true, true))
	assert.Equal(t, StateAccountReady, DeriveState(true, true, false, true))
	assert.Equal(t, StateSupplied, DeriveState(true, true, true, false))
	assert.Equal(t, StateMetadataAttached, DeriveState(true, true, true, true))

	assert.True(t, StateSupplied.Reached(StateMintCreated))
	assert.False(t, StateMintCreated.Reached(StateSupplied))
	assert.True(t, StateMetadataAttached.Complete())
}

func TestStageError(t *testing.T) {
	cause := MintFailure("submit", errors.New("timeout"))
	err := error(&StageError{Stage: StageMint, Err: cause})

	stage, ok := StageOf(err)
	require.True(t, ok)
	assert.Equal(t, StageMint, stage)
	assert.True(t, errors.Is(err, ErrMintFailed))
	assert.Equal(t, "mint: mint failed: submit: timeout", err.Error())
}
