// internal/domain/coin/entity.go
package coin

import (
	"fmt"
	"math/bits"
	"strings"
)

// Token policy for every coin this service issues.
const (
	Decimals = 9

	MaxNameBytes   = 32
	MaxSymbolBytes = 10

	// MetadataCategory is the off-chain category for image-backed coins.
	MetadataCategory = "image"
)

// Solana pubkey is 32 bytes base58-encoded; observed length typically 32..44.
var (
	Base58MinLen   = 32
	Base58MaxLen   = 44
	base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
)

// MaxInitialSupply is the largest whole-token supply whose base-unit amount
// (supply × 10^Decimals) still fits in a uint64.
var MaxInitialSupply = ^uint64(0) / pow10(Decimals)

// AssetUploadRequest is one binary blob on its way to the content store.
type AssetUploadRequest struct {
	Data     []byte
	FileName string
	MimeType string
}

// MetadataFile mirrors one entry of properties.files in the off-chain metadata.
type MetadataFile struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
}

// MetadataProperties mirrors the properties object of the off-chain metadata.
type MetadataProperties struct {
	Files    []MetadataFile `json:"files"`
	Category string         `json:"category"`
}

// MetadataDocument is the JSON document pinned next to the image and referenced
// by the on-chain metadata record's uri.
type MetadataDocument struct {
	Name        string             `json:"name"`
	Symbol      string             `json:"symbol"`
	Description string             `json:"description"`
	Image       string             `json:"image"`
	Properties  MetadataProperties `json:"properties"`
}

// MintRequest is what the ledger side needs to issue a coin.
// Build it with NewMintRequest; the zero value is not mintable.
type MintRequest struct {
	Name          string
	Symbol        string
	MetadataURI   string
	InitialSupply uint64
	Decimals      uint8
}

// NewMintRequest validates and builds a MintRequest.
// metadataURI must be the locator returned by the content store.
func NewMintRequest(name, symbol, metadataURI string, supply uint64) (MintRequest, error) {
	r := MintRequest{
		Name:          strings.TrimSpace(name),
		Symbol:        strings.TrimSpace(symbol),
		MetadataURI:   strings.TrimSpace(metadataURI),
		InitialSupply: supply,
		Decimals:      Decimals,
	}
	if err := r.validate(); err != nil {
		return MintRequest{}, err
	}
	return r, nil
}

func (r MintRequest) validate() error {
	switch {
	case r.Name == "":
		return Validationf("name is required")
	case len(r.Name) > MaxNameBytes:
		return Validationf("name must be at most %d bytes", MaxNameBytes)
	case r.Symbol == "":
		return Validationf("symbol is required")
	case len(r.Symbol) > MaxSymbolBytes:
		return Validationf("symbol must be at most %d bytes", MaxSymbolBytes)
	case r.MetadataURI == "":
		return Validationf("metadata uri is required")
	case r.InitialSupply == 0:
		return Validationf("supply must be positive")
	case r.InitialSupply > MaxInitialSupply:
		return Validationf("supply must be at most %d", MaxInitialSupply)
	}
	return nil
}

// BaseUnits returns InitialSupply × 10^Decimals.
func (r MintRequest) BaseUnits() (uint64, error) {
	hi, lo := bits.Mul64(r.InitialSupply, pow10(r.Decimals))
	if hi != 0 {
		return 0, fmt.Errorf("%w: supply %d overflows base units", ErrValidation, r.InitialSupply)
	}
	return lo, nil
}

// MintResult is produced only when the whole pipeline succeeded.
type MintResult struct {
	MintAddress     string `json:"mintAddress"`
	ExplorerURL     string `json:"explorerUrl"`
	Signature       string `json:"signature,omitempty"`
	TokenAccount    string `json:"tokenAccount,omitempty"`
	MetadataAddress string `json:"metadataAddress,omitempty"`
}

// ExplorerURL builds the Solana explorer link for an address on cluster.
func ExplorerURL(address, cluster string) string {
	u := "https://explorer.solana.com/address/" + address
	c := strings.TrimSpace(cluster)
	if c == "" || c == "mainnet-beta" || c == "mainnet" {
		return u
	}
	return u + "?cluster=" + c
}

// IsValidAddress reports whether s looks like a base58 Solana pubkey.
func IsValidAddress(s string) bool {
	if s = strings.TrimSpace(s); s == "" {
		return false
	}
	if len(s) < Base58MinLen || (Base58MaxLen > 0 && len(s) > Base58MaxLen) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(base58Alphabet, rune(s[i])) {
			return false
		}
	}
	return true
}

func pow10(n uint8) uint64 {
	v := uint64(1)
	for i := uint8(0); i < n; i++ {
		v *= 10
	}
	return v
}
