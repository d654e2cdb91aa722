// internal/application/usecase/token_metadata_builder.go
package usecase

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"memecoin/internal/domain/coin"
)

// MetadataInput is what the builder needs to describe one coin off-chain.
type MetadataInput struct {
	Name        string
	Symbol      string
	Description string
	ImageURI    string
	MimeType    string
}

// TokenMetadataBuilder turns coin fields plus the pinned image locator into
// the off-chain metadata document. It is pure.
type TokenMetadataBuilder struct{}

func NewTokenMetadataBuilder() *TokenMetadataBuilder {
	return &TokenMetadataBuilder{}
}

// Build never truncates: oversized fields are rejected.
func (b *TokenMetadataBuilder) Build(in MetadataInput) (coin.MetadataDocument, error) {
	name := strings.TrimSpace(in.Name)
	symbol := strings.TrimSpace(in.Symbol)
	desc := strings.TrimSpace(in.Description)
	image := strings.TrimSpace(in.ImageURI)

	switch {
	case name == "":
		return coin.MetadataDocument{}, coin.Validationf("name is required")
	case len(name) > coin.MaxNameBytes:
		return coin.MetadataDocument{}, coin.Validationf("name must be at most %d bytes", coin.MaxNameBytes)
	case symbol == "":
		return coin.MetadataDocument{}, coin.Validationf("symbol is required")
	case len(symbol) > coin.MaxSymbolBytes:
		return coin.MetadataDocument{}, coin.Validationf("symbol must be at most %d bytes", coin.MaxSymbolBytes)
	case desc == "":
		return coin.MetadataDocument{}, coin.Validationf("description is required")
	case image == "":
		return coin.MetadataDocument{}, coin.Validationf("image uri is required")
	}

	mime := strings.TrimSpace(in.MimeType)
	if mime == "" {
		mime = "application/octet-stream"
	}

	return coin.MetadataDocument{
		Name:        name,
		Symbol:      symbol,
		Description: desc,
		Image:       image,
		Properties: coin.MetadataProperties{
			Files:    []coin.MetadataFile{{URI: image, Type: mime}},
			Category: coin.MetadataCategory,
		},
	}, nil
}

// Encode renders doc as the JSON that gets pinned.
func (b *TokenMetadataBuilder) Encode(doc coin.MetadataDocument) ([]byte, error) {
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return out, nil
}

// MetadataFileName is the name the document is pinned under; whitespace
// becomes underscores.
func MetadataFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name)) + "_metadata.json"
}
