// internal/infra/solana/instructions.go
package solana

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"

	"memecoin/internal/domain/coin"
)

// issuePlan is the ordered instruction set of one bundled issuance together
// with the addresses it touches.
type issuePlan struct {
	Mint         common.PublicKey
	TokenAccount common.PublicKey
	Metadata     common.PublicKey
	Instructions []types.Instruction
}

// buildIssueInstructions lays out mint creation, holding account, supply and
// metadata in that order. authority pays and holds every authority role.
func buildIssueInstructions(authority, mint common.PublicKey, req coin.MintRequest, mintRent uint64) (issuePlan, error) {
	amount, err := req.BaseUnits()
	if err != nil {
		return issuePlan{}, err
	}

	ata, _, err := common.FindAssociatedTokenAddress(authority, mint)
	if err != nil {
		return issuePlan{}, fmt.Errorf("FindAssociatedTokenAddress: %w", err)
	}
	metadata, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return issuePlan{}, fmt.Errorf("GetTokenMetaPubkey: %w", err)
	}

	ins := []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     authority,
			New:      mint,
			Owner:    common.TokenProgramID,
			Lamports: mintRent,
			Space:    token.MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   req.Decimals,
			Mint:       mint,
			MintAuth:   authority,
			FreezeAuth: &authority,
		}),
		associated_token_account.CreateIdempotent(associated_token_account.CreateIdempotentParam{
			Funder:                 authority,
			Owner:                  authority,
			Mint:                   mint,
			AssociatedTokenAccount: ata,
		}),
		token.MintTo(token.MintToParam{
			Mint:   mint,
			To:     ata,
			Auth:   authority,
			Amount: amount,
		}),
		token_metadata.CreateMetadataAccountV3(token_metadata.CreateMetadataAccountV3Param{
			Metadata:                metadata,
			Mint:                    mint,
			MintAuthority:           authority,
			UpdateAuthority:         authority,
			Payer:                   authority,
			UpdateAuthorityIsSigner: true,
			IsMutable:               true,
			Data: token_metadata.DataV2{
				Name:                 req.Name,
				Symbol:               req.Symbol,
				Uri:                  req.MetadataURI,
				SellerFeeBasisPoints: 0,
				Creators:             nil,
			},
			CollectionDetails: nil,
		}),
	}

	return issuePlan{
		Mint:         mint,
		TokenAccount: ata,
		Metadata:     metadata,
		Instructions: ins,
	}, nil
}
