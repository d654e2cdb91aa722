// internal/infra/solana/ledger.go
package solana

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
)

// SignatureStatus is one entry of getSignatureStatuses.
type SignatureStatus struct {
	Slot               uint64
	Confirmations      *uint64
	Err                any
	ConfirmationStatus rpc.Commitment
}

// Landed reports whether the transaction reached confirmed or finalized.
func (s *SignatureStatus) Landed() bool {
	return s != nil && (s.ConfirmationStatus == rpc.CommitmentConfirmed || s.ConfirmationStatus == rpc.CommitmentFinalized)
}

// Failed reports whether the transaction executed with an error.
func (s *SignatureStatus) Failed() bool {
	return s != nil && s.Err != nil
}

// Ledger is the slice of the Solana RPC surface the mint service and the
// observer depend on.
type Ledger interface {
	LatestBlockhash(ctx context.Context) (string, error)
	MinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
	SendTransaction(ctx context.Context, tx types.Transaction) (string, error)
	// SignatureStatus returns nil when the node has not seen sig yet.
	SignatureStatus(ctx context.Context, sig string) (*SignatureStatus, error)
	AccountExists(ctx context.Context, address string) (bool, error)
	TokenSupply(ctx context.Context, mint string) (client.TokenAmount, error)
}

// RPCLedger talks to one RPC endpoint through blocto's client.
type RPCLedger struct {
	rpc *client.Client
}

var _ Ledger = (*RPCLedger)(nil)

// NewRPCLedger connects to endpoint (devnet when empty). A nil httpClient
// uses the SDK default.
func NewRPCLedger(endpoint string, httpClient *http.Client) *RPCLedger {
	ep := strings.TrimSpace(endpoint)
	if ep == "" {
		ep = rpc.DevnetRPCEndpoint
	}
	opts := []rpc.Option{rpc.WithEndpoint(ep)}
	if httpClient != nil {
		opts = append(opts, rpc.WithHTTPClient(httpClient))
	}
	return &RPCLedger{rpc: client.New(opts...)}
}

func (l *RPCLedger) LatestBlockhash(ctx context.Context) (string, error) {
	latest, err := l.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return "", err
	}
	return latest.Blockhash, nil
}

func (l *RPCLedger) MinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	return l.rpc.GetMinimumBalanceForRentExemption(ctx, size)
}

func (l *RPCLedger) SendTransaction(ctx context.Context, tx types.Transaction) (string, error) {
	return l.rpc.SendTransaction(ctx, tx)
}

func (l *RPCLedger) SignatureStatus(ctx context.Context, sig string) (*SignatureStatus, error) {
	s := strings.TrimSpace(sig)
	if s == "" {
		return nil, errors.New("solana rpc: signature is empty")
	}
	statuses, err := l.rpc.GetSignatureStatuses(ctx, []string{s})
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 || statuses[0] == nil {
		return nil, nil
	}
	st := statuses[0]
	out := &SignatureStatus{
		Slot:          st.Slot,
		Confirmations: st.Confirmations,
		Err:           st.Err,
	}
	if st.ConfirmationStatus != nil {
		out.ConfirmationStatus = *st.ConfirmationStatus
	}
	return out, nil
}

// TokenSupply reads the total supply of mint at confirmed commitment.
func (l *RPCLedger) TokenSupply(ctx context.Context, mint string) (client.TokenAmount, error) {
	m := strings.TrimSpace(mint)
	if m == "" {
		return client.TokenAmount{}, errors.New("solana rpc: mint is empty")
	}
	return l.rpc.GetTokenSupplyWithConfig(ctx, m, client.GetTokenSupplyConfig{Commitment: rpc.CommitmentConfirmed})
}

// AccountExists treats a funded account as existing. Nodes report missing
// accounts either as an empty value or as an error, depending on version.
func (l *RPCLedger) AccountExists(ctx context.Context, address string) (bool, error) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return false, nil
	}

	info, err := l.rpc.GetAccountInfo(ctx, addr)
	if err == nil {
		return info.Lamports > 0, nil
	}
	if isMissingAccount(err) {
		return false, nil
	}
	return false, fmt.Errorf("get account %s: %w", shortAddr(addr), err)
}

func isMissingAccount(err error) bool {
	var rpcErr *rpc.JsonRpcError
	if errors.As(err, &rpcErr) && rpcErr.Code == -32602 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "could not find account") ||
		strings.Contains(msg, "invalid param") ||
		strings.Contains(msg, "account does not exist")
}

func shortAddr(s string) string {
	t := strings.TrimSpace(s)
	if len(t) <= 10 {
		return t
	}
	return t[:4] + "***" + t[len(t)-4:]
}
