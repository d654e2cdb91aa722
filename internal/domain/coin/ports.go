package coin

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ========================================
// Ports (implemented in infra)
// ========================================

// StoragePort pins blobs and metadata documents to a content-addressed store.
// Implementations never retry and return a gateway-resolvable URI.
type StoragePort interface {
	UploadBinary(ctx context.Context, req AssetUploadRequest) (string, error)
	UploadDocument(ctx context.Context, doc MetadataDocument, fileName string) (string, error)
}

// MintPort issues a coin on the ledger with the service identity.
type MintPort interface {
	Issue(ctx context.Context, req MintRequest) (*MintResult, error)
	Observe(ctx context.Context, mintAddress string) (*Observation, error)
}

// CostPort reports the advisory fee, in SOL, of one issuance.
type CostPort interface {
	Estimate(ctx context.Context) (decimal.Decimal, error)
}

// JournalPort stores the final outcome of pipeline runs.
type JournalPort interface {
	Record(ctx context.Context, rec IssuanceRecord) error
	Get(ctx context.Context, id string) (*IssuanceRecord, error)
	Recent(ctx context.Context, limit int) ([]IssuanceRecord, error)
}

// IssuanceRecord is written once per pipeline run, after it finished.
type IssuanceRecord struct {
	ID          string    `json:"id" firestore:"id"`
	Name        string    `json:"name" firestore:"name"`
	Symbol      string    `json:"symbol" firestore:"symbol"`
	Supply      uint64    `json:"supply" firestore:"supply"`
	ImageURI    string    `json:"imageUri,omitempty" firestore:"imageUri"`
	MetadataURI string    `json:"metadataUri,omitempty" firestore:"metadataUri"`
	MintAddress string    `json:"mintAddress,omitempty" firestore:"mintAddress"`
	Signature   string    `json:"signature,omitempty" firestore:"signature"`
	FailedStage string    `json:"failedStage,omitempty" firestore:"failedStage"`
	Error       string    `json:"error,omitempty" firestore:"error"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
}

// Succeeded reports whether the run produced a coin.
func (r IssuanceRecord) Succeeded() bool {
	return r.FailedStage == "" && r.Error == "" && r.MintAddress != ""
}
