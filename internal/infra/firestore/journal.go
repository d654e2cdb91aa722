// internal/infra/firestore/journal.go
package firestoreinfra

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"memecoin/internal/domain/coin"
)

const (
	DefaultCollection = "coin_issuances"

	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// NewClient opens a Firestore client. With an empty credentialsFile it falls
// back to application default credentials.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	zap.L().Named("firestore").Info("firestore connected", zap.String("project", projectID))
	return client, nil
}

// IssuanceJournal keeps one document per pipeline run, keyed by run ID.
type IssuanceJournal struct {
	Client     *firestore.Client
	Collection string
}

var _ coin.JournalPort = (*IssuanceJournal)(nil)

func NewIssuanceJournal(client *firestore.Client, collection string) *IssuanceJournal {
	c := strings.TrimSpace(collection)
	if c == "" {
		c = DefaultCollection
	}
	return &IssuanceJournal{Client: client, Collection: c}
}

func (j *IssuanceJournal) col() (*firestore.CollectionRef, error) {
	if j == nil || j.Client == nil {
		return nil, coin.ErrJournalDisabled
	}
	return j.Client.Collection(j.Collection), nil
}

// Record writes rec once. A second write with the same ID is rejected.
func (j *IssuanceJournal) Record(ctx context.Context, rec coin.IssuanceRecord) error {
	col, err := j.col()
	if err != nil {
		return err
	}
	if strings.TrimSpace(rec.ID) == "" {
		return coin.Validationf("issuance record id is required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	if _, err := col.Doc(rec.ID).Create(ctx, rec); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("issuance %s already recorded: %w", rec.ID, err)
		}
		return fmt.Errorf("record issuance %s: %w", rec.ID, err)
	}
	return nil
}

func (j *IssuanceJournal) Get(ctx context.Context, id string) (*coin.IssuanceRecord, error) {
	col, err := j.col()
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, coin.ErrNotFound
	}

	snap, err := col.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("issuance %s: %w", id, coin.ErrNotFound)
		}
		return nil, err
	}

	var rec coin.IssuanceRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("decode issuance %s: %w", id, err)
	}
	if rec.ID == "" {
		rec.ID = snap.Ref.ID
	}
	return &rec, nil
}

// Recent lists the newest records first.
func (j *IssuanceJournal) Recent(ctx context.Context, limit int) ([]coin.IssuanceRecord, error) {
	col, err := j.col()
	if err != nil {
		return nil, err
	}

	it := col.OrderBy("createdAt", firestore.Desc).Limit(ClampLimit(limit)).Documents(ctx)
	defer it.Stop()

	out := []coin.IssuanceRecord{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var rec coin.IssuanceRecord
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("decode issuance %s: %w", snap.Ref.ID, err)
		}
		if rec.ID == "" {
			rec.ID = snap.Ref.ID
		}
		out = append(out, rec)
	}
	return out, nil
}

// ClampLimit bounds a caller-supplied page size.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultRecentLimit
	case limit > maxRecentLimit:
		return maxRecentLimit
	default:
		return limit
	}
}
