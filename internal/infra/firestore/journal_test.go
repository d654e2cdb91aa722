package firestoreinfra

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memecoin/internal/domain/coin"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, ClampLimit(0))
	assert.Equal(t, 20, ClampLimit(-3))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, 100, ClampLimit(1000))
}

func TestJournalDisabledWithoutClient(t *testing.T) {
	j := NewIssuanceJournal(nil, "")
	assert.Equal(t, DefaultCollection, j.Collection)

	assert.ErrorIs(t, j.Record(t.Context(), coin.IssuanceRecord{ID: "x"}), coin.ErrJournalDisabled)
	_, err := j.Get(t.Context(), "x")
	assert.ErrorIs(t, err, coin.ErrJournalDisabled)
	_, err = j.Recent(t.Context(), 5)
	assert.ErrorIs(t, err, coin.ErrJournalDisabled)
}

// Runs against the Firestore emulator when FIRESTORE_EMULATOR_HOST is set.
func TestJournalEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := NewClient(t.Context(), "memecoin-test", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	j := NewIssuanceJournal(client, fmt.Sprintf("issuances_%d", time.Now().UnixNano()))

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ok := coin.IssuanceRecord{ID: uuid.NewString(), Name: "DogeClone", Symbol: "DOGE2", Supply: 1_000_000, MintAddress: "So11111111111111111111111111111111111111112", CreatedAt: base}
	failed := coin.IssuanceRecord{ID: uuid.NewString(), Name: "Nope", Symbol: "NO", Supply: 1, FailedStage: string(coin.StageMint), Error: "mint: timeout", CreatedAt: base.Add(time.Minute)}

	require.NoError(t, j.Record(t.Context(), ok))
	require.NoError(t, j.Record(t.Context(), failed))
	assert.Error(t, j.Record(t.Context(), ok), "records are written once")

	got, err := j.Get(t.Context(), ok.ID)
	require.NoError(t, err)
	assert.True(t, got.Succeeded())
	assert.Equal(t, ok.MintAddress, got.MintAddress)

	_, err = j.Get(t.Context(), uuid.NewString())
	assert.ErrorIs(t, err, coin.ErrNotFound)

	recent, err := j.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, failed.ID, recent[0].ID)
	assert.False(t, recent[0].Succeeded())
}
