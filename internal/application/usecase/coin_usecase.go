// internal/application/usecase/coin_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"memecoin/internal/domain/coin"
)

const journalWriteTimeout = 5 * time.Second

// IssueCoinInput is one user submission: coin fields plus the raw image.
type IssueCoinInput struct {
	Name          string `validate:"nonblank,maxbytes=32"`
	Symbol        string `validate:"nonblank,maxbytes=10"`
	Description   string `validate:"nonblank"`
	Image         []byte `validate:"required"`
	ImageFileName string
	MimeType      string
	Supply        uint64 `validate:"gt=0"`
}

// CoinUsecase runs the issuance pipeline:
// validate -> upload image -> build metadata -> upload metadata -> mint.
// There is no retry and no compensation; uploaded artifacts stay pinned.
type CoinUsecase struct {
	storage       coin.StoragePort
	builder       *TokenMetadataBuilder
	minter        coin.MintPort
	cost          coin.CostPort
	journal       coin.JournalPort
	maxImageBytes int

	now   func() time.Time
	newID func() string
	log   *zap.Logger
}

// NewCoinUsecase wires the pipeline. journal may be nil.
func NewCoinUsecase(
	storage coin.StoragePort,
	minter coin.MintPort,
	cost coin.CostPort,
	journal coin.JournalPort,
	maxImageBytes int,
) *CoinUsecase {
	return &CoinUsecase{
		storage:       storage,
		builder:       NewTokenMetadataBuilder(),
		minter:        minter,
		cost:          cost,
		journal:       journal,
		maxImageBytes: maxImageBytes,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         uuid.NewString,
		log:           zap.L().Named("coin"),
	}
}

// ValidateIssueInput checks a submission without side effects.
func (u *CoinUsecase) ValidateIssueInput(in IssueCoinInput) error {
	if err := coin.ValidateStruct(in); err != nil {
		return err
	}
	if in.Supply > coin.MaxInitialSupply {
		return coin.Validationf("supply must be at most %d", coin.MaxInitialSupply)
	}
	if u.maxImageBytes > 0 && len(in.Image) > u.maxImageBytes {
		return coin.Validationf("image is %d bytes; the limit is %d bytes", len(in.Image), u.maxImageBytes)
	}
	return nil
}

// IssueCoin validates in before any network call, then runs the stages in
// order. The first failure is returned as *coin.StageError. Cancelling ctx
// after validation does not abort the run.
func (u *CoinUsecase) IssueCoin(ctx context.Context, in IssueCoinInput) (*coin.MintResult, error) {
	in = normalizeIssueInput(in)
	if err := u.ValidateIssueInput(in); err != nil {
		return nil, err
	}

	rec := coin.IssuanceRecord{
		ID:     u.newID(),
		Name:   in.Name,
		Symbol: in.Symbol,
		Supply: in.Supply,
	}
	log := u.log.With(zap.String("runId", rec.ID), zap.String("symbol", in.Symbol))
	log.Info("issuance started", zap.Uint64("supply", in.Supply), zap.Int("imageBytes", len(in.Image)))

	// A started run is never cancelled by the caller; transport timeouts and
	// the confirmation deadline bound it.
	res, err := u.run(context.WithoutCancel(ctx), in, &rec, log)
	if err != nil {
		stage, _ := coin.StageOf(err)
		rec.FailedStage = string(stage)
		rec.Error = err.Error()
		var unconfirmed *coin.UnconfirmedError
		if errors.As(err, &unconfirmed) {
			rec.MintAddress = unconfirmed.MintAddress
			rec.Signature = unconfirmed.Signature
		}
		log.Error("issuance failed", zap.String("stage", rec.FailedStage), zap.Error(err))
	} else {
		rec.MintAddress = res.MintAddress
		rec.Signature = res.Signature
		log.Info("issuance completed", zap.String("mint", res.MintAddress))
	}

	u.record(ctx, rec, log)
	return res, err
}

func (u *CoinUsecase) run(ctx context.Context, in IssueCoinInput, rec *coin.IssuanceRecord, log *zap.Logger) (*coin.MintResult, error) {
	imageURI, err := u.storage.UploadBinary(ctx, coin.AssetUploadRequest{
		Data:     in.Image,
		FileName: in.ImageFileName,
		MimeType: in.MimeType,
	})
	if err != nil {
		return nil, &coin.StageError{Stage: coin.StageUploadImage, Err: err}
	}
	rec.ImageURI = imageURI
	log.Info("image uploaded", zap.String("uri", imageURI))

	doc, err := u.builder.Build(MetadataInput{
		Name:        in.Name,
		Symbol:      in.Symbol,
		Description: in.Description,
		ImageURI:    imageURI,
		MimeType:    in.MimeType,
	})
	if err != nil {
		return nil, &coin.StageError{Stage: coin.StageBuildMetadata, Err: err}
	}

	metadataURI, err := u.storage.UploadDocument(ctx, doc, MetadataFileName(in.Name))
	if err != nil {
		return nil, &coin.StageError{Stage: coin.StageUploadMetadata, Err: err}
	}
	rec.MetadataURI = metadataURI
	log.Info("metadata uploaded", zap.String("uri", metadataURI))

	req, err := coin.NewMintRequest(in.Name, in.Symbol, metadataURI, in.Supply)
	if err != nil {
		return nil, &coin.StageError{Stage: coin.StageMint, Err: err}
	}
	res, err := u.minter.Issue(ctx, req)
	if err != nil {
		return nil, &coin.StageError{Stage: coin.StageMint, Err: err}
	}
	return res, nil
}

// record hands the outcome to the journal. Its failures never change the
// pipeline result.
func (u *CoinUsecase) record(ctx context.Context, rec coin.IssuanceRecord, log *zap.Logger) {
	if u.journal == nil {
		return
	}
	rec.CreatedAt = u.now()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalWriteTimeout)
	defer cancel()
	if err := u.journal.Record(ctx, rec); err != nil {
		log.Warn("journal write failed", zap.Error(err))
	}
}

// ObserveCoin reports the ledger state of a previously issued coin.
func (u *CoinUsecase) ObserveCoin(ctx context.Context, mintAddress string) (*coin.Observation, error) {
	addr := strings.TrimSpace(mintAddress)
	if !coin.IsValidAddress(addr) {
		return nil, coin.Validationf("invalid mint address %q", mintAddress)
	}
	return u.minter.Observe(ctx, addr)
}

// EstimateCost is advisory and has no side effects.
func (u *CoinUsecase) EstimateCost(ctx context.Context) (decimal.Decimal, error) {
	if u.cost == nil {
		return decimal.Zero, errors.New("cost estimator is not configured")
	}
	return u.cost.Estimate(ctx)
}

func (u *CoinUsecase) RecentIssuances(ctx context.Context, limit int) ([]coin.IssuanceRecord, error) {
	if u.journal == nil {
		return nil, coin.ErrJournalDisabled
	}
	return u.journal.Recent(ctx, limit)
}

func (u *CoinUsecase) GetIssuance(ctx context.Context, id string) (*coin.IssuanceRecord, error) {
	if u.journal == nil {
		return nil, coin.ErrJournalDisabled
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, coin.ErrNotFound
	}
	return u.journal.Get(ctx, id)
}

func normalizeIssueInput(in IssueCoinInput) IssueCoinInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Symbol = strings.TrimSpace(in.Symbol)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageFileName = strings.TrimSpace(in.ImageFileName)
	in.MimeType = strings.TrimSpace(in.MimeType)
	if in.ImageFileName == "" {
		in.ImageFileName = "image"
	}
	return in
}
