package coin

import (
	"errors"
	"fmt"
)

// Error categories. Callers match them with errors.Is; the concrete cause is
// wrapped alongside.
var (
	ErrValidation      = errors.New("validation error")
	ErrUploadFailed    = errors.New("upload failed")
	ErrMintFailed      = errors.New("mint failed")
	ErrConfiguration   = errors.New("configuration error")
	ErrNotFound        = errors.New("not found")
	ErrJournalDisabled = errors.New("issuance journal is not configured")
)

// Validationf builds a caller-fixable validation error.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Configurationf builds a startup configuration error.
func Configurationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// UploadFailure wraps a storage cause with ErrUploadFailed.
func UploadFailure(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrUploadFailed, op, cause)
}

// MintFailure wraps a ledger cause with ErrMintFailed, naming the ledger step.
func MintFailure(step string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrMintFailed, step, cause)
}

// Stage names a pipeline step.
type Stage string

const (
	StageUploadImage    Stage = "upload-image"
	StageBuildMetadata  Stage = "build-metadata"
	StageUploadMetadata Stage = "upload-metadata"
	StageMint           Stage = "mint"
)

// StageError tags the first failure of a pipeline run with the stage that
// produced it. Err is left unchanged.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StageOf returns the failed stage carried by err, if any.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// UnconfirmedError describes a submitted issuance whose transaction did not
// reach confirmation. The mint may still exist on the ledger.
type UnconfirmedError struct {
	MintAddress string
	Signature   string
	Err         error
}

func (e *UnconfirmedError) Error() string {
	return fmt.Sprintf("mint %s signature %s: %v", e.MintAddress, e.Signature, e.Err)
}

func (e *UnconfirmedError) Unwrap() error { return e.Err }
