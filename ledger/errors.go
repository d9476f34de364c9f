package ledger

import (
	"errors"
	"fmt"
)

// ErrInsufficientFunds means the upload was refused because the wallet
// balance on the node is too low. Retryable after a funding pass.
var ErrInsufficientFunds = errors.New("insufficient ledger balance for upload")

// UploadError wraps a failed upload. StatusUnknown is set when the
// request was transmitted but no response arrived (timeout, dropped
// connection); the transaction may still land, so callers should
// re-verify by id instead of blindly retrying.
type UploadError struct {
	StatusUnknown bool
	Err           error
}

func (e *UploadError) Error() string {
	if e.StatusUnknown {
		return fmt.Sprintf("ledger upload status unknown: %v", e.Err)
	}
	return fmt.Sprintf("ledger upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// FundingError means a funding transaction could not be submitted or
// confirmed. Fatal for subsequent uploads until an operator intervenes.
type FundingError struct {
	StatusUnknown bool
	Err           error
}

func (e *FundingError) Error() string {
	if e.StatusUnknown {
		return fmt.Sprintf("ledger funding status unknown: %v", e.Err)
	}
	return fmt.Sprintf("ledger funding failed: %v", e.Err)
}

func (e *FundingError) Unwrap() error { return e.Err }
