package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvoiceNotFound is returned when the target invoice does not exist
	// in the caller's clinic.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrPaymentNotFound is returned when the target payment record does not
	// exist in the caller's clinic.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrProductNotFound is returned when a line references a product the
	// clinic does not have.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned under the reject stock policy when a
	// decrement would drive stock negative. Retrying does not help.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrSignatureMismatch is returned when a gateway callback fails
	// verification. No payment is ever recorded from such a callback.
	ErrSignatureMismatch = errors.New("gateway signature verification failed")
)

// ValidationError reports bad input. Nothing was mutated; the request must be
// corrected, not retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ConflictError reports an atomic update that lost its race. Nothing was
// committed, so the whole operation is safe to retry once.
type ConflictError struct {
	Op  string
	Err error
}

func (e *ConflictError) Error() string { return fmt.Sprintf("%s: conflict: %v", e.Op, e.Err) }
func (e *ConflictError) Unwrap() error { return e.Err }

// GatewayError reports a payment-provider failure. The invoice is untouched.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return fmt.Sprintf("gateway %s: %v", e.Op, e.Err) }
func (e *GatewayError) Unwrap() error { return e.Err }

// StorageError reports an unreachable or failing store. Fatal for the current
// request; no fallback number or reservation is invented locally.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }
