package invoice

import "errors"

var (
	// ErrNotFound is returned when an invoice does not exist or is not
	// owned by the requesting user. The two cases are deliberately
	// indistinguishable to callers.
	ErrNotFound = errors.New("invoice not found")

	// ErrNumberConflict signals that an insert lost the race on the
	// invoice_number unique constraint. Creation retries on it.
	ErrNumberConflict = errors.New("invoice number already taken")
)
