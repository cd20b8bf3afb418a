package commons

import "errors"

var ErrAccountNotFound = errors.New("Account not found")
var ErrInvalidAmount = errors.New("Amount must be a positive whole number")
var ErrSameAccountTransfer = errors.New("Sender and recipient accounts must differ")
var ErrInsufficientBalance = errors.New("Insufficient balance")

// ErrDuplicateReference is a storage-level uniqueness violation on the audit
// token. It is an anomaly of the attempt, not a business outcome; callers may
// retry the whole operation.
var ErrDuplicateReference = errors.New("Duplicate transaction reference")

// ErrRetryable covers lock-wait timeouts, deadlocks and cancelled statements
// surfaced by the store. The unit of work has rolled back; the whole
// operation may be retried.
var ErrRetryable = errors.New("Operation timed out, retry")
