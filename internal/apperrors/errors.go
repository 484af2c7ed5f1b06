package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of the
// resource, typically because a concurrent caller got there first.
var ErrConflict = errors.New("conflicting state")

// ErrForbidden indicates that the acting member is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted for this member")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrPhaseViolation indicates that the owning period's phase does not permit the
// attempted operation. Recoverable: the caller can wait or pick another action.
var ErrPhaseViolation = errors.New("operation not permitted in current period phase")

// ErrReopenLimitExceeded indicates a period has exhausted its reopen budget.
// There is no override path.
var ErrReopenLimitExceeded = errors.New("period reopen limit exceeded")

// ErrIntegrity indicates a violated data invariant (orphaned movement pair,
// unbalanced household sum, double-reserved credit). Never silently corrected.
var ErrIntegrity = errors.New("data integrity violation")

// ErrStoreTransient indicates a transient infrastructure failure. Safe to retry
// for idempotent reads; writes must go through an idempotency key first.
var ErrStoreTransient = errors.New("transient store failure")
