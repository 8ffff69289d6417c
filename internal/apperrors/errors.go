package apperrors

import "errors"

// ErrNotFound indicates that a requested account or record could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks
// (non-positive amounts, malformed PINs, negative initial balances).
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an account with the same email already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrOverdraft indicates that a debit was rejected because it would drive
// the account balance negative. No state is changed when this is returned.
var ErrOverdraft = errors.New("overdraft rejected")

// ErrNoSession indicates that a session-scoped operation was invoked without
// an authenticated account.
var ErrNoSession = errors.New("no authenticated session")

// ErrAuthFailed indicates that an email/PIN combination did not match any
// account, or that the old PIN supplied for a PIN change was incorrect.
var ErrAuthFailed = errors.New("authentication failed")
