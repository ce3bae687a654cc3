package errs

import "errors"

var ErrOrderNotPending = errors.New("order is not pending")
var ErrOrderNotFound = errors.New("order not found")
var ErrEmptyOrder = errors.New("order has no items")
var ErrParticipantNotFound = errors.New("participant not found")
var ErrNameAlreadyExists = errors.New("participant name already exists")
var ErrConcurrencyConflict = errors.New("concurrent settlement conflict")
