package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidFilter indicates a filter that fails the closed
	// field/operator schema. Plans carrying one fail closed.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrPlannerUnavailable indicates no planner is configured.
	ErrPlannerUnavailable = errors.New("planner unavailable")

	// ErrPlanFailedClosed indicates an attempt to execute a plan that
	// failed closed during compilation.
	ErrPlanFailedClosed = errors.New("plan failed closed")

	// ErrStoreUnavailable indicates the index store is not configured
	// or cannot be opened.
	ErrStoreUnavailable = errors.New("index store unavailable")
)
