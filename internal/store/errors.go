package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrLearnerNotFound, ErrUnitNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a learner with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update operation fails, for example
	// because the entity does not exist or the update violates constraints.
	ErrUpdateFailed = errors.New("update failed")

	// ErrDeleteFailed is returned when a delete operation fails, for example
	// because the entity does not exist or is referenced by other entities.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrLearnerNotFound indicates that the requested learner does not exist in the store.
	ErrLearnerNotFound = fmt.Errorf("%w: learner", ErrNotFound)

	// ErrUnitNotFound indicates that the requested learning unit does not exist in the store.
	ErrUnitNotFound = fmt.Errorf("%w: unit", ErrNotFound)

	// ErrProgressNotFound indicates that the learner has no progress record for the unit.
	ErrProgressNotFound = fmt.Errorf("%w: progress record", ErrNotFound)

	// ErrChallengeNotFound indicates that the requested challenge does not exist in the store.
	ErrChallengeNotFound = fmt.Errorf("%w: challenge", ErrNotFound)

	// ErrChallengeProgressNotFound indicates that the learner has no progress
	// row for the challenge in the requested period.
	ErrChallengeProgressNotFound = fmt.Errorf("%w: challenge progress", ErrNotFound)

	// ErrGoalNotFound indicates that the requested savings goal does not exist in the store.
	ErrGoalNotFound = fmt.Errorf("%w: savings goal", ErrNotFound)

	// ErrBudgetTableNotFound indicates that the learner has no saved budget
	// table for the requested scenario.
	ErrBudgetTableNotFound = fmt.Errorf("%w: budget table", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a learner with the given email already exists.
	// This is returned when attempting to register with an email that's already in use.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// This includes the generic ErrNotFound and all entity-specific not found errors.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
// This includes the generic ErrDuplicate and all entity-specific duplicate errors.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "learner", "challenge")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
