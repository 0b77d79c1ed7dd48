package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidUnitKind is returned when a unit kind is not one of the
	// recognized values.
	ErrInvalidUnitKind = errors.New("invalid unit kind")

	// ErrInvalidChallengeType is returned when a challenge type is not valid.
	ErrInvalidChallengeType = errors.New("invalid challenge type")

	// ErrInvalidRequirementKind is returned when a challenge requirement
	// kind is not one of the closed set of variants.
	ErrInvalidRequirementKind = errors.New("invalid requirement kind")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
