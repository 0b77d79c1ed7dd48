// Package store defines the persistence interfaces for the application.
//
// Each entity gets its own store interface (LearnerStore, ProgressStore,
// ChallengeStore, ...) so that services depend only on the operations they
// need. Implementations live under internal/platform; services receive the
// interfaces and coordinate multi-store work with RunInTransaction and the
// per-store WithTx methods.
//
// All store methods return the sentinel errors declared in errors.go
// (ErrNotFound and its entity-specific variants, ErrDuplicate, and so on)
// so callers can branch with errors.Is without caring which backend
// produced the failure.
package store
