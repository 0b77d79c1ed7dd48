// Package events provides a lightweight in-process event system for
// progression milestones. Services emit an event when something worth
// reacting to happens (XP awarded, level gained, challenge completed)
// and handlers subscribe without the services knowing who listens.
//
// Emission is fire-and-forget from the caller's perspective: handler
// failures are logged and reported but never roll back the transaction
// that produced the milestone.
package events
