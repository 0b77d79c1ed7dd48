// Package service contains the orchestration layer of the application.
//
// Services sit between the HTTP handlers and the stores: they load
// state, call the pure rules in internal/domain/progression and
// internal/domain/budget, and persist whatever those rules decide,
// wrapping every multi-store write in a single database transaction.
//
// All XP grants flow through the award ledger (store.XPAwardStore), so
// retrying any operation, submitting a quiz twice, or re-confirming a
// budget scenario never double-counts XP.
package service
