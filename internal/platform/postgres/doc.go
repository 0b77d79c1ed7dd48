// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store.
//
// Every store holds a store.DBTX, so the same implementation works over
// a *sql.DB or, via WithTx, over a *sql.Tx managed by a service. Errors
// from the driver are translated to the store package's sentinel errors
// through MapError so callers never see pgconn details.
package postgres
