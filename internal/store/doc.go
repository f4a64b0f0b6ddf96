// Package store provides abstractions for data persistence.
//
// It defines the storage interfaces consumed by the service layer, the DBTX
// abstraction that lets implementations run against either a connection or a
// transaction, the RunInTransaction helper that gives the session
// orchestrator its all-or-nothing guarantee, and the shared error taxonomy
// implementations map database failures onto.
package store
