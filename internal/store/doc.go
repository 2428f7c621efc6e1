// Package store defines the persistence port of the service: the
// FlashcardStore interface, the DBTX abstraction shared by *sql.DB and
// *sql.Tx, transaction helpers and the store error vocabulary.
//
// Implementations live under internal/platform; the service layer depends
// only on this package.
package store
