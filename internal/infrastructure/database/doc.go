// Package database provides the SQLite connection and schema migrations
// for Conduit Core.
//
// The DB wrapper opens the database with WAL mode and busy-timeout pragmas,
// restricts file permissions, and applies embedded SQL migrations at
// startup. Repositories in the domain packages receive the underlying
// *sql.DB; this package owns only connection lifecycle and schema.
package database
