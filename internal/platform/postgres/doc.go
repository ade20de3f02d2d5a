// Package postgres contains the PostgreSQL implementations of the
// interfaces defined in internal/store. All SQL lives here; handlers
// never see a query string.
package postgres
