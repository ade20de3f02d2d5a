// Package store defines the interfaces for data persistence. They keep
// the request handlers independent of the concrete database technology;
// the PostgreSQL implementations live in internal/platform/postgres.
package store
