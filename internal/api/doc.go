// Package api contains the HTTP handlers, request/response models and
// error mapping for the task management service. Handlers depend on
// store and service interfaces, never on concrete implementations, so
// tests can substitute lightweight fakes.
package api
