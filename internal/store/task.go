package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/domain"
)

// SortField names a task column that listing may order by. Values
// outside this set are inert: the query runs unordered rather than
// failing.
type SortField string

// Sortable task fields, keyed by their wire names.
const (
	SortByCreatedAt   SortField = "createdAt"
	SortByUpdatedAt   SortField = "updatedAt"
	SortByDescription SortField = "description"
	SortByCompleted   SortField = "completed"
)

// ListQuery carries the optional filter, window and ordering of a task
// listing. Nil pointer fields mean "unset": no filter and no bound,
// never zero.
type ListQuery struct {
	// Completed, when non-nil, restricts results to tasks whose
	// completed flag equals the pointed-to value.
	Completed *bool

	// Limit and Skip bound the page window. Unset means unbounded.
	Limit *int
	Skip  *int

	// SortBy orders results when it names a sortable field; unknown
	// names are ignored. SortDesc selects descending order.
	SortBy   SortField
	SortDesc bool
}

// TaskStore defines the interface for task persistence. Every lookup
// that mutates or reads private state is scoped to an owner; only
// GetByID is unscoped, serving the public picture read.
type TaskStore interface {
	// Create saves a new task. It runs domain validation first and
	// returns the validation error wrapped in ErrInvalidEntity when the
	// data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetForOwner retrieves a task by ID, scoped to the given owner.
	// Returns ErrTaskNotFound whether the task is absent or owned by
	// someone else.
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// GetByID retrieves a task by ID with no owner scoping. Used only
	// by the public picture endpoint.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListForOwner returns the owner's tasks filtered, ordered and
	// windowed per the query. An empty result is an empty slice, not an
	// error.
	ListForOwner(ctx context.Context, ownerID uuid.UUID, q ListQuery) ([]*domain.Task, error)

	// Update persists the full state of an existing task (including its
	// picture column). It re-runs domain validation before writing.
	// Returns ErrTaskNotFound if the task no longer exists.
	Update(ctx context.Context, task *domain.Task) error

	// DeleteForOwner atomically locates and removes a task scoped to
	// the owner, returning the deleted row's snapshot.
	// Returns ErrTaskNotFound if no owned task matches.
	DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)
}
