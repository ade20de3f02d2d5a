package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskOwnerEmpty is returned when a task's owner ID is empty or nil.
	ErrTaskOwnerEmpty = errors.New("task owner ID cannot be empty")

	// ErrTaskDescriptionEmpty is returned when a task's description is empty.
	ErrTaskDescriptionEmpty = errors.New("task description cannot be empty")
)

// Task represents a single to-do item belonging to a user.
// The owner is stamped once at creation and is never reassigned;
// Picture, when set, always holds a normalized 250x250 PNG.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Picture     []byte    `json:"-"` // Served through the picture endpoint, never inlined in JSON
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user.
// It generates a new UUID for the task ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, description string, completed bool) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Description: description,
		Completed:   completed,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.OwnerID == uuid.Nil {
		return ErrTaskOwnerEmpty
	}

	if t.Description == "" {
		return ErrTaskDescriptionEmpty
	}

	return nil
}

// SetDescription updates the task's description and bumps the UpdatedAt
// timestamp. Returns an error if the new description is invalid.
func (t *Task) SetDescription(description string) error {
	orig := t.Description
	t.Description = description

	if err := t.Validate(); err != nil {
		t.Description = orig
		return err
	}

	t.UpdatedAt = time.Now().UTC()
	return nil
}

// SetCompleted updates the task's completion flag and bumps the
// UpdatedAt timestamp.
func (t *Task) SetCompleted(completed bool) {
	t.Completed = completed
	t.UpdatedAt = time.Now().UTC()
}

// AttachPicture stores normalized PNG bytes on the task and bumps the
// UpdatedAt timestamp. The caller is responsible for normalization.
func (t *Task) AttachPicture(png []byte) {
	t.Picture = png
	t.UpdatedAt = time.Now().UTC()
}

// RemovePicture clears the task's picture without touching any other
// field except the UpdatedAt timestamp.
func (t *Task) RemovePicture() {
	t.Picture = nil
	t.UpdatedAt = time.Now().UTC()
}

// HasPicture reports whether the task currently carries an image.
func (t *Task) HasPicture() bool {
	return len(t.Picture) > 0
}
