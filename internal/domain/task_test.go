package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("creates a valid task", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(ownerID, "water the plants", true)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, ownerID, task.OwnerID)
		assert.Equal(t, "water the plants", task.Description)
		assert.True(t, task.Completed)
		assert.False(t, task.HasPicture())
		assert.False(t, task.CreatedAt.IsZero())
	})

	t.Run("rejects empty description", func(t *testing.T) {
		t.Parallel()

		_, err := NewTask(ownerID, "", false)
		assert.ErrorIs(t, err, ErrTaskDescriptionEmpty)
	})

	t.Run("rejects nil owner", func(t *testing.T) {
		t.Parallel()

		_, err := NewTask(uuid.Nil, "orphan task", false)
		assert.ErrorIs(t, err, ErrTaskOwnerEmpty)
	})
}

func TestTaskSetDescription(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.New(), "original", false)
	require.NoError(t, err)
	before := task.UpdatedAt

	time.Sleep(time.Millisecond)
	require.NoError(t, task.SetDescription("updated"))
	assert.Equal(t, "updated", task.Description)
	assert.True(t, task.UpdatedAt.After(before))

	// A failed update leaves the previous value in place.
	err = task.SetDescription("")
	assert.ErrorIs(t, err, ErrTaskDescriptionEmpty)
	assert.Equal(t, "updated", task.Description)
}

func TestTaskPictureLifecycle(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.New(), "photogenic task", false)
	require.NoError(t, err)
	require.False(t, task.HasPicture())

	task.AttachPicture([]byte{1, 2, 3})
	assert.True(t, task.HasPicture())

	task.RemovePicture()
	assert.False(t, task.HasPicture())
	assert.Nil(t, task.Picture)
}
