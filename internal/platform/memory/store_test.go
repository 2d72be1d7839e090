package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-tracker-api/internal/domain"
	"github.com/phrazzld/task-tracker-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, username, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, email, "hash", "Full Name", "other")
	require.NoError(t, err)
	return user
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(NewDB(), nil)

	alice := newUser(t, "alice", "a@x.io")
	require.NoError(t, users.Create(ctx, alice))

	t.Run("lookups", func(t *testing.T) {
		got, err := users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)

		got, err = users.GetByEmail(ctx, "a@x.io")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)

		_, err = users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		_, err = users.GetByEmail(ctx, "A@X.IO")
		assert.ErrorIs(t, err, store.ErrUserNotFound, "email match is exact")
	})

	t.Run("duplicates", func(t *testing.T) {
		tests := []struct {
			username, email, field string
		}{
			{"alice2", "a@x.io", store.FieldEmail},
			{"alice", "other@x.io", store.FieldUsername},
			{"alice", "a@x.io", store.FieldEmail},
		}
		for _, tt := range tests {
			err := users.Create(ctx, newUser(t, tt.username, tt.email))
			var dupErr *store.DuplicateError
			require.ErrorAs(t, err, &dupErr)
			assert.Equal(t, tt.field, dupErr.Field)
		}
	})

	t.Run("find by username or email", func(t *testing.T) {
		bob := newUser(t, "bob", "b@x.io")
		require.NoError(t, users.Create(ctx, bob))

		got, err := users.FindByUsernameOrEmail(ctx, "alice", "")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)

		got, err = users.FindByUsernameOrEmail(ctx, "", "b@x.io")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, got.ID)

		got, err = users.FindByUsernameOrEmail(ctx, "alice", "b@x.io")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, got.ID, "email match wins")

		_, err = users.FindByUsernameOrEmail(ctx, "", "")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStoreConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(NewDB(), nil)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := domain.NewUser(fmt.Sprintf("user%d", i), "same@x.io", "hash", "Name", "other")
			if err != nil {
				errs <- err
				return
			}
			errs <- users.Create(ctx, user)
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, store.ErrDuplicate)
	}
	assert.Equal(t, 1, succeeded)
}

func seedTasks(t *testing.T, tasks *TaskStore, userID uuid.UUID, n int) []*domain.Task {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*domain.Task, 0, n)
	for i := 0; i < n; i++ {
		task, err := domain.NewTask(userID, fmt.Sprintf("task %02d", i), "details", "")
		require.NoError(t, err)
		task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		task.UpdatedAt = task.CreatedAt
		require.NoError(t, tasks.Create(context.Background(), task))
		out = append(out, task)
	}
	return out
}

func TestTaskStore(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	users := NewUserStore(db, nil)
	tasks := NewTaskStore(db, nil)

	alice := newUser(t, "alice", "a@x.io")
	bob := newUser(t, "bob", "b@x.io")
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))

	created := seedTasks(t, tasks, alice.ID, 25)

	t.Run("pagination newest first", func(t *testing.T) {
		page, total, err := tasks.List(ctx, alice.ID, store.TaskFilter{Offset: 10, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		require.Len(t, page, 10)
		for i, task := range page {
			assert.Equal(t, created[14-i].ID, task.ID)
		}

		page, total, err = tasks.List(ctx, alice.ID, store.TaskFilter{Offset: 30, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		assert.Empty(t, page)
	})

	t.Run("ties broken by id descending", func(t *testing.T) {
		carol := newUser(t, "carol", "c@x.io")
		require.NoError(t, users.Create(ctx, carol))

		at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		var ids []string
		for i := 0; i < 3; i++ {
			task, err := domain.NewTask(carol.ID, "same time", "d", "")
			require.NoError(t, err)
			task.CreatedAt = at
			require.NoError(t, tasks.Create(ctx, task))
			ids = append(ids, task.ID.String())
		}

		page, _, err := tasks.List(ctx, carol.ID, store.TaskFilter{Limit: 10})
		require.NoError(t, err)
		require.Len(t, page, 3)
		assert.Greater(t, page[0].ID.String(), page[1].ID.String())
		assert.Greater(t, page[1].ID.String(), page[2].ID.String())
	})

	t.Run("ownership isolation", func(t *testing.T) {
		_, total, err := tasks.List(ctx, bob.ID, store.TaskFilter{Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, total)

		_, err = tasks.GetByID(ctx, bob.ID, created[0].ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		stolen := *created[0]
		stolen.UserID = bob.ID
		assert.ErrorIs(t, tasks.Update(ctx, &stolen), store.ErrTaskNotFound)
		assert.ErrorIs(t, tasks.Delete(ctx, bob.ID, created[0].ID), store.ErrTaskNotFound)

		got, err := tasks.GetByID(ctx, alice.ID, created[0].ID)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.UserID)
	})

	t.Run("filter by status and search", func(t *testing.T) {
		special, err := domain.NewTask(alice.ID, "Buy MILK", "from the store", domain.TaskStatusCompleted)
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, special))

		page, total, err := tasks.List(ctx, alice.ID, store.TaskFilter{Search: "milk", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, special.ID, page[0].ID)

		_, total, err = tasks.List(ctx, alice.ID, store.TaskFilter{Search: "STORE", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total, "description is searched too")

		_, total, err = tasks.List(ctx, alice.ID, store.TaskFilter{Status: domain.TaskStatusCompleted, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		_, total, err = tasks.List(ctx, alice.ID, store.TaskFilter{Status: "archived", Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, total)

		_, total, err = tasks.List(ctx, alice.ID, store.TaskFilter{Search: "%", Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, total, "wildcards are literal")
	})

	t.Run("update and delete", func(t *testing.T) {
		task := created[3]
		title := "renamed"
		require.NoError(t, task.ApplyUpdate(&title, nil, nil))
		require.NoError(t, tasks.Update(ctx, task))

		got, err := tasks.GetByID(ctx, alice.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)

		require.NoError(t, tasks.Delete(ctx, alice.ID, task.ID))
		_, err = tasks.GetByID(ctx, alice.ID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("returned tasks are copies", func(t *testing.T) {
		got, err := tasks.GetByID(ctx, alice.ID, created[5].ID)
		require.NoError(t, err)
		got.Title = "mutated"

		again, err := tasks.GetByID(ctx, alice.ID, created[5].ID)
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", again.Title)
	})

	t.Run("create requires existing owner", func(t *testing.T) {
		orphan, err := domain.NewTask(uuid.New(), "t", "d", "")
		require.NoError(t, err)
		assert.ErrorIs(t, tasks.Create(ctx, orphan), store.ErrUserNotFound)
	})
}

// deleteUser removes a user and every task they own, like ON DELETE CASCADE.
func (db *DB) deleteUser(id uuid.UUID) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[id]; !ok {
		return false
	}
	delete(db.users, id)
	for taskID, task := range db.tasks {
		if task.UserID == id {
			delete(db.tasks, taskID)
		}
	}
	return true
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	users := NewUserStore(db, nil)
	tasks := NewTaskStore(db, nil)

	alice := newUser(t, "alice", "a@x.io")
	require.NoError(t, users.Create(ctx, alice))
	seedTasks(t, tasks, alice.ID, 3)

	assert.True(t, db.deleteUser(alice.ID))
	assert.False(t, db.deleteUser(alice.ID))

	_, total, err := tasks.List(ctx, alice.ID, store.TaskFilter{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}
