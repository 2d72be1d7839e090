package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/task-tracker-api/internal/domain"
)

// DB is the shared state behind the memory stores. A UserStore and a
// TaskStore built on the same DB see each other's data, mirroring two
// tables in one database.
type DB struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
	tasks map[uuid.UUID]domain.Task
}

// NewDB creates an empty DB.
func NewDB() *DB {
	return &DB{
		users: make(map[uuid.UUID]domain.User),
		tasks: make(map[uuid.UUID]domain.Task),
	}
}
