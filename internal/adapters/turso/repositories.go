package turso

import (
	"database/sql"

	"github.com/emiliopalmerini/sprintsheet/internal/ports"
)

// Repositories holds the turso implementations as port interfaces.
type Repositories struct {
	Storage  ports.Storage
	Archives ports.ArchiveRepository
}

// NewRepositories creates all turso implementations from a database connection.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Storage:  NewKVStorage(db),
		Archives: NewArchiveRepository(db),
	}
}
