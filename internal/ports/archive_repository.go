package ports

import (
	"context"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
)

type ArchiveRepository interface {
	Create(ctx context.Context, archive *domain.Archive) error
	GetByID(ctx context.Context, id string) (*domain.Archive, error)
	List(ctx context.Context, limit int) ([]*domain.Archive, error)
	Delete(ctx context.Context, id string) error
}
