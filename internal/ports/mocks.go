package ports

import (
	"context"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
)

// MockArchiveRepository is a mock implementation of ArchiveRepository for testing.
type MockArchiveRepository struct {
	CreateFunc  func(ctx context.Context, archive *domain.Archive) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Archive, error)
	ListFunc    func(ctx context.Context, limit int) ([]*domain.Archive, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockArchiveRepository) Create(ctx context.Context, archive *domain.Archive) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, archive)
	}
	return nil
}

func (m *MockArchiveRepository) GetByID(ctx context.Context, id string) (*domain.Archive, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrArchiveNotFound
}

func (m *MockArchiveRepository) List(ctx context.Context, limit int) ([]*domain.Archive, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}
	return []*domain.Archive{}, nil
}

func (m *MockArchiveRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockMetricsExporter is a mock implementation of MetricsExporter for testing.
type MockMetricsExporter struct {
	ExportArchiveFunc func(ctx context.Context, archive *domain.Archive) error
	CloseFunc         func(ctx context.Context) error
}

func (m *MockMetricsExporter) ExportArchive(ctx context.Context, archive *domain.Archive) error {
	if m.ExportArchiveFunc != nil {
		return m.ExportArchiveFunc(ctx, archive)
	}
	return nil
}

func (m *MockMetricsExporter) Close(ctx context.Context) error {
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx)
	}
	return nil
}
