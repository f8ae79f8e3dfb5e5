package ports

import (
	"context"

	"github.com/drowwn/weNote/internal/core/domain"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id, name, description string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}
