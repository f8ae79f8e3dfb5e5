package ports

import (
	"context"

	"github.com/drowwn/weNote/internal/core/domain"
)

type CategoryService interface {
	Create(ctx context.Context, name, description string) (*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id, name, description string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}
