package question

import (
	"context"

	"bountyhub/internal/common"
)

type Repository interface {
	Create(ctx context.Context, q Question) (*Question, error)
	GetByID(ctx context.Context, id common.UUID) (*Question, error)
	List(ctx context.Context, limit, offset int, category string) ([]Question, error)
	Update(ctx context.Context, id common.UUID, patch Update) (*Question, error)
	Delete(ctx context.Context, id common.UUID) error
}
