package volunteer

import (
	"context"

	"bountyhub/internal/common"
)

type Repository interface {
	// Create relies on the storage-level (question_id, user_id) uniqueness
	// constraint; a duplicate surfaces as a conflict error, never as a crash.
	Create(ctx context.Context, r Request) (*Request, error)
	ListByQuestion(ctx context.Context, questionID common.UUID) ([]Request, error)
	FindByQuestionAndUser(ctx context.Context, questionID, userID common.UUID) (*Request, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status) (*Request, error)
}
