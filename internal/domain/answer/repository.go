package answer

import (
	"context"

	"bountyhub/internal/common"
)

type Repository interface {
	// Create relies on the storage-level (question_id, author_id) uniqueness
	// constraint; a second answer by the same user surfaces as a conflict.
	Create(ctx context.Context, a Answer) (*Answer, error)
	GetByID(ctx context.Context, id common.UUID) (*Answer, error)
	// ListByQuestion returns the accepted answer first, then the rest in
	// chronological order.
	ListByQuestion(ctx context.Context, questionID common.UUID) ([]Answer, error)
	FindByQuestionAndAuthor(ctx context.Context, questionID, authorID common.UUID) (*Answer, error)
	// Accept atomically marks the answer accepted and moves the question from
	// open to answered. If the question already left open, or the answer is
	// already accepted, nothing is written and a conflict is returned.
	Accept(ctx context.Context, questionID, answerID common.UUID) (*Answer, error)
}
