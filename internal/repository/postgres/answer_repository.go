package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"bountyhub/internal/common"
	"bountyhub/internal/domain/answer"
)

type AnswerRepository struct {
	db *sql.DB
}

func NewAnswerRepository(db *sql.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

func (r *AnswerRepository) Create(ctx context.Context, a answer.Answer) (*answer.Answer, error) {
	a.ID = common.NewUUID()
	a.CreatedAt = time.Now().UTC()
	if a.Images == nil {
		a.Images = []string{}
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO answers (id, question_id, author_id, body, images, is_accepted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.QuestionID, a.AuthorID, a.Body, pq.Array(a.Images), a.IsAccepted, a.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, common.NewError(common.CodeConflict, "already answered", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create answer", err)
	}
	return &a, nil
}

func (r *AnswerRepository) GetByID(ctx context.Context, id common.UUID) (*answer.Answer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, question_id, author_id, body, images, is_accepted, created_at
		FROM answers WHERE id = $1`, id)
	var a answer.Answer
	if err := row.Scan(&a.ID, &a.QuestionID, &a.AuthorID, &a.Body, pq.Array(&a.Images), &a.IsAccepted, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "answer not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load answer", err)
	}
	return &a, nil
}

func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID common.UUID) ([]answer.Answer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT a.id, a.question_id, a.author_id, COALESCE(u.name, ''), a.body, a.images, a.is_accepted, a.created_at
		FROM answers a
		LEFT JOIN users u ON u.id = a.author_id
		WHERE a.question_id = $1
		ORDER BY a.is_accepted DESC, a.created_at ASC`, questionID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list answers", err)
	}
	defer rows.Close()
	var items []answer.Answer
	for rows.Next() {
		var a answer.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.AuthorID, &a.AuthorName, &a.Body, pq.Array(&a.Images), &a.IsAccepted, &a.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan answer", err)
		}
		items = append(items, a)
	}
	return items, nil
}

func (r *AnswerRepository) FindByQuestionAndAuthor(ctx context.Context, questionID, authorID common.UUID) (*answer.Answer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, question_id, author_id, body, images, is_accepted, created_at
		FROM answers WHERE question_id = $1 AND author_id = $2`, questionID, authorID)
	var a answer.Answer
	if err := row.Scan(&a.ID, &a.QuestionID, &a.AuthorID, &a.Body, pq.Array(&a.Images), &a.IsAccepted, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "answer not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load answer", err)
	}
	return &a, nil
}

// Accept marks one answer accepted and advances the question, all in a single
// transaction. Both writes are guarded on current state so a racing accept
// that already committed turns this call into a conflict, leaving the
// winner's state untouched.
func (r *AnswerRepository) Accept(ctx context.Context, questionID, answerID common.UUID) (*answer.Answer, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin accept", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `UPDATE questions SET status = 'answered', updated_at = $1
		WHERE id = $2 AND status = 'open'`, time.Now().UTC(), questionID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to transition question", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return nil, common.NewError(common.CodeConflict, "question already has an accepted answer", nil)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE answers SET is_accepted = FALSE
		WHERE question_id = $1 AND is_accepted`, questionID); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to clear accepted answer", err)
	}

	result, err = tx.ExecContext(ctx, `UPDATE answers SET is_accepted = TRUE
		WHERE id = $1 AND question_id = $2`, answerID, questionID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to accept answer", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "answer not found", sql.ErrNoRows)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit accept", err)
	}
	return r.GetByID(ctx, answerID)
}
