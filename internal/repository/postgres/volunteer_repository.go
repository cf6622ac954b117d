package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"bountyhub/internal/common"
	"bountyhub/internal/domain/volunteer"
)

const uniqueViolation = "23505"

type VolunteerRepository struct {
	db *sql.DB
}

func NewVolunteerRepository(db *sql.DB) *VolunteerRepository {
	return &VolunteerRepository{db: db}
}

func (r *VolunteerRepository) Create(ctx context.Context, req volunteer.Request) (*volunteer.Request, error) {
	req.ID = common.NewUUID()
	req.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO volunteer_requests (id, question_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		req.ID, req.QuestionID, req.UserID, req.Status, req.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, common.NewError(common.CodeConflict, "already volunteered", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create volunteer request", err)
	}
	return &req, nil
}

func (r *VolunteerRepository) ListByQuestion(ctx context.Context, questionID common.UUID) ([]volunteer.Request, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT vr.id, vr.question_id, vr.user_id, COALESCE(u.name, ''), vr.status, vr.created_at
		FROM volunteer_requests vr
		LEFT JOIN users u ON u.id = vr.user_id
		WHERE vr.question_id = $1
		ORDER BY vr.created_at ASC`, questionID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list volunteer requests", err)
	}
	defer rows.Close()
	var items []volunteer.Request
	for rows.Next() {
		var req volunteer.Request
		if err := rows.Scan(&req.ID, &req.QuestionID, &req.UserID, &req.UserName, &req.Status, &req.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan volunteer request", err)
		}
		items = append(items, req)
	}
	return items, nil
}

func (r *VolunteerRepository) FindByQuestionAndUser(ctx context.Context, questionID, userID common.UUID) (*volunteer.Request, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, question_id, user_id, status, created_at
		FROM volunteer_requests WHERE question_id = $1 AND user_id = $2`, questionID, userID)
	var req volunteer.Request
	if err := row.Scan(&req.ID, &req.QuestionID, &req.UserID, &req.Status, &req.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "volunteer request not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load volunteer request", err)
	}
	return &req, nil
}

func (r *VolunteerRepository) UpdateStatus(ctx context.Context, id common.UUID, status volunteer.Status) (*volunteer.Request, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE volunteer_requests SET status = $1 WHERE id = $2
		RETURNING id, question_id, user_id, status, created_at`, status, id)
	var req volunteer.Request
	if err := row.Scan(&req.ID, &req.QuestionID, &req.UserID, &req.Status, &req.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "volunteer request not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to update volunteer request", err)
	}
	return &req, nil
}
