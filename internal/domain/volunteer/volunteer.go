package volunteer

import (
	"time"

	"bountyhub/internal/common"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusSelected Status = "selected"
)

type Request struct {
	ID         common.UUID `json:"id"`
	QuestionID common.UUID `json:"question_id"`
	UserID     common.UUID `json:"user_id"`
	UserName   string      `json:"user_name,omitempty"`
	Status     Status      `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}
