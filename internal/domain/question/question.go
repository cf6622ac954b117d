package question

import (
	"time"

	"bountyhub/internal/common"
)

type Status string

const (
	StatusOpen     Status = "open"
	StatusAnswered Status = "answered"
	// StatusClosed is a valid terminal value but no in-service operation
	// produces it; it is reserved for administrative tooling.
	StatusClosed Status = "closed"
)

type Question struct {
	ID           common.UUID `json:"id"`
	AuthorID     common.UUID `json:"author_id"`
	AuthorName   string      `json:"author_name,omitempty"`
	Title        string      `json:"title"`
	Body         string      `json:"body"`
	Category     string      `json:"category"`
	BountyAmount int         `json:"bounty_amount"`
	Status       Status      `json:"status"`
	AnswerCount  int         `json:"answer_count"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Update is a partial edit. A nil field is left untouched, which keeps
// "omitted" distinct from "cleared".
type Update struct {
	Title        *string
	Body         *string
	Category     *string
	BountyAmount *int
}

func (u Update) Empty() bool {
	return u.Title == nil && u.Body == nil && u.Category == nil && u.BountyAmount == nil
}
