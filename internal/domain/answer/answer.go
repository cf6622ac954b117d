package answer

import (
	"time"

	"bountyhub/internal/common"
)

type Answer struct {
	ID         common.UUID `json:"id"`
	QuestionID common.UUID `json:"question_id"`
	AuthorID   common.UUID `json:"author_id"`
	AuthorName string      `json:"author_name,omitempty"`
	Body       string      `json:"body"`
	// Images holds opaque attachment URLs in submission order.
	Images     []string  `json:"images"`
	IsAccepted bool      `json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
}
