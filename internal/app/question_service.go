package app

import (
	"context"
	"strings"

	"bountyhub/internal/common"
	"bountyhub/internal/domain/answer"
	"bountyhub/internal/domain/question"
	"bountyhub/internal/domain/volunteer"
)

type QuestionService struct {
	questions  question.Repository
	answers    answer.Repository
	volunteers volunteer.Repository
}

func NewQuestionService(questions question.Repository, answers answer.Repository, volunteers volunteer.Repository) *QuestionService {
	return &QuestionService{questions: questions, answers: answers, volunteers: volunteers}
}

// QuestionDetail is the read projection callers render from: the question with
// its author name and answer count, answers accepted-first then chronological,
// and volunteer requests in arrival order.
type QuestionDetail struct {
	question.Question
	Answers           []answer.Answer     `json:"answers"`
	VolunteerRequests []volunteer.Request `json:"volunteer_requests"`
}

func (s *QuestionService) Create(ctx context.Context, q question.Question) (*question.Question, error) {
	q.Title = strings.TrimSpace(q.Title)
	q.Body = strings.TrimSpace(q.Body)
	q.Category = strings.TrimSpace(q.Category)
	if q.Title == "" {
		return nil, common.NewError(common.CodeValidation, "title is required", nil)
	}
	if q.Body == "" {
		return nil, common.NewError(common.CodeValidation, "body is required", nil)
	}
	if q.Category == "" {
		return nil, common.NewError(common.CodeValidation, "category is required", nil)
	}
	if q.BountyAmount < 0 {
		return nil, common.NewValidationError("invalid bounty", map[string]string{"bounty_amount": "bounty_amount must be >= 0"})
	}
	q.Status = question.StatusOpen
	return s.questions.Create(ctx, q)
}

func (s *QuestionService) List(ctx context.Context, limit, offset int, category string) ([]question.Question, error) {
	return s.questions.List(ctx, limit, offset, strings.TrimSpace(category))
}

func (s *QuestionService) GetDetail(ctx context.Context, id common.UUID) (*QuestionDetail, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	answers, err := s.answers.ListByQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	requests, err := s.volunteers.ListByQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if answers == nil {
		answers = []answer.Answer{}
	}
	if requests == nil {
		requests = []volunteer.Request{}
	}
	return &QuestionDetail{Question: *q, Answers: answers, VolunteerRequests: requests}, nil
}

func (s *QuestionService) Edit(ctx context.Context, id, authorID common.UUID, patch question.Update) (*question.Question, error) {
	current, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canEditQuestion(authorID, *current); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, common.NewError(common.CodeValidation, "no fields to update", nil)
	}
	if err := validateQuestionPatch(*current, patch); err != nil {
		return nil, err
	}
	return s.questions.Update(ctx, id, patch)
}

func validateQuestionPatch(current question.Question, patch question.Update) error {
	fields := map[string]string{}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		fields["title"] = "title must not be empty"
	}
	if patch.Body != nil && strings.TrimSpace(*patch.Body) == "" {
		fields["body"] = "body must not be empty"
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		fields["category"] = "category must not be empty"
	}
	if patch.BountyAmount != nil {
		if *patch.BountyAmount < 0 {
			fields["bounty_amount"] = "bounty_amount must be >= 0"
		}
		// The bounty is earned once an answer is accepted; it can no longer
		// change retroactively.
		if current.Status != question.StatusOpen && *patch.BountyAmount != current.BountyAmount {
			fields["bounty_amount"] = "bounty_amount cannot change after an answer is accepted"
		}
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid question", fields)
	}
	return nil
}

func (s *QuestionService) Delete(ctx context.Context, id, authorID common.UUID) error {
	current, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := canDeleteQuestion(authorID, *current); err != nil {
		return err
	}
	return s.questions.Delete(ctx, id)
}
