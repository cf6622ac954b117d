package app

import (
	"context"
	"strings"

	"bountyhub/internal/common"
	"bountyhub/internal/domain/answer"
	"bountyhub/internal/domain/question"
	"bountyhub/internal/domain/volunteer"
)

// WorkflowService drives the question lifecycle: users volunteer on an open
// question, the author selects who may answer, the selected volunteer submits,
// the author accepts. Serialization of racing writers happens at the storage
// layer (uniqueness constraints and the accept transaction); this service
// treats a lost race as a conflict, never as a crash.
type WorkflowService struct {
	questions  question.Repository
	volunteers volunteer.Repository
	answers    answer.Repository
}

func NewWorkflowService(questions question.Repository, volunteers volunteer.Repository, answers answer.Repository) *WorkflowService {
	return &WorkflowService{questions: questions, volunteers: volunteers, answers: answers}
}

func (s *WorkflowService) Volunteer(ctx context.Context, questionID, userID common.UUID) (*volunteer.Request, error) {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if err := canVolunteer(userID, *q); err != nil {
		return nil, err
	}
	if _, err := s.volunteers.FindByQuestionAndUser(ctx, questionID, userID); err == nil {
		return nil, common.NewError(common.CodeConflict, "already volunteered", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	// A concurrent volunteer past the check above loses on the unique key and
	// comes back as a conflict from the repository.
	return s.volunteers.Create(ctx, volunteer.Request{
		QuestionID: questionID,
		UserID:     userID,
		Status:     volunteer.StatusPending,
	})
}

func (s *WorkflowService) SelectVolunteer(ctx context.Context, questionID, authorID, targetUserID common.UUID) (*volunteer.Request, error) {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if err := canSelectVolunteer(authorID, *q); err != nil {
		return nil, err
	}
	req, err := s.volunteers.FindByQuestionAndUser(ctx, questionID, targetUserID)
	if err != nil {
		return nil, err
	}
	// Selecting does not revoke earlier selections; several volunteers may be
	// selected over time and each may answer at most once.
	return s.volunteers.UpdateStatus(ctx, req.ID, volunteer.StatusSelected)
}

func (s *WorkflowService) SubmitAnswer(ctx context.Context, questionID, userID common.UUID, body string, images []string) (*answer.Answer, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, common.NewError(common.CodeValidation, "answer body is required", nil)
	}
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	req, err := s.volunteers.FindByQuestionAndUser(ctx, questionID, userID)
	if err != nil && !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	if err := canSubmitAnswer(*q, req); err != nil {
		return nil, err
	}
	if _, err := s.answers.FindByQuestionAndAuthor(ctx, questionID, userID); err == nil {
		return nil, common.NewError(common.CodeConflict, "already answered", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	return s.answers.Create(ctx, answer.Answer{
		QuestionID: questionID,
		AuthorID:   userID,
		Body:       body,
		Images:     images,
	})
}

func (s *WorkflowService) AcceptAnswer(ctx context.Context, questionID, authorID, answerID common.UUID) (*answer.Answer, error) {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	ans, err := s.answers.GetByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if ans.QuestionID != questionID {
		return nil, common.NewError(common.CodeNotFound, "answer not found", nil)
	}
	if err := canAcceptAnswer(authorID, *q, *ans); err != nil {
		return nil, err
	}
	// The repository runs the accept as one transaction guarded on the current
	// state; of two racing accepts exactly one commits and the other observes
	// the winner's state as a conflict.
	return s.answers.Accept(ctx, questionID, answerID)
}

// FindVolunteerRequest exposes the (question, user) lookup so read-side
// callers do not re-derive selection state by scanning the projection.
func (s *WorkflowService) FindVolunteerRequest(ctx context.Context, questionID, userID common.UUID) (*volunteer.Request, error) {
	return s.volunteers.FindByQuestionAndUser(ctx, questionID, userID)
}
