package app

import (
	"bountyhub/internal/common"
	"bountyhub/internal/domain/answer"
	"bountyhub/internal/domain/question"
	"bountyhub/internal/domain/volunteer"
)

// Pure authorization checks over already-fetched state. Identity failures are
// forbidden; state-already-advanced failures are conflict, so a retried caller
// learns the state did not change.

func canEditQuestion(identity common.UUID, q question.Question) error {
	if q.AuthorID != identity {
		return common.NewError(common.CodeForbidden, "only the question author can edit", nil)
	}
	return nil
}

func canDeleteQuestion(identity common.UUID, q question.Question) error {
	if q.AuthorID != identity {
		return common.NewError(common.CodeForbidden, "only the question author can delete", nil)
	}
	return nil
}

func canVolunteer(identity common.UUID, q question.Question) error {
	if q.AuthorID == identity {
		return common.NewError(common.CodeForbidden, "authors cannot volunteer on their own question", nil)
	}
	if q.Status != question.StatusOpen {
		return common.NewError(common.CodeForbidden, "question is not open", nil)
	}
	return nil
}

func canSelectVolunteer(identity common.UUID, q question.Question) error {
	if q.AuthorID != identity {
		return common.NewError(common.CodeForbidden, "only the question author can select a volunteer", nil)
	}
	return nil
}

func canSubmitAnswer(q question.Question, req *volunteer.Request) error {
	if q.Status == question.StatusClosed {
		return common.NewError(common.CodeForbidden, "question is closed", nil)
	}
	if req == nil || req.Status != volunteer.StatusSelected {
		return common.NewError(common.CodeForbidden, "only a selected volunteer can answer", nil)
	}
	return nil
}

func canAcceptAnswer(identity common.UUID, q question.Question, ans answer.Answer) error {
	if q.AuthorID != identity {
		return common.NewError(common.CodeForbidden, "only the question author can accept an answer", nil)
	}
	if ans.IsAccepted {
		return common.NewError(common.CodeConflict, "answer is already accepted", nil)
	}
	if q.Status != question.StatusOpen {
		return common.NewError(common.CodeConflict, "question already has an accepted answer", nil)
	}
	return nil
}
