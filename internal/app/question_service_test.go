package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bountyhub/internal/common"
	"bountyhub/internal/domain/question"
)

type questionFixture struct {
	questions  *fakeQuestionRepo
	volunteers *fakeVolunteerRepo
	answers    *fakeAnswerRepo
	service    *QuestionService
	workflow   *WorkflowService
}

func newQuestionFixture() *questionFixture {
	questions := newFakeQuestionRepo()
	volunteers := newFakeVolunteerRepo()
	answers := newFakeAnswerRepo(questions)
	return &questionFixture{
		questions:  questions,
		volunteers: volunteers,
		answers:    answers,
		service:    NewQuestionService(questions, answers, volunteers),
		workflow:   NewWorkflowService(questions, volunteers, answers),
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCreateQuestionValidation(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()
	author := common.NewUUID()

	cases := []struct {
		name string
		q    question.Question
	}{
		{"empty title", question.Question{AuthorID: author, Body: "b", Category: "c"}},
		{"empty body", question.Question{AuthorID: author, Title: "t", Category: "c"}},
		{"empty category", question.Question{AuthorID: author, Title: "t", Body: "b"}},
		{"whitespace title", question.Question{AuthorID: author, Title: "   ", Body: "b", Category: "c"}},
		{"negative bounty", question.Question{AuthorID: author, Title: "t", Body: "b", Category: "c", BountyAmount: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Create(ctx, tc.q)
			assert.True(t, common.Is(err, common.CodeValidation))
		})
	}
}

func TestCreateQuestionStartsOpen(t *testing.T) {
	f := newQuestionFixture()
	created, err := f.service.Create(context.Background(), question.Question{
		AuthorID:     common.NewUUID(),
		Title:        "Need sourdough help",
		Body:         "Starter keeps dying.",
		Category:     "cooking",
		BountyAmount: 25,
		Status:       question.StatusAnswered, // caller cannot smuggle a status in
	})
	require.NoError(t, err)
	assert.Equal(t, question.StatusOpen, created.Status)
	assert.Equal(t, 25, created.BountyAmount)
}

func TestEditQuestionByNonAuthorForbidden(t *testing.T) {
	f := newQuestionFixture()
	q := f.questions.put(question.Question{AuthorID: common.NewUUID(), Title: "t", Body: "b", Category: "c"})

	_, err := f.service.Edit(context.Background(), q.ID, common.NewUUID(), question.Update{Title: strPtr("new")})
	assert.True(t, common.Is(err, common.CodeForbidden))
}

func TestEditQuestionNoFieldsValidation(t *testing.T) {
	f := newQuestionFixture()
	author := common.NewUUID()
	q := f.questions.put(question.Question{AuthorID: author, Title: "t", Body: "b", Category: "c"})

	_, err := f.service.Edit(context.Background(), q.ID, author, question.Update{})
	assert.True(t, common.Is(err, common.CodeValidation))
}

func TestEditQuestionPartialUpdate(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()
	author := common.NewUUID()
	q := f.questions.put(question.Question{AuthorID: author, Title: "old title", Body: "old body", Category: "misc", BountyAmount: 10})

	updated, err := f.service.Edit(ctx, q.ID, author, question.Update{Title: strPtr("new title"), BountyAmount: intPtr(75)})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "old body", updated.Body)
	assert.Equal(t, 75, updated.BountyAmount)
	assert.True(t, updated.UpdatedAt.After(q.UpdatedAt) || updated.UpdatedAt.Equal(q.UpdatedAt))
}

func TestEditQuestionBountyFrozenAfterAccept(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()
	author := common.NewUUID()
	helper := common.NewUUID()
	q := f.questions.put(question.Question{AuthorID: author, Title: "t", Body: "b", Category: "c", BountyAmount: 50})

	_, err := f.workflow.Volunteer(ctx, q.ID, helper)
	require.NoError(t, err)
	_, err = f.workflow.SelectVolunteer(ctx, q.ID, author, helper)
	require.NoError(t, err)
	ans, err := f.workflow.SubmitAnswer(ctx, q.ID, helper, "hello", nil)
	require.NoError(t, err)
	_, err = f.workflow.AcceptAnswer(ctx, q.ID, author, ans.ID)
	require.NoError(t, err)

	_, err = f.service.Edit(ctx, q.ID, author, question.Update{BountyAmount: intPtr(5)})
	assert.True(t, common.Is(err, common.CodeValidation))

	// Non-bounty fields stay editable after acceptance.
	updated, err := f.service.Edit(ctx, q.ID, author, question.Update{Title: strPtr("clarified title")})
	require.NoError(t, err)
	assert.Equal(t, "clarified title", updated.Title)
	assert.Equal(t, 50, updated.BountyAmount)
}

func TestEditQuestionWhitespacePatchValidation(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()
	author := common.NewUUID()
	q := f.questions.put(question.Question{AuthorID: author, Title: "t", Body: "b", Category: "c"})

	cases := []struct {
		name  string
		patch question.Update
	}{
		{"whitespace title", question.Update{Title: strPtr("   ")}},
		{"whitespace body", question.Update{Body: strPtr(" \t ")}},
		{"whitespace category", question.Update{Category: strPtr("  ")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Edit(ctx, q.ID, author, tc.patch)
			assert.True(t, common.Is(err, common.CodeValidation))
		})
	}

	unchanged, err := f.questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", unchanged.Title)
	assert.Equal(t, "b", unchanged.Body)
	assert.Equal(t, "c", unchanged.Category)
}

func TestEditQuestionBountyLosesRaceWithAccept(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()
	author := common.NewUUID()
	q := f.questions.put(question.Question{AuthorID: author, Title: "t", Body: "b", Category: "c", BountyAmount: 50})

	// An accept lands between the edit's read and its write; the storage
	// guard, not the stale read, must have the last word on the bounty.
	f.questions.afterGet = func() {
		f.questions.compareAndTransition(q.ID, question.StatusOpen, question.StatusAnswered)
	}

	_, err := f.service.Edit(ctx, q.ID, author, question.Update{BountyAmount: intPtr(500)})
	assert.True(t, common.Is(err, common.CodeConflict))

	f.questions.afterGet = nil
	stored, err := f.questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.BountyAmount)
	assert.Equal(t, question.StatusAnswered, stored.Status)
}

func TestDeleteQuestionByNonAuthorForbidden(t *testing.T) {
	f := newQuestionFixture()
	q := f.questions.put(question.Question{AuthorID: common.NewUUID(), Title: "t", Body: "b", Category: "c"})

	err := f.service.Delete(context.Background(), q.ID, common.NewUUID())
	assert.True(t, common.Is(err, common.CodeForbidden))
}

func TestDeleteQuestion(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()
	author := common.NewUUID()
	q := f.questions.put(question.Question{AuthorID: author, Title: "t", Body: "b", Category: "c"})

	require.NoError(t, f.service.Delete(ctx, q.ID, author))
	_, err := f.questions.GetByID(ctx, q.ID)
	assert.True(t, common.Is(err, common.CodeNotFound))
}

func TestGetDetailOrdering(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()
	author := common.NewUUID()
	first := common.NewUUID()
	second := common.NewUUID()
	third := common.NewUUID()
	q := f.questions.put(question.Question{AuthorID: author, Title: "t", Body: "b", Category: "c"})

	for _, helper := range []common.UUID{first, second, third} {
		_, err := f.workflow.Volunteer(ctx, q.ID, helper)
		require.NoError(t, err)
		_, err = f.workflow.SelectVolunteer(ctx, q.ID, author, helper)
		require.NoError(t, err)
	}
	_, err := f.workflow.SubmitAnswer(ctx, q.ID, first, "first in", nil)
	require.NoError(t, err)
	ans2, err := f.workflow.SubmitAnswer(ctx, q.ID, second, "second in", nil)
	require.NoError(t, err)
	_, err = f.workflow.SubmitAnswer(ctx, q.ID, third, "third in", []string{"https://img.example/1.png"})
	require.NoError(t, err)

	// Accept the middle answer; it must float to the front of the projection.
	_, err = f.workflow.AcceptAnswer(ctx, q.ID, author, ans2.ID)
	require.NoError(t, err)

	detail, err := f.service.GetDetail(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, detail.Answers, 3)
	assert.Equal(t, ans2.ID, detail.Answers[0].ID)
	assert.True(t, detail.Answers[0].IsAccepted)
	assert.Equal(t, "first in", detail.Answers[1].Body)
	assert.Equal(t, "third in", detail.Answers[2].Body)
	assert.Equal(t, []string{"https://img.example/1.png"}, detail.Answers[2].Images)

	require.Len(t, detail.VolunteerRequests, 3)
	assert.Equal(t, first, detail.VolunteerRequests[0].UserID)
	assert.Equal(t, second, detail.VolunteerRequests[1].UserID)
	assert.Equal(t, third, detail.VolunteerRequests[2].UserID)
}

func TestGetDetailNotFound(t *testing.T) {
	f := newQuestionFixture()
	_, err := f.service.GetDetail(context.Background(), common.NewUUID())
	assert.True(t, common.Is(err, common.CodeNotFound))
}
