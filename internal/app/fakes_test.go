package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"bountyhub/internal/common"
	"bountyhub/internal/domain/answer"
	"bountyhub/internal/domain/question"
	"bountyhub/internal/domain/volunteer"
)

type fakeQuestionRepo struct {
	mu    sync.Mutex
	items map[common.UUID]*question.Question

	// afterGet, when set, runs after GetByID returns its snapshot. Tests use
	// it to interleave a concurrent write between a read and the update that
	// relied on it.
	afterGet func()
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{items: make(map[common.UUID]*question.Question)}
}

func (r *fakeQuestionRepo) put(q question.Question) question.Question {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q.ID == "" {
		q.ID = common.NewUUID()
	}
	if q.Status == "" {
		q.Status = question.StatusOpen
	}
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now
	stored := q
	r.items[q.ID] = &stored
	return q
}

func (r *fakeQuestionRepo) Create(ctx context.Context, q question.Question) (*question.Question, error) {
	created := r.put(q)
	return &created, nil
}

func (r *fakeQuestionRepo) GetByID(ctx context.Context, id common.UUID) (*question.Question, error) {
	r.mu.Lock()
	stored, ok := r.items[id]
	if !ok {
		r.mu.Unlock()
		return nil, common.NewError(common.CodeNotFound, "question not found", nil)
	}
	copied := *stored
	r.mu.Unlock()
	if r.afterGet != nil {
		r.afterGet()
	}
	return &copied, nil
}

func (r *fakeQuestionRepo) List(ctx context.Context, limit, offset int, category string) ([]question.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []question.Question
	for _, stored := range r.items {
		if category != "" && stored.Category != category {
			continue
		}
		items = append(items, *stored)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if offset >= len(items) {
		return nil, nil
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (r *fakeQuestionRepo) Update(ctx context.Context, id common.UUID, patch question.Update) (*question.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "question not found", nil)
	}
	if patch.Title != nil {
		stored.Title = *patch.Title
	}
	if patch.Body != nil {
		stored.Body = *patch.Body
	}
	if patch.Category != nil {
		stored.Category = *patch.Category
	}
	if patch.BountyAmount != nil {
		// Same row-level guard as the real gateway: a settled question
		// refuses a bounty change, whatever the caller read earlier.
		if stored.Status != question.StatusOpen && *patch.BountyAmount != stored.BountyAmount {
			return nil, common.NewError(common.CodeConflict, "bounty_amount cannot change after an answer is accepted", nil)
		}
		stored.BountyAmount = *patch.BountyAmount
	}
	stored.UpdatedAt = time.Now().UTC()
	copied := *stored
	return &copied, nil
}

func (r *fakeQuestionRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return common.NewError(common.CodeNotFound, "question not found", nil)
	}
	delete(r.items, id)
	return nil
}

// compareAndTransition mimics the storage-level guarded status update the
// accept transaction relies on.
func (r *fakeQuestionRepo) compareAndTransition(id common.UUID, from, to question.Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok || stored.Status != from {
		return false
	}
	stored.Status = to
	stored.UpdatedAt = time.Now().UTC()
	return true
}

type fakeVolunteerRepo struct {
	mu    sync.Mutex
	seq   int
	items map[common.UUID]*volunteer.Request
	byKey map[string]common.UUID
	order []common.UUID
}

func newFakeVolunteerRepo() *fakeVolunteerRepo {
	return &fakeVolunteerRepo{
		items: make(map[common.UUID]*volunteer.Request),
		byKey: make(map[string]common.UUID),
	}
}

func volunteerKey(questionID, userID common.UUID) string {
	return questionID.String() + ":" + userID.String()
}

func (r *fakeVolunteerRepo) Create(ctx context.Context, req volunteer.Request) (*volunteer.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := volunteerKey(req.QuestionID, req.UserID)
	if _, exists := r.byKey[key]; exists {
		return nil, common.NewError(common.CodeConflict, "already volunteered", nil)
	}
	req.ID = common.NewUUID()
	r.seq++
	req.CreatedAt = time.Now().UTC().Add(time.Duration(r.seq) * time.Microsecond)
	stored := req
	r.items[req.ID] = &stored
	r.byKey[key] = req.ID
	r.order = append(r.order, req.ID)
	return &req, nil
}

func (r *fakeVolunteerRepo) ListByQuestion(ctx context.Context, questionID common.UUID) ([]volunteer.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []volunteer.Request
	for _, id := range r.order {
		stored := r.items[id]
		if stored.QuestionID == questionID {
			items = append(items, *stored)
		}
	}
	return items, nil
}

func (r *fakeVolunteerRepo) FindByQuestionAndUser(ctx context.Context, questionID, userID common.UUID) (*volunteer.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byKey[volunteerKey(questionID, userID)]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "volunteer request not found", nil)
	}
	copied := *r.items[id]
	return &copied, nil
}

func (r *fakeVolunteerRepo) UpdateStatus(ctx context.Context, id common.UUID, status volunteer.Status) (*volunteer.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "volunteer request not found", nil)
	}
	stored.Status = status
	copied := *stored
	return &copied, nil
}

type fakeAnswerRepo struct {
	mu        sync.Mutex
	seq       int
	items     map[common.UUID]*answer.Answer
	byKey     map[string]common.UUID
	order     []common.UUID
	questions *fakeQuestionRepo
}

func newFakeAnswerRepo(questions *fakeQuestionRepo) *fakeAnswerRepo {
	return &fakeAnswerRepo{
		items:     make(map[common.UUID]*answer.Answer),
		byKey:     make(map[string]common.UUID),
		questions: questions,
	}
}

func answerKey(questionID, authorID common.UUID) string {
	return questionID.String() + ":" + authorID.String()
}

func (r *fakeAnswerRepo) Create(ctx context.Context, a answer.Answer) (*answer.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := answerKey(a.QuestionID, a.AuthorID)
	if _, exists := r.byKey[key]; exists {
		return nil, common.NewError(common.CodeConflict, "already answered", nil)
	}
	a.ID = common.NewUUID()
	r.seq++
	a.CreatedAt = time.Now().UTC().Add(time.Duration(r.seq) * time.Microsecond)
	if a.Images == nil {
		a.Images = []string{}
	}
	stored := a
	r.items[a.ID] = &stored
	r.byKey[key] = a.ID
	r.order = append(r.order, a.ID)
	return &a, nil
}

func (r *fakeAnswerRepo) GetByID(ctx context.Context, id common.UUID) (*answer.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "answer not found", nil)
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeAnswerRepo) ListByQuestion(ctx context.Context, questionID common.UUID) ([]answer.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []answer.Answer
	for _, id := range r.order {
		stored := r.items[id]
		if stored.QuestionID == questionID {
			items = append(items, *stored)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsAccepted != items[j].IsAccepted {
			return items[i].IsAccepted
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *fakeAnswerRepo) FindByQuestionAndAuthor(ctx context.Context, questionID, authorID common.UUID) (*answer.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byKey[answerKey(questionID, authorID)]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "answer not found", nil)
	}
	copied := *r.items[id]
	return &copied, nil
}

func (r *fakeAnswerRepo) Accept(ctx context.Context, questionID, answerID common.UUID) (*answer.Answer, error) {
	// Guarded status flip first, like the real transaction; of two racing
	// accepts only one passes.
	if !r.questions.compareAndTransition(questionID, question.StatusOpen, question.StatusAnswered) {
		return nil, common.NewError(common.CodeConflict, "question already has an accepted answer", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.items[answerID]
	if !ok || target.QuestionID != questionID {
		return nil, common.NewError(common.CodeNotFound, "answer not found", nil)
	}
	for _, stored := range r.items {
		if stored.QuestionID == questionID {
			stored.IsAccepted = false
		}
	}
	target.IsAccepted = true
	copied := *target
	return &copied, nil
}
