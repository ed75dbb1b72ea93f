package usecase

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/repository"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/mailer"
)

var (
	_ repository.UserRepository          = (*fakeUserRepo)(nil)
	_ repository.OTPCredentialRepository = (*fakeOTPRepo)(nil)
	_ mailer.Sender                      = (*fakeMailer)(nil)
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		r.users[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

func (r *fakeUserRepo) UpsertUser(_ context.Context, user *model.User) (*model.User, error) {
	r.users[user.Email] = user
	return user, nil
}

type fakeOTPRepo struct {
	mu          sync.Mutex
	credentials map[string]model.OTPCredential
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{credentials: map[string]model.OTPCredential{}}
}

func (r *fakeOTPRepo) SaveCredential(_ context.Context, c *model.OTPCredential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.credentials[c.Email] = *c
	return nil
}

func (r *fakeOTPRepo) GetCredential(_ context.Context, email string) (*model.OTPCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.credentials[email]
	if !ok {
		return nil, repository.ErrCredentialNotFound
	}
	return &c, nil
}

func (r *fakeOTPRepo) DeleteCredential(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.credentials, email)
	return nil
}

type fakeMailer struct {
	sent []mailer.Email
	err  error
}

func (m *fakeMailer) Send(email mailer.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

type fakeQuestionRepo struct {
	questions map[bson.ObjectID]*model.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: map[bson.ObjectID]*model.Question{}}
}

func (r *fakeQuestionRepo) CreateQuestion(_ context.Context, q *model.Question) (*model.Question, error) {
	q.ID = bson.NewObjectID()
	r.questions[q.ID] = q
	return q, nil
}

func (r *fakeQuestionRepo) GetQuestion(_ context.Context, id string) (*model.Question, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	q, ok := r.questions[oid]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return q, nil
}

func (r *fakeQuestionRepo) ListQuestionsByYear(_ context.Context, year int) ([]*model.Question, error) {
	var out []*model.Question
	for _, q := range r.questions {
		if q.Year == year {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) UpdateQuestion(
	ctx context.Context,
	id string,
	params repository.UpdateQuestionParams,
) (*model.Question, error) {
	q, err := r.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Title != nil {
		q.Title = *params.Title
	}
	if params.Question != nil {
		q.Question = *params.Question
	}
	if params.Answer != nil {
		q.Answer = *params.Answer
	}
	if params.Year != nil {
		q.Year = *params.Year
	}
	return q, nil
}

func (r *fakeQuestionRepo) DeleteQuestion(ctx context.Context, id string) (*model.Question, error) {
	q, err := r.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	delete(r.questions, q.ID)
	return q, nil
}

func (r *fakeQuestionRepo) ExistsByTitleOrQuestion(_ context.Context, title, question, excludeID string) (bool, error) {
	for id, q := range r.questions {
		if excludeID != "" && id.Hex() == excludeID {
			continue
		}
		if (title != "" && q.Title == title) || (question != "" && q.Question == question) {
			return true, nil
		}
	}
	return false, nil
}

type fakeAttemptRepo struct {
	attempts []*model.RoundOneAttempt
}

func (r *fakeAttemptRepo) RecordAttempt(_ context.Context, attempt *model.RoundOneAttempt) (bool, error) {
	for _, a := range r.attempts {
		if a.Email == attempt.Email && a.QuestionID == attempt.QuestionID && a.Steg == attempt.Steg {
			return false, nil
		}
	}
	attempt.AnsweredAt = time.Now()
	r.attempts = append(r.attempts, attempt)
	return true, nil
}

func (r *fakeAttemptRepo) ListAttempts(_ context.Context, email string) ([]*model.RoundOneAttempt, error) {
	var out []*model.RoundOneAttempt
	for _, a := range r.attempts {
		if a.Email == email {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAttemptRepo) CountAttempts(ctx context.Context, email string) (int64, error) {
	out, _ := r.ListAttempts(ctx, email)
	return int64(len(out)), nil
}

type fakeAnswerKeyRepo struct {
	keys map[int]*model.AnswerKey
}

func newFakeAnswerKeyRepo() *fakeAnswerKeyRepo {
	return &fakeAnswerKeyRepo{keys: map[int]*model.AnswerKey{}}
}

func (r *fakeAnswerKeyRepo) CreateAnswerKey(_ context.Context, key *model.AnswerKey) (*model.AnswerKey, error) {
	key.ID = bson.NewObjectID()
	r.keys[key.Year] = key
	return key, nil
}

func (r *fakeAnswerKeyRepo) ListAnswerKeys(_ context.Context) ([]*model.AnswerKey, error) {
	var out []*model.AnswerKey
	for _, k := range r.keys {
		out = append(out, k)
	}
	return out, nil
}

func (r *fakeAnswerKeyRepo) GetAnswerKeyByYear(_ context.Context, year int) (*model.AnswerKey, error) {
	k, ok := r.keys[year]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return k, nil
}

func (r *fakeAnswerKeyRepo) UpdateAnswerKeyByYear(ctx context.Context, year int, answers []string) (*model.AnswerKey, error) {
	k, err := r.GetAnswerKeyByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	k.Answers = answers
	return k, nil
}

func (r *fakeAnswerKeyRepo) DeleteAnswerKeyByYear(ctx context.Context, year int) (*model.AnswerKey, error) {
	k, err := r.GetAnswerKeyByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	delete(r.keys, year)
	return k, nil
}

type fakeProgressRepo struct {
	progress map[string]model.Progress
	saves    int
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{progress: map[string]model.Progress{}}
}

func (r *fakeProgressRepo) GetProgress(_ context.Context, email string) (*model.Progress, error) {
	p, ok := r.progress[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &p, nil
}

func (r *fakeProgressRepo) SaveProgress(_ context.Context, p *model.Progress) (*model.Progress, error) {
	r.saves++
	saved := *p
	r.progress[p.Email] = saved
	return &saved, nil
}
