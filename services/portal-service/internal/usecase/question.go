package usecase

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/repository"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/metrics"
)

// QuestionUsecase manages round one questions and player answers.
// steg selects the steganography question set instead of the regular one.
type QuestionUsecase interface {
	CreateQuestion(ctx context.Context, params QuestionParams, steg bool) (*model.Question, error)
	GetQuestion(ctx context.Context, id string, steg bool) (*model.Question, error)
	ListQuestions(ctx context.Context, year int, steg bool) ([]*model.Question, error)
	UpdateQuestion(ctx context.Context, id string, params repository.UpdateQuestionParams, steg bool) (*model.Question, error)
	DeleteQuestion(ctx context.Context, id string, steg bool) (*model.Question, error)

	SubmitAnswer(ctx context.Context, player Player, id, answer string, steg bool) (*AnswerResult, error)
	AnsweredQuestions(ctx context.Context, player Player) ([]*model.RoundOneAttempt, error)
	Score(ctx context.Context, player Player) (int64, error)
}

// QuestionParams defines the parameters for creating a question.
type QuestionParams struct {
	Title       string
	Description string
	Question    string
	Answer      string
	Type        model.QuestionType
	URL         string
	Year        int
}

// AnswerResult is the outcome of a round one answer.
type AnswerResult struct {
	Correct         bool  `json:"isCorrect"`
	AlreadyAnswered bool  `json:"alreadyAnswered"`
	Score           int64 `json:"score"`
}

var (
	ErrQuestionExists    = errors.New("question already exists")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrNoQuestions       = errors.New("no question given for the provided year")
	ErrInvalidQuestionID = errors.New("invalid question id")
	ErrWrongYear         = errors.New("question belongs to another year")
)

type questionUsecase struct {
	questionRepo repository.QuestionRepository
	stegRepo     repository.QuestionRepository
	attemptRepo  repository.RoundOneAttemptRepository
}

// NewQuestionUsecase creates a new instance of QuestionUsecase.
func NewQuestionUsecase(
	questionRepo repository.QuestionRepository,
	stegRepo repository.QuestionRepository,
	attemptRepo repository.RoundOneAttemptRepository,
) QuestionUsecase {
	return &questionUsecase{
		questionRepo: questionRepo,
		stegRepo:     stegRepo,
		attemptRepo:  attemptRepo,
	}
}

func (u *questionUsecase) repo(steg bool) repository.QuestionRepository {
	if steg {
		return u.stegRepo
	}
	return u.questionRepo
}

func (u *questionUsecase) CreateQuestion(ctx context.Context, params QuestionParams, steg bool) (*model.Question, error) {
	repo := u.repo(steg)

	exists, err := repo.ExistsByTitleOrQuestion(ctx, params.Title, params.Question, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrQuestionExists
	}

	return repo.CreateQuestion(ctx, &model.Question{
		Title:       params.Title,
		Description: params.Description,
		Question:    params.Question,
		Answer:      params.Answer,
		Type:        params.Type,
		URL:         params.URL,
		Year:        params.Year,
	})
}

func (u *questionUsecase) GetQuestion(ctx context.Context, id string, steg bool) (*model.Question, error) {
	if !validObjectID(id) {
		return nil, ErrInvalidQuestionID
	}

	question, err := u.repo(steg).GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	return question, nil
}

func (u *questionUsecase) ListQuestions(ctx context.Context, year int, steg bool) ([]*model.Question, error) {
	questions, err := u.repo(steg).ListQuestionsByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	return questions, nil
}

func (u *questionUsecase) UpdateQuestion(
	ctx context.Context,
	id string,
	params repository.UpdateQuestionParams,
	steg bool,
) (*model.Question, error) {
	if !validObjectID(id) {
		return nil, ErrInvalidQuestionID
	}

	repo := u.repo(steg)

	var title, question string
	if params.Title != nil {
		title = *params.Title
	}
	if params.Question != nil {
		question = *params.Question
	}

	// The record being updated never conflicts with itself.
	exists, err := repo.ExistsByTitleOrQuestion(ctx, title, question, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrQuestionExists
	}

	updated, err := repo.UpdateQuestion(ctx, id, params)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	return updated, nil
}

func (u *questionUsecase) DeleteQuestion(ctx context.Context, id string, steg bool) (*model.Question, error) {
	if !validObjectID(id) {
		return nil, ErrInvalidQuestionID
	}

	deleted, err := u.repo(steg).DeleteQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	return deleted, nil
}

func (u *questionUsecase) SubmitAnswer(
	ctx context.Context,
	player Player,
	id, answer string,
	steg bool,
) (*AnswerResult, error) {
	question, err := u.GetQuestion(ctx, id, steg)
	if err != nil {
		return nil, err
	}

	if question.Year != player.Year {
		return nil, ErrWrongYear
	}

	result := &AnswerResult{
		Correct: strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(question.Answer)),
	}

	if result.Correct {
		recorded, err := u.attemptRepo.RecordAttempt(ctx, &model.RoundOneAttempt{
			Email:      player.Email,
			QuestionID: question.ID,
			Steg:       steg,
		})
		if err != nil {
			return nil, err
		}
		result.AlreadyAnswered = !recorded
		metrics.Submissions.WithLabelValues("round1", "correct").Inc()
	} else {
		metrics.Submissions.WithLabelValues("round1", "wrong").Inc()
	}

	score, err := u.attemptRepo.CountAttempts(ctx, player.Email)
	if err != nil {
		return nil, err
	}
	result.Score = score

	return result, nil
}

func (u *questionUsecase) AnsweredQuestions(ctx context.Context, player Player) ([]*model.RoundOneAttempt, error) {
	return u.attemptRepo.ListAttempts(ctx, player.Email)
}

func (u *questionUsecase) Score(ctx context.Context, player Player) (int64, error) {
	return u.attemptRepo.CountAttempts(ctx, player.Email)
}

func validObjectID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}
