package usecase

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/repository"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/metrics"
)

// AnswerKeyUsecase manages round three answer keys and checks player answers.
type AnswerKeyUsecase interface {
	CreateAnswerKey(ctx context.Context, year int, answers []string) (*model.AnswerKey, error)
	ListAnswerKeys(ctx context.Context) ([]*model.AnswerKey, error)
	GetAnswerKey(ctx context.Context, year int) (*model.AnswerKey, error)
	UpdateAnswerKey(ctx context.Context, year int, answers []string) (*model.AnswerKey, error)
	DeleteAnswerKey(ctx context.Context, year int) (*model.AnswerKey, error)

	// CheckAnswer reports whether answer is accepted for the player's year.
	CheckAnswer(ctx context.Context, player Player, answer string) (bool, error)
}

var (
	ErrAnswerKeyExists   = errors.New("answer key already exists")
	ErrAnswerKeyNotFound = errors.New("answer key not found")
	ErrNoAnswerKeys      = errors.New("no answers found")
	ErrEmptyAnswers      = errors.New("at least one answer is required")
)

type answerKeyUsecase struct {
	answerKeyRepo repository.AnswerKeyRepository
}

// NewAnswerKeyUsecase creates a new instance of AnswerKeyUsecase.
func NewAnswerKeyUsecase(answerKeyRepo repository.AnswerKeyRepository) AnswerKeyUsecase {
	return &answerKeyUsecase{answerKeyRepo: answerKeyRepo}
}

func (u *answerKeyUsecase) CreateAnswerKey(ctx context.Context, year int, answers []string) (*model.AnswerKey, error) {
	answers = cleanAnswers(answers)
	if len(answers) == 0 {
		return nil, ErrEmptyAnswers
	}

	// At most one key per year. The unique index catches a concurrent insert.
	if _, err := u.answerKeyRepo.GetAnswerKeyByYear(ctx, year); err == nil {
		return nil, ErrAnswerKeyExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	key, err := u.answerKeyRepo.CreateAnswerKey(ctx, &model.AnswerKey{Year: year, Answers: answers})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAnswerKeyExists
		}
		return nil, err
	}

	return key, nil
}

func (u *answerKeyUsecase) ListAnswerKeys(ctx context.Context) ([]*model.AnswerKey, error) {
	keys, err := u.answerKeyRepo.ListAnswerKeys(ctx)
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return nil, ErrNoAnswerKeys
	}

	return keys, nil
}

func (u *answerKeyUsecase) GetAnswerKey(ctx context.Context, year int) (*model.AnswerKey, error) {
	key, err := u.answerKeyRepo.GetAnswerKeyByYear(ctx, year)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAnswerKeyNotFound
		}
		return nil, err
	}

	return key, nil
}

func (u *answerKeyUsecase) UpdateAnswerKey(ctx context.Context, year int, answers []string) (*model.AnswerKey, error) {
	answers = cleanAnswers(answers)
	if len(answers) == 0 {
		return nil, ErrEmptyAnswers
	}

	key, err := u.answerKeyRepo.UpdateAnswerKeyByYear(ctx, year, answers)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAnswerKeyNotFound
		}
		return nil, err
	}

	return key, nil
}

func (u *answerKeyUsecase) DeleteAnswerKey(ctx context.Context, year int) (*model.AnswerKey, error) {
	key, err := u.answerKeyRepo.DeleteAnswerKeyByYear(ctx, year)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAnswerKeyNotFound
		}
		return nil, err
	}

	return key, nil
}

func (u *answerKeyUsecase) CheckAnswer(ctx context.Context, player Player, answer string) (bool, error) {
	key, err := u.GetAnswerKey(ctx, player.Year)
	if err != nil {
		return false, err
	}

	guess := normalizeAnswer(answer)
	correct := false
	if guess != "" {
		for _, accepted := range key.Answers {
			if normalizeAnswer(accepted) == guess {
				correct = true
				break
			}
		}
	}

	result := "wrong"
	if correct {
		result = "correct"
	}
	metrics.Submissions.WithLabelValues("round3_answer", result).Inc()

	return correct, nil
}

func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

func cleanAnswers(answers []string) []string {
	cleaned := make([]string, 0, len(answers))
	for _, a := range answers {
		if a = strings.TrimSpace(a); a != "" {
			cleaned = append(cleaned, a)
		}
	}
	return cleaned
}
