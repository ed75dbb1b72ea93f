package handler

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/middleware"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/repository"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/usecase"
	portaltypes "github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/pkg/types"
)

var nopLogger = zerolog.Nop()

func withPlayer(r *http.Request, email string, year int) *http.Request {
	claims := &portaltypes.SessionClaims{Email: email, Year: year, RegisteredClaims: jwt.RegisteredClaims{}}
	return r.WithContext(context.WithValue(r.Context(), middleware.UserClaimsKey, claims))
}

type fakeOTPUsecase struct {
	requestFn func(ctx context.Context, email string) error
	verifyFn  func(ctx context.Context, email, code string) (*portaltypes.SessionToken, error)
}

func (f *fakeOTPUsecase) RequestOTP(ctx context.Context, email string) error {
	return f.requestFn(ctx, email)
}

func (f *fakeOTPUsecase) VerifyOTP(ctx context.Context, email, code string) (*portaltypes.SessionToken, error) {
	return f.verifyFn(ctx, email, code)
}

type fakeQuestionUsecase struct {
	usecase.QuestionUsecase

	createFn func(params usecase.QuestionParams, steg bool) (*model.Question, error)
	getFn    func(id string, steg bool) (*model.Question, error)
	listFn   func(year int, steg bool) ([]*model.Question, error)
	updateFn func(id string, params repository.UpdateQuestionParams) (*model.Question, error)
	submitFn func(player usecase.Player, id, answer string, steg bool) (*usecase.AnswerResult, error)
}

func (f *fakeQuestionUsecase) CreateQuestion(_ context.Context, params usecase.QuestionParams, steg bool) (*model.Question, error) {
	return f.createFn(params, steg)
}

func (f *fakeQuestionUsecase) GetQuestion(_ context.Context, id string, steg bool) (*model.Question, error) {
	return f.getFn(id, steg)
}

func (f *fakeQuestionUsecase) ListQuestions(_ context.Context, year int, steg bool) ([]*model.Question, error) {
	return f.listFn(year, steg)
}

func (f *fakeQuestionUsecase) UpdateQuestion(
	_ context.Context,
	id string,
	params repository.UpdateQuestionParams,
	_ bool,
) (*model.Question, error) {
	return f.updateFn(id, params)
}

func (f *fakeQuestionUsecase) SubmitAnswer(
	_ context.Context,
	player usecase.Player,
	id, answer string,
	steg bool,
) (*usecase.AnswerResult, error) {
	return f.submitFn(player, id, answer, steg)
}

type fakeAnswerKeyUsecase struct {
	usecase.AnswerKeyUsecase

	createFn func(year int, answers []string) (*model.AnswerKey, error)
	listFn   func() ([]*model.AnswerKey, error)
	getFn    func(year int) (*model.AnswerKey, error)
	checkFn  func(player usecase.Player, answer string) (bool, error)
}

func (f *fakeAnswerKeyUsecase) CreateAnswerKey(_ context.Context, year int, answers []string) (*model.AnswerKey, error) {
	return f.createFn(year, answers)
}

func (f *fakeAnswerKeyUsecase) ListAnswerKeys(context.Context) ([]*model.AnswerKey, error) {
	return f.listFn()
}

func (f *fakeAnswerKeyUsecase) GetAnswerKey(_ context.Context, year int) (*model.AnswerKey, error) {
	return f.getFn(year)
}

func (f *fakeAnswerKeyUsecase) CheckAnswer(_ context.Context, player usecase.Player, answer string) (bool, error) {
	return f.checkFn(player, answer)
}

type fakeProgressionUsecase struct {
	usecase.ProgressionUsecase

	completeFn func(player usecase.Player) (*usecase.ProgressView, error)
	submitFn   func(player usecase.Player, index int, code string) (*usecase.PuzzleSubmission, error)
	passwordFn func(player usecase.Player, password string) (*usecase.PasswordSubmission, error)
}

func (f *fakeProgressionUsecase) CompleteRoundOne(_ context.Context, player usecase.Player) (*usecase.ProgressView, error) {
	return f.completeFn(player)
}

func (f *fakeProgressionUsecase) SubmitPuzzle(
	_ context.Context,
	player usecase.Player,
	index int,
	code string,
) (*usecase.PuzzleSubmission, error) {
	return f.submitFn(player, index, code)
}

func (f *fakeProgressionUsecase) SubmitPassword(
	_ context.Context,
	player usecase.Player,
	password string,
) (*usecase.PasswordSubmission, error) {
	return f.passwordFn(player, password)
}

