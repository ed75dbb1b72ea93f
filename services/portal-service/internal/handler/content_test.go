package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/grader"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/repository"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/usecase"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/utilities"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Count   *int              `json:"count"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestCreateQuestion(t *testing.T) {
	h := NewQuestionHandler(&fakeQuestionUsecase{
		createFn: func(params usecase.QuestionParams, steg bool) (*model.Question, error) {
			if params.Title == "dup" {
				return nil, usecase.ErrQuestionExists
			}
			assert.False(t, steg)
			return &model.Question{ID: bson.NewObjectID(), Title: params.Title, Year: params.Year}, nil
		},
	}, utilities.NewValidator(), &nopLogger)

	body := `{"title":"%s","descp":"d","qn":"q","ans":"a","type":"riddle","yr":1}`

	rec := httptest.NewRecorder()
	h.CreateQuestion(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Replace(body, "%s", "ok", 1))))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)

	rec = httptest.NewRecorder()
	h.CreateQuestion(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Replace(body, "%s", "dup", 1))))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Already Exist", decodeEnvelope(t, rec).Message)

	rec = httptest.NewRecorder()
	h.CreateQuestion(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x","yr":3,"type":"essay"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "yr")
	assert.Contains(t, env.Errors, "type")
}

func TestListQuestionsHidesAnswers(t *testing.T) {
	h := NewQuestionHandler(&fakeQuestionUsecase{
		listFn: func(year int, steg bool) ([]*model.Question, error) {
			if year != 1 {
				return nil, usecase.ErrNoQuestions
			}
			return []*model.Question{{Title: "t", Answer: "secret", Year: 1}}, nil
		},
	}, utilities.NewValidator(), &nopLogger)

	rec := httptest.NewRecorder()
	h.ListQuestions(rec, httptest.NewRequest(http.MethodGet, "/?yr=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)
	assert.NotContains(t, string(env.Data), "secret")

	rec = httptest.NewRecorder()
	h.ListQuestions(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide a year", decodeEnvelope(t, rec).Message)

	rec = httptest.NewRecorder()
	h.ListStegQuestions(rec, httptest.NewRequest(http.MethodGet, "/?yr=2", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No question given for the provided year", decodeEnvelope(t, rec).Message)
}

func TestGetQuestionHidesAnswer(t *testing.T) {
	id := bson.NewObjectID()
	h := NewQuestionHandler(&fakeQuestionUsecase{
		getFn: func(gotID string, steg bool) (*model.Question, error) {
			assert.False(t, steg)
			if gotID != id.Hex() {
				return nil, usecase.ErrQuestionNotFound
			}
			return &model.Question{ID: id, Title: "t", Question: "q", Answer: "secret-answer", Year: 1}, nil
		},
	}, utilities.NewValidator(), &nopLogger)

	r := chi.NewRouter()
	r.Get("/questions/{id}", h.GetQuestion)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withPlayer(httptest.NewRequest(http.MethodGet, "/questions/"+id.Hex(), nil), "a@x.com", 1))
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "q", data["qn"])
	assert.NotContains(t, data, "ans")
	assert.NotContains(t, string(env.Data), "secret-answer")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/questions/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Question not found", decodeEnvelope(t, rec).Message)
}

func TestUpdateQuestionPassesOnlyPresentFields(t *testing.T) {
	id := bson.NewObjectID().Hex()
	h := NewQuestionHandler(&fakeQuestionUsecase{
		updateFn: func(gotID string, params repository.UpdateQuestionParams) (*model.Question, error) {
			assert.Equal(t, id, gotID)
			require.NotNil(t, params.Answer)
			assert.Equal(t, "new", *params.Answer)
			assert.Nil(t, params.Title)
			return &model.Question{Answer: "new"}, nil
		},
	}, utilities.NewValidator(), &nopLogger)

	r := chi.NewRouter()
	r.Put("/questions/{id}", h.UpdateQuestion)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/questions/"+id, strings.NewReader(`{"ans":"new"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitRoundOneAnswer(t *testing.T) {
	h := NewQuestionHandler(&fakeQuestionUsecase{
		submitFn: func(player usecase.Player, id, answer string, steg bool) (*usecase.AnswerResult, error) {
			assert.Equal(t, usecase.Player{Email: "a@x.com", Year: 1}, player)
			if id == "other" {
				return nil, usecase.ErrWrongYear
			}
			return &usecase.AnswerResult{Correct: answer == "yes", Score: 1}, nil
		},
	}, utilities.NewValidator(), &nopLogger)

	rec := httptest.NewRecorder()
	req := withPlayer(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"questionId":"q","answer":"yes"}`)), "a@x.com", 1)
	h.SubmitAnswer(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Correct answer", decodeEnvelope(t, rec).Message)

	rec = httptest.NewRecorder()
	req = withPlayer(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"questionId":"other","answer":"yes"}`)), "a@x.com", 1)
	h.SubmitAnswer(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAnswerKeyHandlers(t *testing.T) {
	h := NewAnswerKeyHandler(&fakeAnswerKeyUsecase{
		createFn: func(year int, answers []string) (*model.AnswerKey, error) {
			if year == 2 {
				return nil, usecase.ErrAnswerKeyExists
			}
			return &model.AnswerKey{Year: year, Answers: answers}, nil
		},
		listFn: func() ([]*model.AnswerKey, error) { return nil, usecase.ErrNoAnswerKeys },
		checkFn: func(player usecase.Player, answer string) (bool, error) {
			assert.Equal(t, 2, player.Year)
			return answer == "vecna", nil
		},
	}, utilities.NewValidator(), &nopLogger)

	rec := httptest.NewRecorder()
	h.CreateAnswerKey(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"answer":["hawkins"],"yr":1}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.CreateAnswerKey(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"answer":["x"],"yr":2}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Answer for year 2 already exists", decodeEnvelope(t, rec).Message)

	rec = httptest.NewRecorder()
	h.CreateAnswerKey(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"yr":1}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Answer and year are required", decodeEnvelope(t, rec).Message)

	rec = httptest.NewRecorder()
	h.ListAnswerKeys(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No answers found", decodeEnvelope(t, rec).Message)

	rec = httptest.NewRecorder()
	h.SubmitAnswer(rec, withPlayer(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"answer":"vecna"}`)), "b@x.com", 2))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, map[string]any{"success": true, "isCorrect": true, "message": "Correct answer"}, resp)
}

func TestAnswerKeyReadsHideAnswers(t *testing.T) {
	key := &model.AnswerKey{ID: bson.NewObjectID(), Answers: []string{"upside down"}, Year: 1}
	h := NewAnswerKeyHandler(&fakeAnswerKeyUsecase{
		listFn: func() ([]*model.AnswerKey, error) { return []*model.AnswerKey{key}, nil },
		getFn: func(year int) (*model.AnswerKey, error) {
			if year != 1 {
				return nil, usecase.ErrAnswerKeyNotFound
			}
			return key, nil
		},
	}, utilities.NewValidator(), &nopLogger)

	r := chi.NewRouter()
	r.Get("/answers", h.ListAnswerKeys)
	r.Get("/answers/{year}", h.GetAnswerKey)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/answers", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, string(env.Data), `"yr":1`)
	assert.NotContains(t, string(env.Data), "upside down")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/answers/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var data map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.NotContains(t, data, "answer")

	assert.Equal(t, []string{"upside down"}, key.Answers)
}

func TestProgressHandlers(t *testing.T) {
	h := NewProgressHandler(&fakeProgressionUsecase{
		completeFn: func(usecase.Player) (*usecase.ProgressView, error) { return nil, usecase.ErrWrongRound },
		submitFn: func(_ usecase.Player, index int, code string) (*usecase.PuzzleSubmission, error) {
			assert.Equal(t, 0, index)
			return &usecase.PuzzleSubmission{
				Result:   &grader.Result{SubmissionID: "s1", Correct: true, Message: "Correct! All tests passed. Fragment collected."},
				Progress: &usecase.ProgressView{Round: "round2"},
			}, nil
		},
		passwordFn: func(_ usecase.Player, password string) (*usecase.PasswordSubmission, error) {
			return &usecase.PasswordSubmission{Correct: false}, nil
		},
	}, utilities.NewValidator(), &nopLogger)

	rec := httptest.NewRecorder()
	h.CompleteRoundOne(rec, withPlayer(httptest.NewRequest(http.MethodPost, "/", nil), "a@x.com", 1))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// puzzle 0 must be accepted even though it is the zero value.
	rec = httptest.NewRecorder()
	h.SubmitPuzzle(rec, withPlayer(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"puzzle":0,"code":"x"}`)), "a@x.com", 1))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Correct! All tests passed. Fragment collected.", decodeEnvelope(t, rec).Message)

	rec = httptest.NewRecorder()
	h.SubmitPuzzle(rec, withPlayer(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"x"}`)), "a@x.com", 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.SubmitPassword(rec, withPlayer(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"password":"nope"}`)), "a@x.com", 1))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Incorrect password", decodeEnvelope(t, rec).Message)
}

func TestPortal(t *testing.T) {
	h := NewPortalHandler()

	rec := httptest.NewRecorder()
	h.Portal(rec, withPlayer(httptest.NewRequest(http.MethodGet, "/", nil), "b@x.com", 2))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PortalResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Welcome to Year 2 Portal", resp.Message)
	assert.Equal(t, PortalUser{Email: "b@x.com", Year: 2}, resp.User)
	assert.Equal(t, []string{"Data Structures", "OOP in Java", "DBMS"}, resp.Subjects)
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(nil, &nopLogger)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
