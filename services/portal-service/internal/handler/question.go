package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/payload"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/repository"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/usecase"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/utilities"
)

type QuestionHandler struct {
	questionUsecase usecase.QuestionUsecase
	validator       *utilities.Validator
	logger          *zerolog.Logger
}

func NewQuestionHandler(
	questionUsecase usecase.QuestionUsecase,
	validator *utilities.Validator,
	logger *zerolog.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		questionUsecase: questionUsecase,
		validator:       validator,
		logger:          logger,
	}
}

func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateQuestionRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Missing fields in request") {
		return
	}

	h.create(w, r, questionParams(req, ""), false)
}

func (h *QuestionHandler) CreateStegQuestion(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateStegQuestionRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Missing fields in request") {
		return
	}

	h.create(w, r, questionParams(req.CreateQuestionRequest, req.URL), true)
}

func (h *QuestionHandler) create(w http.ResponseWriter, r *http.Request, params usecase.QuestionParams, steg bool) {
	question, err := h.questionUsecase.CreateQuestion(r.Context(), params, steg)
	if err != nil {
		h.writeError(w, err, "failed to create question")
		return
	}

	utilities.WriteEnvelope(w, http.StatusCreated, "Question added successfully", question)
}

func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *QuestionHandler) ListStegQuestions(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// Reads hide answers, since players read the same records.
func (h *QuestionHandler) list(w http.ResponseWriter, r *http.Request, steg bool) {
	year, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("yr")))
	if err != nil {
		utilities.WriteEnvelope(w, http.StatusBadRequest, "Please provide a year", nil)
		return
	}

	questions, err := h.questionUsecase.ListQuestions(r.Context(), year, steg)
	if err != nil {
		h.writeError(w, err, "failed to list questions")
		return
	}

	public := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.Public())
	}

	count := len(public)
	utilities.WriteJSON(w, http.StatusOK, utilities.EnvelopeResponse{
		Success: true,
		Count:   &count,
		Data:    public,
	})
}

func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.questionUsecase.GetQuestion(r.Context(), chi.URLParam(r, "id"), false)
	if err != nil {
		h.writeError(w, err, "failed to get question")
		return
	}

	utilities.WriteEnvelope(w, http.StatusOK, "", question.Public())
}

func (h *QuestionHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateQuestionRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Invalid update fields or data") {
		return
	}

	params := repository.UpdateQuestionParams{
		Title:       req.Title,
		Description: req.Description,
		Question:    req.Question,
		Answer:      req.Answer,
		URL:         req.URL,
		Year:        req.Year,
	}
	if req.Type != nil {
		t := model.QuestionType(*req.Type)
		params.Type = &t
	}

	question, err := h.questionUsecase.UpdateQuestion(r.Context(), chi.URLParam(r, "id"), params, false)
	if err != nil {
		h.writeError(w, err, "failed to update question")
		return
	}

	utilities.WriteEnvelope(w, http.StatusOK, "question updated successfully", question)
}

func (h *QuestionHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if _, err := h.questionUsecase.DeleteQuestion(r.Context(), chi.URLParam(r, "id"), false); err != nil {
		h.writeError(w, err, "failed to delete question")
		return
	}

	utilities.WriteEnvelope(w, http.StatusOK, "question deleted successfully", nil)
}

func (h *QuestionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, false)
}

func (h *QuestionHandler) SubmitStegAnswer(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, true)
}

func (h *QuestionHandler) submit(w http.ResponseWriter, r *http.Request, steg bool) {
	player, ok := playerFromRequest(w, r)
	if !ok {
		return
	}

	var req payload.SubmitAnswerRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Question and answer are required") {
		return
	}

	result, err := h.questionUsecase.SubmitAnswer(r.Context(), player, req.QuestionID, req.Answer, steg)
	if err != nil {
		h.writeError(w, err, "failed to submit answer")
		return
	}

	message := "Wrong answer"
	if result.Correct {
		message = "Correct answer"
	}

	utilities.WriteEnvelope(w, http.StatusOK, message, result)
}

func (h *QuestionHandler) AnsweredQuestions(w http.ResponseWriter, r *http.Request) {
	player, ok := playerFromRequest(w, r)
	if !ok {
		return
	}

	attempts, err := h.questionUsecase.AnsweredQuestions(r.Context(), player)
	if err != nil {
		h.writeError(w, err, "failed to list answered questions")
		return
	}
	if attempts == nil {
		attempts = []*model.RoundOneAttempt{}
	}

	count := len(attempts)
	utilities.WriteJSON(w, http.StatusOK, utilities.EnvelopeResponse{
		Success: true,
		Count:   &count,
		Data:    attempts,
	})
}

func (h *QuestionHandler) Score(w http.ResponseWriter, r *http.Request) {
	player, ok := playerFromRequest(w, r)
	if !ok {
		return
	}

	score, err := h.questionUsecase.Score(r.Context(), player)
	if err != nil {
		h.writeError(w, err, "failed to compute score")
		return
	}

	utilities.WriteEnvelope(w, http.StatusOK, "", map[string]int64{"score": score})
}

func (h *QuestionHandler) writeError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, usecase.ErrQuestionExists):
		utilities.WriteEnvelope(w, http.StatusConflict, "Already Exist", nil)
	case errors.Is(err, usecase.ErrNoQuestions):
		utilities.WriteEnvelope(w, http.StatusNotFound, "No question given for the provided year", nil)
	case errors.Is(err, usecase.ErrQuestionNotFound), errors.Is(err, usecase.ErrInvalidQuestionID):
		utilities.WriteEnvelope(w, http.StatusNotFound, "Question not found", nil)
	case errors.Is(err, usecase.ErrWrongYear):
		utilities.WriteEnvelope(w, http.StatusForbidden, "Access denied: Not your year portal", nil)
	default:
		h.logger.Error().Err(err).Msg(logMsg)
		utilities.WriteEnvelope(w, http.StatusInternalServerError, internalServerError, nil)
	}
}

func questionParams(req payload.CreateQuestionRequest, url string) usecase.QuestionParams {
	return usecase.QuestionParams{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Question:    strings.TrimSpace(req.Question),
		Answer:      strings.TrimSpace(req.Answer),
		Type:        model.QuestionType(req.Type),
		URL:         url,
		Year:        req.Year,
	}
}
