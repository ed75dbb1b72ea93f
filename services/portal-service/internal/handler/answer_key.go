package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/payload"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/usecase"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/utilities"
)

type AnswerKeyHandler struct {
	answerKeyUsecase usecase.AnswerKeyUsecase
	validator        *utilities.Validator
	logger           *zerolog.Logger
}

func NewAnswerKeyHandler(
	answerKeyUsecase usecase.AnswerKeyUsecase,
	validator *utilities.Validator,
	logger *zerolog.Logger,
) *AnswerKeyHandler {
	return &AnswerKeyHandler{
		answerKeyUsecase: answerKeyUsecase,
		validator:        validator,
		logger:           logger,
	}
}

func (h *AnswerKeyHandler) CreateAnswerKey(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateAnswerKeyRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Answer and year are required") {
		return
	}

	key, err := h.answerKeyUsecase.CreateAnswerKey(r.Context(), req.Year, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAnswerKeyExists):
			utilities.WriteEnvelope(w, http.StatusConflict, fmt.Sprintf("Answer for year %d already exists", req.Year), nil)
		case errors.Is(err, usecase.ErrEmptyAnswers):
			utilities.WriteEnvelope(w, http.StatusBadRequest, "Answer and year are required", nil)
		default:
			h.internalError(w, err, "failed to create answer key")
		}
		return
	}

	utilities.WriteEnvelope(w, http.StatusCreated, fmt.Sprintf("Answer for year %d created successfully", req.Year), key)
}

func (h *AnswerKeyHandler) ListAnswerKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.answerKeyUsecase.ListAnswerKeys(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrNoAnswerKeys) {
			utilities.WriteEnvelope(w, http.StatusNotFound, "No answers found", nil)
			return
		}
		h.internalError(w, err, "failed to list answer keys")
		return
	}

	public := make([]model.AnswerKey, 0, len(keys))
	for _, k := range keys {
		public = append(public, k.Public())
	}

	utilities.WriteEnvelope(w, http.StatusOK, "", public)
}

func (h *AnswerKeyHandler) GetAnswerKey(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	key, err := h.answerKeyUsecase.GetAnswerKey(r.Context(), year)
	if err != nil {
		h.notFoundOrInternal(w, err, fmt.Sprintf("No answer found for year %d", year))
		return
	}

	utilities.WriteEnvelope(w, http.StatusOK, "", key.Public())
}

func (h *AnswerKeyHandler) UpdateAnswerKey(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	var req payload.UpdateAnswerKeyRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Answer is required") {
		return
	}

	key, err := h.answerKeyUsecase.UpdateAnswerKey(r.Context(), year, req.Answer)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyAnswers) {
			utilities.WriteEnvelope(w, http.StatusBadRequest, "Answer is required", nil)
			return
		}
		h.notFoundOrInternal(w, err, fmt.Sprintf("No existing answer for year %d to update", year))
		return
	}

	utilities.WriteEnvelope(w, http.StatusOK, fmt.Sprintf("Answer for year %d updated successfully", year), key)
}

func (h *AnswerKeyHandler) DeleteAnswerKey(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	if _, err := h.answerKeyUsecase.DeleteAnswerKey(r.Context(), year); err != nil {
		h.notFoundOrInternal(w, err, fmt.Sprintf("No answer found for year %d", year))
		return
	}

	utilities.WriteEnvelope(w, http.StatusOK, fmt.Sprintf("Answer for year %d deleted successfully", year), nil)
}

// SubmitAnswer checks a round three answer against the caller's cohort key.
func (h *AnswerKeyHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	player, ok := playerFromRequest(w, r)
	if !ok {
		return
	}

	var req payload.SubmitRoundThreeRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Answer is required") {
		return
	}

	correct, err := h.answerKeyUsecase.CheckAnswer(r.Context(), player, req.Answer)
	if err != nil {
		h.notFoundOrInternal(w, err, "No answer key found for this year")
		return
	}

	message := "Wrong answer"
	if correct {
		message = "Correct answer"
	}

	utilities.WriteJSON(w, http.StatusOK, payload.SubmitRoundThreeResponse{
		Success:   true,
		IsCorrect: correct,
		Message:   message,
	})
}

func (h *AnswerKeyHandler) notFoundOrInternal(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, usecase.ErrAnswerKeyNotFound) {
		utilities.WriteEnvelope(w, http.StatusNotFound, notFound, nil)
		return
	}
	h.internalError(w, err, "answer key request failed")
}

func (h *AnswerKeyHandler) internalError(w http.ResponseWriter, err error, msg string) {
	h.logger.Error().Err(err).Msg(msg)
	utilities.WriteEnvelope(w, http.StatusInternalServerError, internalServerError, nil)
}

func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		utilities.WriteEnvelope(w, http.StatusBadRequest, "Please provide a year", nil)
		return 0, false
	}

	return year, true
}
