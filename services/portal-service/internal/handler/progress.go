package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/payload"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/usecase"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/utilities"
)

type ProgressHandler struct {
	progressionUsecase usecase.ProgressionUsecase
	validator          *utilities.Validator
	logger             *zerolog.Logger
}

func NewProgressHandler(
	progressionUsecase usecase.ProgressionUsecase,
	validator *utilities.Validator,
	logger *zerolog.Logger,
) *ProgressHandler {
	return &ProgressHandler{
		progressionUsecase: progressionUsecase,
		validator:          validator,
		logger:             logger,
	}
}

func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	player, ok := playerFromRequest(w, r)
	if !ok {
		return
	}

	view, err := h.progressionUsecase.GetProgress(r.Context(), player)
	if err != nil {
		h.writeError(w, err)
		return
	}

	utilities.WriteEnvelope(w, http.StatusOK, "", view)
}

func (h *ProgressHandler) CompleteRoundOne(w http.ResponseWriter, r *http.Request) {
	player, ok := playerFromRequest(w, r)
	if !ok {
		return
	}

	view, err := h.progressionUsecase.CompleteRoundOne(r.Context(), player)
	if err != nil {
		h.writeError(w, err)
		return
	}

	utilities.WriteEnvelope(w, http.StatusOK, "Round 1 complete", view)
}

func (h *ProgressHandler) Puzzles(w http.ResponseWriter, r *http.Request) {
	player, ok := playerFromRequest(w, r)
	if !ok {
		return
	}

	puzzles, err := h.progressionUsecase.Puzzles(r.Context(), player)
	if err != nil {
		h.writeError(w, err)
		return
	}

	count := len(puzzles)
	utilities.WriteJSON(w, http.StatusOK, utilities.EnvelopeResponse{
		Success: true,
		Count:   &count,
		Data:    puzzles,
	})
}

func (h *ProgressHandler) SubmitPuzzle(w http.ResponseWriter, r *http.Request) {
	player, ok := playerFromRequest(w, r)
	if !ok {
		return
	}

	var req payload.SubmitPuzzleRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Puzzle and code are required") {
		return
	}

	submission, err := h.progressionUsecase.SubmitPuzzle(r.Context(), player, *req.Puzzle, req.Code)
	if err != nil {
		h.writeError(w, err)
		return
	}

	utilities.WriteEnvelope(w, http.StatusOK, submission.Result.Message, submission)
}

func (h *ProgressHandler) SubmitPassword(w http.ResponseWriter, r *http.Request) {
	player, ok := playerFromRequest(w, r)
	if !ok {
		return
	}

	var req payload.SubmitPasswordRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Password is required") {
		return
	}

	submission, err := h.progressionUsecase.SubmitPassword(r.Context(), player, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	message := "Incorrect password"
	if submission.Correct {
		message = "Correct password. The gate is closed."
	}

	utilities.WriteEnvelope(w, http.StatusOK, message, submission)
}

func (h *ProgressHandler) Reset(w http.ResponseWriter, r *http.Request) {
	player, ok := playerFromRequest(w, r)
	if !ok {
		return
	}

	view, err := h.progressionUsecase.Reset(r.Context(), player)
	if err != nil {
		h.writeError(w, err)
		return
	}

	utilities.WriteEnvelope(w, http.StatusOK, "Progress reset", view)
}

func (h *ProgressHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrWrongRound):
		utilities.WriteEnvelope(w, http.StatusConflict, "This action is not available in your current round", nil)
	case errors.Is(err, usecase.ErrUnknownPuzzle):
		utilities.WriteEnvelope(w, http.StatusNotFound, "Puzzle not found", nil)
	default:
		h.logger.Error().Err(err).Msg("progression request failed")
		utilities.WriteEnvelope(w, http.StatusInternalServerError, internalServerError, nil)
	}
}
