package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/config"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/grader"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/progression"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/repository"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/metrics"
)

// ProgressionUsecase drives a player through the three rounds. The stored
// progress is the source of truth; clients only render it.
type ProgressionUsecase interface {
	GetProgress(ctx context.Context, player Player) (*ProgressView, error)
	CompleteRoundOne(ctx context.Context, player Player) (*ProgressView, error)
	Puzzles(ctx context.Context, player Player) ([]grader.PuzzleView, error)
	SubmitPuzzle(ctx context.Context, player Player, index int, code string) (*PuzzleSubmission, error)
	SubmitPassword(ctx context.Context, player Player, password string) (*PasswordSubmission, error)
	Reset(ctx context.Context, player Player) (*ProgressView, error)
}

// ProgressView is the client facing progress. The final password itself is
// never included.
type ProgressView struct {
	Round            string     `json:"round"`
	Year             int        `json:"year"`
	Fragments        []string   `json:"fragments"`
	CompletedPuzzles []int      `json:"completedPuzzles"`
	TotalPuzzles     int        `json:"totalPuzzles"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// PuzzleSubmission is the outcome of a round two submission.
type PuzzleSubmission struct {
	Result   *grader.Result `json:"result"`
	Progress *ProgressView  `json:"progress"`
}

// PasswordSubmission is the outcome of a round three password guess.
type PasswordSubmission struct {
	Correct  bool          `json:"correct"`
	Progress *ProgressView `json:"progress"`
}

var (
	ErrWrongRound    = errors.New("action is not allowed in the current round")
	ErrUnknownPuzzle = errors.New("unknown puzzle")
)

type progressionUsecase struct {
	progressRepo     repository.ProgressRepository
	grader           *grader.Grader
	portalServiceCfg *config.PortalServiceConfig
	logger           *zerolog.Logger
	now              func() time.Time
}

// NewProgressionUsecase creates a new instance of ProgressionUsecase.
func NewProgressionUsecase(
	progressRepo repository.ProgressRepository,
	grader *grader.Grader,
	portalServiceCfg *config.PortalServiceConfig,
	logger *zerolog.Logger,
) ProgressionUsecase {
	return &progressionUsecase{
		progressRepo:     progressRepo,
		grader:           grader,
		portalServiceCfg: portalServiceCfg,
		logger:           logger,
		now:              time.Now,
	}
}

func (u *progressionUsecase) GetProgress(ctx context.Context, player Player) (*ProgressView, error) {
	progress, _, err := u.load(ctx, player)
	if err != nil {
		return nil, err
	}

	return u.view(progress), nil
}

func (u *progressionUsecase) CompleteRoundOne(ctx context.Context, player Player) (*ProgressView, error) {
	progress, state, err := u.load(ctx, player)
	if err != nil {
		return nil, err
	}

	if err := state.CompleteRoundOne(); err != nil {
		return nil, mapProgressionError(err)
	}

	return u.save(ctx, progress, state)
}

func (u *progressionUsecase) Puzzles(ctx context.Context, player Player) ([]grader.PuzzleView, error) {
	views, err := u.grader.Catalog().Views(player.Year)
	if err != nil {
		if errors.Is(err, grader.ErrUnknownYear) {
			return nil, ErrUnknownPuzzle
		}
		return nil, err
	}

	return views, nil
}

func (u *progressionUsecase) SubmitPuzzle(
	ctx context.Context,
	player Player,
	index int,
	code string,
) (*PuzzleSubmission, error) {
	progress, state, err := u.load(ctx, player)
	if err != nil {
		return nil, err
	}

	if state.Round != progression.Round2 {
		return nil, ErrWrongRound
	}

	result, err := u.grader.Grade(ctx, player.Year, index, code)
	if err != nil {
		if errors.Is(err, grader.ErrUnknownPuzzle) || errors.Is(err, grader.ErrUnknownYear) {
			return nil, ErrUnknownPuzzle
		}
		return nil, err
	}

	u.logger.Info().
		Str("submission_id", result.SubmissionID).
		Str("email", player.Email).
		Int("puzzle", index).
		Bool("correct", result.Correct).
		Msg("round two submission graded")

	if !result.Correct {
		metrics.Submissions.WithLabelValues("round2", "wrong").Inc()
		return &PuzzleSubmission{Result: result, Progress: u.view(progress)}, nil
	}
	metrics.Submissions.WithLabelValues("round2", "correct").Inc()

	total := u.grader.Catalog().Count(player.Year)
	if err := state.SolvePuzzle(index, total, result.Fragment); err != nil {
		return nil, mapProgressionError(err)
	}

	view, err := u.save(ctx, progress, state)
	if err != nil {
		return nil, err
	}

	return &PuzzleSubmission{Result: result, Progress: view}, nil
}

func (u *progressionUsecase) SubmitPassword(
	ctx context.Context,
	player Player,
	password string,
) (*PasswordSubmission, error) {
	progress, state, err := u.load(ctx, player)
	if err != nil {
		return nil, err
	}

	correct, err := state.SubmitPassword(password, u.portalServiceCfg.Finale.FallbackPassword)
	if err != nil {
		return nil, mapProgressionError(err)
	}

	if !correct {
		metrics.Submissions.WithLabelValues("round3_password", "wrong").Inc()
		return &PasswordSubmission{Progress: u.view(progress)}, nil
	}
	metrics.Submissions.WithLabelValues("round3_password", "correct").Inc()

	now := u.now()
	progress.CompletedAt = &now

	view, err := u.save(ctx, progress, state)
	if err != nil {
		return nil, err
	}

	return &PasswordSubmission{Correct: true, Progress: view}, nil
}

func (u *progressionUsecase) Reset(ctx context.Context, player Player) (*ProgressView, error) {
	progress, state, err := u.load(ctx, player)
	if err != nil {
		return nil, err
	}

	state.Reset()
	progress.CompletedAt = nil

	return u.save(ctx, progress, state)
}

// load returns the stored progress of player, or a fresh round one
// progress when none exists yet.
func (u *progressionUsecase) load(ctx context.Context, player Player) (*model.Progress, *progression.State, error) {
	progress, err := u.progressRepo.GetProgress(ctx, player.Email)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, err
		}

		state := progression.New()
		return &model.Progress{
			Email: player.Email,
			Year:  player.Year,
			Round: string(state.Round),
		}, &state, nil
	}

	state, err := progression.Restore(progress.Round, progress.Fragments, progress.CompletedPuzzles)
	if err != nil {
		return nil, nil, fmt.Errorf("stored progress for %s: %w", player.Email, err)
	}

	return progress, &state, nil
}

func (u *progressionUsecase) save(
	ctx context.Context,
	progress *model.Progress,
	state *progression.State,
) (*ProgressView, error) {
	progress.Round = string(state.Round)
	progress.Fragments = state.Fragments
	progress.CompletedPuzzles = state.Completed

	saved, err := u.progressRepo.SaveProgress(ctx, progress)
	if err != nil {
		return nil, err
	}

	return u.view(saved), nil
}

func (u *progressionUsecase) view(progress *model.Progress) *ProgressView {
	view := &ProgressView{
		Round:            progress.Round,
		Year:             progress.Year,
		Fragments:        progress.Fragments,
		CompletedPuzzles: progress.CompletedPuzzles,
		TotalPuzzles:     u.grader.Catalog().Count(progress.Year),
		CompletedAt:      progress.CompletedAt,
	}
	if view.Fragments == nil {
		view.Fragments = []string{}
	}
	if view.CompletedPuzzles == nil {
		view.CompletedPuzzles = []int{}
	}

	return view
}

func mapProgressionError(err error) error {
	switch {
	case errors.Is(err, progression.ErrWrongRound):
		return ErrWrongRound
	case errors.Is(err, progression.ErrUnknownPuzzle):
		return ErrUnknownPuzzle
	default:
		return err
	}
}
