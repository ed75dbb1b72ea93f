package grader

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/executor"
)

// Result is the outcome of grading one round two submission.
type Result struct {
	SubmissionID string       `json:"submissionId"`
	Puzzle       int          `json:"puzzle"`
	Correct      bool         `json:"correct"`
	TextMatch    bool         `json:"-"`
	Executed     bool         `json:"executed"`
	Cases        []CaseResult `json:"cases,omitempty"`
	HiddenPassed int          `json:"hiddenPassed"`
	HiddenTotal  int          `json:"hiddenTotal"`
	Output       string       `json:"output,omitempty"`
	Message      string       `json:"message"`
	// Fragment is only set on a correct submission.
	Fragment string `json:"fragment,omitempty"`
}

// Grader grades round two submissions. A nil executor grades on the
// reference comparison alone.
type Grader struct {
	catalog  *Catalog
	executor executor.Executor
	logger   *zerolog.Logger
}

// NewGrader creates a new Grader.
func NewGrader(logger *zerolog.Logger, catalog *Catalog, exec executor.Executor) *Grader {
	return &Grader{
		catalog:  catalog,
		executor: exec,
		logger:   logger,
	}
}

// Catalog returns the puzzle catalog used by the grader.
func (g *Grader) Catalog() *Catalog {
	return g.catalog
}

// Grade checks source against puzzle index of year. A submission is
// correct when it matches the reference fix after normalization and, with
// an executor configured, every visible and hidden test passes. Execution
// failures, timeouts included, only make the attempt incorrect.
func (g *Grader) Grade(ctx context.Context, year, index int, source string) (*Result, error) {
	puzzle, lang, err := g.catalog.Puzzle(year, index)
	if err != nil {
		return nil, err
	}

	result := &Result{
		SubmissionID: uuid.NewString(),
		Puzzle:       index,
		TextMatch:    NormalizeCode(source) == NormalizeCode(puzzle.Fixed),
		HiddenTotal:  len(puzzle.Hidden),
	}

	allPassed := true
	if g.executor != nil {
		allPassed = g.run(ctx, lang, puzzle, source, result)
	}

	result.Correct = result.TextMatch && allPassed
	switch {
	case result.Correct:
		result.Fragment = puzzle.Fragment
		result.Message = "Correct! All tests passed. Fragment collected."
	case result.Message == "":
		result.Message = "Some tests failed. Fix issues and try again."
	}

	return result, nil
}

func (g *Grader) run(ctx context.Context, lang executor.Language, puzzle Puzzle, source string, result *Result) bool {
	visibleTotal := len(puzzle.Visible) + 1

	run, err := g.executor.Execute(ctx, lang, buildHarness(lang, puzzle, source))
	if err != nil {
		g.logger.Warn().Err(err).Str("submission_id", result.SubmissionID).Msg("code execution failed")

		if errors.Is(err, executor.ErrTimeout) {
			result.Message = "Execution timed out. Please try again."
		} else {
			result.Message = "Execution service error. Please try again."
		}
		return false
	}

	result.Executed = true
	result.Output = strings.TrimSpace(strings.TrimSpace(run.Stdout) + "\n" + strings.TrimSpace(run.Stderr))

	var (
		out harnessOutput
		ok  bool
	)
	if lang == executor.LangC {
		out, ok = parseCOutput(run.Stdout, visibleTotal)
	} else {
		out, ok = parsePythonOutput(run.Stdout, visibleTotal)
	}

	result.Cases = out.cases
	result.HiddenPassed = out.hidden

	if !ok {
		if stderr := strings.TrimSpace(run.Stderr); stderr != "" {
			result.Message = "Runtime error: " + stderr
		} else {
			result.Message = "Could not parse program output."
		}
		return false
	}

	for _, passed := range out.visible {
		if !passed {
			return false
		}
	}

	return out.hidden == len(puzzle.Hidden)
}

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeCode collapses whitespace runs to a single space, trims and
// lowercases source so formatting differences do not matter.
func NormalizeCode(source string) string {
	return strings.ToLower(strings.TrimSpace(whitespace.ReplaceAllString(source, " ")))
}
