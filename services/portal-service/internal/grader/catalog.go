package grader

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/executor"
)

//go:embed puzzles.yaml
var defaultCatalog []byte

var (
	ErrUnknownYear   = errors.New("no puzzles for this year")
	ErrUnknownPuzzle = errors.New("unknown puzzle")
)

// Case is a visible test: call is evaluated and compared with expected.
type Case struct {
	Call     string `yaml:"call"`
	Expected string `yaml:"expected"`
}

// Puzzle is a round two debugging exercise.
type Puzzle struct {
	Function string   `yaml:"function"`
	Hint     string   `yaml:"hint"`
	Fragment string   `yaml:"fragment"`
	Code     string   `yaml:"code"`
	Fixed    string   `yaml:"fixed"`
	Visible  []Case   `yaml:"visible"`
	Hidden   []string `yaml:"hidden"`
}

type cohort struct {
	Year     int               `yaml:"year"`
	Language executor.Language `yaml:"language"`
	Puzzles  []Puzzle          `yaml:"puzzles"`
}

// Catalog holds the puzzles of every cohort.
type Catalog struct {
	cohorts map[int]cohort
}

// PuzzleView is what a player is shown before solving a puzzle.
type PuzzleView struct {
	Index        int      `json:"index"`
	Function     string   `json:"function"`
	Language     string   `json:"language"`
	Code         string   `json:"code"`
	Hint         string   `json:"hint"`
	VisibleTests []string `json:"visibleTests"`
	HiddenTests  int      `json:"hiddenTests"`
}

// DefaultCatalog returns the built-in puzzle catalog.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultCatalog)
}

// LoadCatalog parses a YAML puzzle catalog.
func LoadCatalog(data []byte) (*Catalog, error) {
	var cohorts []cohort
	if err := yaml.Unmarshal(data, &cohorts); err != nil {
		return nil, fmt.Errorf("failed to parse puzzle catalog: %w", err)
	}

	c := &Catalog{cohorts: make(map[int]cohort, len(cohorts))}
	for _, ch := range cohorts {
		if ch.Language != executor.LangPython && ch.Language != executor.LangC {
			return nil, fmt.Errorf("year %d: unsupported language %q", ch.Year, ch.Language)
		}
		if _, dup := c.cohorts[ch.Year]; dup {
			return nil, fmt.Errorf("year %d is defined twice", ch.Year)
		}
		if len(ch.Puzzles) == 0 {
			return nil, fmt.Errorf("year %d has no puzzles", ch.Year)
		}
		for i, p := range ch.Puzzles {
			if p.Function == "" || p.Fixed == "" || p.Fragment == "" {
				return nil, fmt.Errorf("year %d puzzle %d: function, fixed and fragment are required", ch.Year, i)
			}
		}
		c.cohorts[ch.Year] = ch
	}

	return c, nil
}

// Count returns the number of puzzles for year.
func (c *Catalog) Count(year int) int {
	return len(c.cohorts[year].Puzzles)
}

// Puzzle returns puzzle index of year.
func (c *Catalog) Puzzle(year, index int) (Puzzle, executor.Language, error) {
	ch, ok := c.cohorts[year]
	if !ok {
		return Puzzle{}, "", ErrUnknownYear
	}
	if index < 0 || index >= len(ch.Puzzles) {
		return Puzzle{}, "", ErrUnknownPuzzle
	}

	return ch.Puzzles[index], ch.Language, nil
}

// Views returns the player facing puzzles of year.
func (c *Catalog) Views(year int) ([]PuzzleView, error) {
	ch, ok := c.cohorts[year]
	if !ok {
		return nil, ErrUnknownYear
	}

	views := make([]PuzzleView, 0, len(ch.Puzzles))
	for i, p := range ch.Puzzles {
		labels := make([]string, 0, len(p.Visible)+1)
		for j := 0; j <= len(p.Visible); j++ {
			labels = append(labels, caseLabel(j))
		}

		views = append(views, PuzzleView{
			Index:        i,
			Function:     p.Function,
			Language:     string(ch.Language),
			Code:         p.Code,
			Hint:         p.Hint,
			VisibleTests: labels,
			HiddenTests:  len(p.Hidden),
		})
	}

	return views, nil
}

func caseLabel(i int) string {
	switch i {
	case 0:
		return "Function exists"
	case 1:
		return "Basic input case"
	default:
		return fmt.Sprintf("Edge case %d", i-1)
	}
}
