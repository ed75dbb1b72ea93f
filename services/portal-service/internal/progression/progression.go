// Package progression implements the three-round state machine a player
// moves through: round one questions, round two debugging puzzles that
// each yield a password fragment, and the round three finale where the
// fragments are assembled into the final password.
package progression

import (
	"errors"
	"slices"
	"strings"
)

// Round is a stage of the event.
type Round string

const (
	Round1   Round = "round1"
	Round2   Round = "round2"
	Round3   Round = "round3"
	Complete Round = "complete"
)

var (
	ErrWrongRound    = errors.New("action is not allowed in the current round")
	ErrUnknownPuzzle = errors.New("unknown puzzle")
	ErrUnknownRound  = errors.New("unknown round")
)

// State is the progression of a single player.
type State struct {
	Round     Round
	Fragments []string
	// Completed holds solved round two puzzle indices in ascending order.
	Completed []int
}

// New returns the state of a player who has just logged in.
func New() State {
	return State{Round: Round1}
}

// Restore rebuilds a state from persisted fields.
func Restore(round string, fragments []string, completed []int) (State, error) {
	r := Round(round)
	switch r {
	case Round1, Round2, Round3, Complete:
	default:
		return State{}, ErrUnknownRound
	}

	sorted := slices.Clone(completed)
	slices.Sort(sorted)

	return State{
		Round:     r,
		Fragments: slices.Clone(fragments),
		Completed: slices.Compact(sorted),
	}, nil
}

// CompleteRoundOne moves the player from round one to round two.
func (s *State) CompleteRoundOne() error {
	if s.Round != Round1 {
		return ErrWrongRound
	}

	s.Round = Round2
	return nil
}

// SolvePuzzle marks puzzle index of total as solved and collects fragment.
// A fragment already collected is not appended twice. Once every puzzle is
// solved the player moves to round three.
func (s *State) SolvePuzzle(index, total int, fragment string) error {
	if s.Round != Round2 {
		return ErrWrongRound
	}
	if index < 0 || index >= total {
		return ErrUnknownPuzzle
	}

	if fragment != "" && !slices.Contains(s.Fragments, fragment) {
		s.Fragments = append(s.Fragments, fragment)
	}

	if pos, found := slices.BinarySearch(s.Completed, index); !found {
		s.Completed = slices.Insert(s.Completed, pos, index)
	}

	if len(s.Completed) == total {
		s.Round = Round3
	}

	return nil
}

// PuzzleSolved reports whether puzzle index has been solved.
func (s *State) PuzzleSolved(index int) bool {
	_, found := slices.BinarySearch(s.Completed, index)
	return found
}

// Password is the final password: the collected fragments in collection
// order, uppercased.
func (s *State) Password() string {
	return strings.ToUpper(strings.Join(s.Fragments, ""))
}

// SubmitPassword checks a round three guess. fallback, when non-empty, is
// accepted as well. A correct guess completes the event.
func (s *State) SubmitPassword(guess, fallback string) (bool, error) {
	if s.Round != Round3 {
		return false, ErrWrongRound
	}

	normalized := normalizePassword(guess)
	if normalized == "" {
		return false, nil
	}

	ok := normalized == s.Password()
	if !ok && fallback != "" {
		ok = normalized == normalizePassword(fallback)
	}

	if ok {
		s.Round = Complete
	}

	return ok, nil
}

// Reset returns the player to the start of round one.
func (s *State) Reset() {
	*s = New()
}

func normalizePassword(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}
