// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package voting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mamajin/ku-polls/models"
)

// Store is the persistence the engine needs; *store.Store satisfies it
type Store interface {
	FindQuestion(ctx context.Context, id int64) (models.Question, bool, error)
	FindChoice(ctx context.Context, questionID, choiceID int64) (models.Choice, bool, error)
	FindUserVote(ctx context.Context, userID, questionID int64) (models.Vote, bool, error)
	UpsertVote(ctx context.Context, userID, questionID, choiceID int64, now time.Time) (models.VoteOutcome, error)
	Tally(ctx context.Context, questionID int64) ([]models.ChoiceTally, error)
}

// TallyCache is an optional read-through copy of tallies. Entries are keyed
// by a per-question generation; Bump moves the question to a new generation
// so entries filled from an older read are never served again.
type TallyCache interface {
	Generation(ctx context.Context, questionID int64) (int64, error)
	Get(ctx context.Context, questionID, generation int64) ([]models.ChoiceTally, bool, error)
	Set(ctx context.Context, questionID, generation int64, tally []models.ChoiceTally) error
	Bump(ctx context.Context, questionID int64) error
}

// Engine enforces one vote per user per question
type Engine struct {
	store Store
	cache TallyCache
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// WithCache puts c in front of Tally. Every successful vote bumps the
// question's generation after the vote has committed.
func (e *Engine) WithCache(c TallyCache) *Engine {
	e.cache = c
	return e
}

// CastVote records choiceID as userID's vote on questionID.
// Checks run in order: question exists, voting is open at now,
// choice belongs to the question.
func (e *Engine) CastVote(ctx context.Context, userID, questionID, choiceID int64, now time.Time) (models.VoteOutcome, error) {
	q, found, err := e.store.FindQuestion(ctx, questionID)
	if err != nil {
		return models.VoteOutcome{}, fmt.Errorf("failed to load question: %w", err)
	}
	if !found {
		return models.VoteOutcome{}, ErrNotFound
	}

	if !q.CanVote(now) {
		return models.VoteOutcome{}, ErrVotingClosed
	}

	_, found, err = e.store.FindChoice(ctx, questionID, choiceID)
	if err != nil {
		return models.VoteOutcome{}, fmt.Errorf("failed to load choice: %w", err)
	}
	if !found {
		return models.VoteOutcome{}, ErrInvalidChoice
	}

	outcome, err := e.store.UpsertVote(ctx, userID, questionID, choiceID, now)
	if err != nil {
		return models.VoteOutcome{}, fmt.Errorf("failed to record vote: %w", err)
	}

	if e.cache != nil {
		if err := e.cache.Bump(ctx, questionID); err != nil {
			slog.Warn("failed to bump tally cache generation", "question_id", questionID, "error", err)
		}
	}

	slog.Info("vote recorded",
		"user_id", userID,
		"question_id", questionID,
		"choice_id", outcome.ChoiceID,
		"outcome", outcome.Kind.String(),
	)

	return outcome, nil
}

// Tally returns the vote count per choice, ordered by choice id.
// The cache generation is read before the database count, so a count that
// misses a concurrent vote is stored under a generation that vote has
// already retired.
func (e *Engine) Tally(ctx context.Context, questionID int64) ([]models.ChoiceTally, error) {
	if e.cache == nil {
		return e.store.Tally(ctx, questionID)
	}

	gen, err := e.cache.Generation(ctx, questionID)
	if err != nil {
		slog.Warn("failed to read tally cache generation", "question_id", questionID, "error", err)
		return e.store.Tally(ctx, questionID)
	}

	tally, found, err := e.cache.Get(ctx, questionID, gen)
	if err != nil {
		slog.Warn("failed to read tally cache", "question_id", questionID, "error", err)
	} else if found {
		return tally, nil
	}

	tally, err = e.store.Tally(ctx, questionID)
	if err != nil {
		return nil, err
	}

	if err := e.cache.Set(ctx, questionID, gen, tally); err != nil {
		slog.Warn("failed to write tally cache", "question_id", questionID, "error", err)
	}

	return tally, nil
}

// CurrentChoice returns the choice the user currently has on the question
func (e *Engine) CurrentChoice(ctx context.Context, userID, questionID int64) (int64, bool, error) {
	v, found, err := e.store.FindUserVote(ctx, userID, questionID)
	if err != nil || !found {
		return 0, false, err
	}
	return v.ChoiceID, true, nil
}

// TotalVotes sums a tally
func TotalVotes(tally []models.ChoiceTally) int {
	total := 0
	for _, t := range tally {
		total += t.Votes
	}
	return total
}
