// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mamajin/ku-polls/db"
	"github.com/Mamajin/ku-polls/models"
)

// maxVoteAttempts bounds how often a lost insert race is retried as an update
const maxVoteAttempts = 3

func (s *Store) FindUserVote(ctx context.Context, userID, questionID int64) (models.Vote, bool, error) {
	var v models.Vote
	err := s.db.GetContext(ctx, &v, s.q(`
		SELECT id, user_id, question_id, choice_id, created_at, updated_at
		FROM vote
		WHERE user_id = ? AND question_id = ?
	`), userID, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, false, nil
	}
	if err != nil {
		return models.Vote{}, false, fmt.Errorf("failed to find vote: %w", err)
	}
	return v, true, nil
}

// UpsertVote records choiceID as the user's vote for questionID.
// The caller must have checked that the choice belongs to the question.
//
// The read-modify-write runs in one transaction. If a concurrent request
// inserts first, our INSERT hits UNIQUE (user_id, question_id); the
// transaction is rolled back and retried, and the retry takes the update path.
func (s *Store) UpsertVote(ctx context.Context, userID, questionID, choiceID int64, now time.Time) (models.VoteOutcome, error) {
	var lastErr error
	for attempt := 1; attempt <= maxVoteAttempts; attempt++ {
		outcome, err := s.upsertVoteOnce(ctx, userID, questionID, choiceID, now.UTC())
		if err == nil {
			return outcome, nil
		}
		if !db.IsUniqueViolation(err) {
			return models.VoteOutcome{}, err
		}

		slog.Debug("vote insert lost race, retrying as update",
			"user_id", userID, "question_id", questionID, "attempt", attempt)
		lastErr = err
	}

	return models.VoteOutcome{}, fmt.Errorf("vote did not settle after %d attempts: %w", maxVoteAttempts, lastErr)
}

func (s *Store) upsertVoteOnce(ctx context.Context, userID, questionID, choiceID int64, now time.Time) (models.VoteOutcome, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.VoteOutcome{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var voteID, oldChoiceID int64
	err = tx.QueryRowxContext(ctx, tx.Rebind(`
		SELECT id, choice_id FROM vote WHERE user_id = ? AND question_id = ?`+s.forUpdate()),
		userID, questionID).Scan(&voteID, &oldChoiceID)

	var outcome models.VoteOutcome
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if s.beforeVoteInsert != nil {
			if err := s.beforeVoteInsert(ctx, tx); err != nil {
				return models.VoteOutcome{}, err
			}
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO vote (user_id, question_id, choice_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`), userID, questionID, choiceID, now, now)
		if err != nil {
			return models.VoteOutcome{}, fmt.Errorf("failed to insert vote: %w", err)
		}
		outcome = models.Created(choiceID)

	case err != nil:
		return models.VoteOutcome{}, fmt.Errorf("failed to check existing vote: %w", err)

	default:
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			UPDATE vote SET choice_id = ?, updated_at = ? WHERE id = ?
		`), choiceID, now, voteID)
		if err != nil {
			return models.VoteOutcome{}, fmt.Errorf("failed to update vote: %w", err)
		}
		outcome = models.Changed(oldChoiceID, choiceID)
	}

	if err := tx.Commit(); err != nil {
		return models.VoteOutcome{}, fmt.Errorf("failed to commit vote: %w", err)
	}

	return outcome, nil
}

// Tally counts the votes per choice of a question at read time.
// Choices without votes are included with zero.
func (s *Store) Tally(ctx context.Context, questionID int64) ([]models.ChoiceTally, error) {
	tally := []models.ChoiceTally{}
	err := s.db.SelectContext(ctx, &tally, s.q(`
		SELECT c.id AS choice_id, c.choice_text, COUNT(v.id) AS votes
		FROM choice c
		LEFT JOIN vote v ON v.choice_id = c.id
		WHERE c.question_id = ?
		GROUP BY c.id, c.choice_text
		ORDER BY c.id
	`), questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}
	return tally, nil
}
