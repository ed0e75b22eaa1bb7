// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Mamajin/ku-polls/cliparse"
	"github.com/Mamajin/ku-polls/db"
	"github.com/Mamajin/ku-polls/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidWindow     = errors.New("end date is before publish date")
	ErrInvalidText       = errors.New("text must be 1-200 characters")
	ErrInvalidUsername   = errors.New("username must be 1-150 characters")
	ErrDuplicateUsername = errors.New("username already taken")
)

// Store is the sqlx-backed persistence for users, questions, choices and votes
type Store struct {
	db     *sqlx.DB
	dbType string

	// beforeVoteInsert, when set, runs between the vote lookup and the insert
	beforeVoteInsert func(ctx context.Context, tx *sqlx.Tx) error
}

func New(conn *sqlx.DB, dbType string) *Store {
	return &Store{db: conn, dbType: dbType}
}

// DB exposes the underlying handle for health checks and tests
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) q(query string) string {
	return s.db.Rebind(query)
}

func validText(text string, max int) bool {
	text = strings.TrimSpace(text)
	return text != "" && len([]rune(text)) <= max
}

// Users

// CreateUser inserts a user with an already-hashed password
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string, now time.Time) (models.User, error) {
	if !validText(username, models.MaxUsername) {
		return models.User{}, ErrInvalidUsername
	}

	user := models.User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now.UTC(),
	}
	err := s.db.QueryRowxContext(ctx, s.q(`
		INSERT INTO auth_user (username, password_hash, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`), user.Username, user.PasswordHash, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (models.User, bool, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, s.q(`
		SELECT id, username, password_hash, created_at
		FROM auth_user
		WHERE username = ?
	`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("failed to find user: %w", err)
	}
	return user, true, nil
}

func (s *Store) FindUser(ctx context.Context, id int64) (models.User, bool, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, s.q(`
		SELECT id, username, password_hash, created_at
		FROM auth_user
		WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("failed to find user: %w", err)
	}
	return user, true, nil
}

// Questions and choices

// CreateQuestion inserts a question together with its choices.
// A zero PubDate defaults to now.
func (s *Store) CreateQuestion(ctx context.Context, q models.Question, choiceTexts []string, now time.Time) (models.Question, []models.Choice, error) {
	if !validText(q.Text, models.MaxQuestionText) {
		return models.Question{}, nil, ErrInvalidText
	}
	for _, text := range choiceTexts {
		if !validText(text, models.MaxChoiceText) {
			return models.Question{}, nil, ErrInvalidText
		}
	}

	if q.PubDate.IsZero() {
		q.PubDate = now
	}
	q.PubDate = q.PubDate.UTC()
	if q.EndDate != nil {
		end := q.EndDate.UTC()
		q.EndDate = &end
	}
	if !q.ValidWindow() {
		return models.Question{}, nil, ErrInvalidWindow
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Question{}, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, tx.Rebind(`
		INSERT INTO question (question_text, pub_date, end_date)
		VALUES (?, ?, ?)
		RETURNING id
	`), q.Text, q.PubDate, q.EndDate).Scan(&q.ID)
	if err != nil {
		return models.Question{}, nil, fmt.Errorf("failed to insert question: %w", err)
	}

	choices := make([]models.Choice, 0, len(choiceTexts))
	for _, text := range choiceTexts {
		c := models.Choice{QuestionID: q.ID, Text: text}
		err = tx.QueryRowxContext(ctx, tx.Rebind(`
			INSERT INTO choice (question_id, choice_text)
			VALUES (?, ?)
			RETURNING id
		`), c.QuestionID, c.Text).Scan(&c.ID)
		if err != nil {
			return models.Question{}, nil, fmt.Errorf("failed to insert choice: %w", err)
		}
		choices = append(choices, c)
	}

	if err := tx.Commit(); err != nil {
		return models.Question{}, nil, fmt.Errorf("failed to commit question: %w", err)
	}

	return q, choices, nil
}

func (s *Store) AddChoice(ctx context.Context, questionID int64, text string) (models.Choice, error) {
	if !validText(text, models.MaxChoiceText) {
		return models.Choice{}, ErrInvalidText
	}

	if _, found, err := s.FindQuestion(ctx, questionID); err != nil {
		return models.Choice{}, err
	} else if !found {
		return models.Choice{}, ErrNotFound
	}

	c := models.Choice{QuestionID: questionID, Text: text}
	err := s.db.QueryRowxContext(ctx, s.q(`
		INSERT INTO choice (question_id, choice_text)
		VALUES (?, ?)
		RETURNING id
	`), c.QuestionID, c.Text).Scan(&c.ID)
	if err != nil {
		return models.Choice{}, fmt.Errorf("failed to insert choice: %w", err)
	}
	return c, nil
}

// SetEndDate changes or clears (end == nil) the end date of a question
func (s *Store) SetEndDate(ctx context.Context, questionID int64, end *time.Time) error {
	q, found, err := s.FindQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	if end != nil {
		utc := end.UTC()
		end = &utc
	}
	q.EndDate = end
	if !q.ValidWindow() {
		return ErrInvalidWindow
	}

	_, err = s.db.ExecContext(ctx, s.q(`UPDATE question SET end_date = ? WHERE id = ?`), end, questionID)
	if err != nil {
		return fmt.Errorf("failed to update end date: %w", err)
	}
	return nil
}

// DeleteQuestion removes a question; choices and votes go with it
func (s *Store) DeleteQuestion(ctx context.Context, questionID int64) error {
	result, err := s.db.ExecContext(ctx, s.q(`DELETE FROM question WHERE id = ?`), questionID)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) FindQuestion(ctx context.Context, id int64) (models.Question, bool, error) {
	var q models.Question
	err := s.db.GetContext(ctx, &q, s.q(`
		SELECT id, question_text, pub_date, end_date
		FROM question
		WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, false, nil
	}
	if err != nil {
		return models.Question{}, false, fmt.Errorf("failed to find question: %w", err)
	}
	return q, true, nil
}

// ListPublished returns questions published at or before now, newest first
func (s *Store) ListPublished(ctx context.Context, now time.Time, limit, offset int) ([]models.Question, error) {
	questions := []models.Question{}
	err := s.db.SelectContext(ctx, &questions, s.q(`
		SELECT id, question_text, pub_date, end_date
		FROM question
		WHERE pub_date <= ?
		ORDER BY pub_date DESC, id DESC
		LIMIT ? OFFSET ?
	`), now.UTC(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (s *Store) CountPublished(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM question WHERE pub_date <= ?`), now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return n, nil
}

// ListQuestions returns every question, including unpublished ones
func (s *Store) ListQuestions(ctx context.Context) ([]models.Question, error) {
	questions := []models.Question{}
	err := s.db.SelectContext(ctx, &questions, `
		SELECT id, question_text, pub_date, end_date
		FROM question
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (s *Store) ListChoices(ctx context.Context, questionID int64) ([]models.Choice, error) {
	choices := []models.Choice{}
	err := s.db.SelectContext(ctx, &choices, s.q(`
		SELECT id, question_id, choice_text
		FROM choice
		WHERE question_id = ?
		ORDER BY id
	`), questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list choices: %w", err)
	}
	return choices, nil
}

// FindChoice looks a choice up only within the given question
func (s *Store) FindChoice(ctx context.Context, questionID, choiceID int64) (models.Choice, bool, error) {
	var c models.Choice
	err := s.db.GetContext(ctx, &c, s.q(`
		SELECT id, question_id, choice_text
		FROM choice
		WHERE id = ? AND question_id = ?
	`), choiceID, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Choice{}, false, nil
	}
	if err != nil {
		return models.Choice{}, false, fmt.Errorf("failed to find choice: %w", err)
	}
	return c, true, nil
}

func (s *Store) forUpdate() string {
	if s.dbType == cliparse.DatabasePostgres {
		return " FOR UPDATE"
	}
	return ""
}
