package models

import "time"

// Notice levels for flash messages
const (
	NoticeError   = "error"
	NoticeSuccess = "success"
	NoticeInfo    = "info"
)

// Field limits
const (
	MaxQuestionText = 200
	MaxChoiceText   = 200
	MaxUsername     = 150
)

// Form types

// VoteForm is the body of POST /polls/{id}/vote/
// Choice stays a string so a missing or garbled value can be reported inline.
type VoteForm struct {
	Choice string `schema:"choice"`
}

type LoginForm struct {
	Username string `schema:"username"`
	Password string `schema:"password"`
	Next     string `schema:"next"`
}

// Domain types

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Question struct {
	ID      int64      `db:"id" json:"id"`
	Text    string     `db:"question_text" json:"question_text"`
	PubDate time.Time  `db:"pub_date" json:"pub_date"`
	EndDate *time.Time `db:"end_date" json:"end_date,omitempty"`
}

type Choice struct {
	ID         int64  `db:"id" json:"id"`
	QuestionID int64  `db:"question_id" json:"question_id"`
	Text       string `db:"choice_text" json:"choice_text"`
}

type Vote struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	QuestionID int64     `db:"question_id" json:"question_id"`
	ChoiceID   int64     `db:"choice_id" json:"choice_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ChoiceTally is the number of votes currently pointing at a choice
type ChoiceTally struct {
	ChoiceID int64  `db:"choice_id" json:"choice_id"`
	Text     string `db:"choice_text" json:"choice_text"`
	Votes    int    `db:"votes" json:"votes"`
}

// Response types

type ResultsResponse struct {
	Question   Question      `json:"question"`
	Results    []ChoiceTally `json:"results"`
	TotalVotes int           `json:"total_votes"`
	CanVote    bool          `json:"can_vote"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
