// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package voting

import "errors"

var (
	// ErrNotFound means the question does not exist
	ErrNotFound = errors.New("question not found")
	// ErrVotingClosed means now is outside the question's publication window
	ErrVotingClosed = errors.New("voting is not allowed for this question")
	// ErrInvalidChoice means the choice is missing or belongs to another question
	ErrInvalidChoice = errors.New("invalid choice")
)
