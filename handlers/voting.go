// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Mamajin/ku-polls/auth"
	"github.com/Mamajin/ku-polls/middleware"
	"github.com/Mamajin/ku-polls/models"
	"github.com/Mamajin/ku-polls/voting"
)

// Vote handles POST /polls/{id}/vote/
// Requires a logged-in user; creates the user's vote or moves it to the new choice.
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.IdentityFrom(r.Context())
	if !ok {
		middleware.RedirectToLogin(w, r)
		return
	}

	q, ok := h.loadQuestion(w, r)
	if !ok {
		return
	}

	var form models.VoteForm
	if err := decodeForm(r, &form); err != nil {
		slog.Debug("failed to decode vote form", "error", err)
	}
	// An unparsable choice is reported the same way as a missing one
	choiceID, _ := strconv.ParseInt(form.Choice, 10, 64)

	outcome, err := h.engine.CastVote(r.Context(), user.UserID, q.ID, choiceID, h.now())
	switch {
	case errors.Is(err, voting.ErrNotFound):
		renderError(h.views, w, r, http.StatusNotFound, "Question not found")
		return
	case errors.Is(err, voting.ErrVotingClosed):
		slog.Warn("vote on closed question", "username", user.Username, "question_id", q.ID)
		h.renderDetail(w, r, q, MsgCannotVote)
		return
	case errors.Is(err, voting.ErrInvalidChoice):
		slog.Warn("vote without a valid choice", "username", user.Username, "question_id", q.ID)
		h.renderDetail(w, r, q, MsgNoChoice)
		return
	case err != nil:
		slog.Error("failed to cast vote", "error", err, "question_id", q.ID)
		renderError(h.views, w, r, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	choice, _, err := h.store.FindChoice(r.Context(), q.ID, outcome.ChoiceID)
	if err != nil {
		slog.Warn("failed to load choice text", "error", err, "choice_id", outcome.ChoiceID)
	}

	switch outcome.Kind {
	case models.OutcomeChanged:
		setFlash(w, models.NoticeSuccess, fmt.Sprintf(msgVoteUpdatedTo, choice.Text))
	default:
		setFlash(w, models.NoticeSuccess, fmt.Sprintf(msgVotedFor, choice.Text))
	}

	http.Redirect(w, r, fmt.Sprintf("/polls/%d/results/", q.ID), http.StatusFound)
}

// VoteRedirect handles GET /polls/{id}/vote/, reached after logging in
// from a vote attempt, by sending the user to the voting form.
func (h *PollHandler) VoteRedirect(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(r)
	if !ok {
		renderError(h.views, w, r, http.StatusNotFound, "Question not found")
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/polls/%d/", id), http.StatusFound)
}
