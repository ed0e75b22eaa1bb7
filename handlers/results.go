// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Mamajin/ku-polls/middleware"
	"github.com/Mamajin/ku-polls/models"
	"github.com/Mamajin/ku-polls/views"
	"github.com/Mamajin/ku-polls/voting"
)

// Results handles GET /polls/{id}/results/
// Unpublished questions are hidden; closed ones keep showing their tally.
func (h *PollHandler) Results(w http.ResponseWriter, r *http.Request) {
	q, ok := h.loadQuestion(w, r)
	if !ok {
		return
	}

	now := h.now()
	if !q.IsPublished(now) {
		setFlash(w, models.NoticeError, MsgNotPublished)
		http.Redirect(w, r, "/polls/", http.StatusFound)
		return
	}

	tally, err := h.engine.Tally(r.Context(), q.ID)
	if err != nil {
		slog.Error("failed to tally votes", "error", err, "question_id", q.ID)
		renderError(h.views, w, r, http.StatusInternalServerError, "Database error")
		return
	}

	h.views.Render(w, http.StatusOK, views.PageResults, newPage(w, r, q.Text, models.ResultsResponse{
		Question:   q,
		Results:    tally,
		TotalVotes: voting.TotalVotes(tally),
		CanVote:    q.CanVote(now),
	}))
}

// ResultsJSON handles GET /api/polls/{id}/results
func (h *PollHandler) ResultsJSON(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}

	q, found, err := h.store.FindQuestion(r.Context(), id)
	if err != nil {
		slog.Error("failed to load question", "error", err, "question_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := h.now()
	if !found || !q.IsPublished(now) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}

	tally, err := h.engine.Tally(r.Context(), q.ID)
	if err != nil {
		slog.Error("failed to tally votes", "error", err, "question_id", q.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Question:   q,
		Results:    tally,
		TotalVotes: voting.TotalVotes(tally),
		CanVote:    q.CanVote(now),
	})
}
