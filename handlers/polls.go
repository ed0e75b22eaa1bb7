// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Mamajin/ku-polls/auth"
	"github.com/Mamajin/ku-polls/cliparse"
	"github.com/Mamajin/ku-polls/models"
	"github.com/Mamajin/ku-polls/store"
	"github.com/Mamajin/ku-polls/views"
	"github.com/Mamajin/ku-polls/voting"
)

// Notices shown to users
const (
	MsgNotPublished  = "This poll is not yet published."
	MsgVotingClosed  = "Voting is not allowed for this poll."
	MsgCannotVote    = "You cannot vote in this poll."
	MsgNoChoice      = "You didn't select a choice."
	MsgInvalidLogin  = "Invalid username or password."
	MsgLoggedOut     = "You have been logged out."
	msgVotedFor      = "You voted for '%s'"
	msgVoteUpdatedTo = "Your vote was updated to '%s'"
)

type PollHandler struct {
	store  *store.Store
	engine *voting.Engine
	views  *views.Renderer
	cfg    cliparse.Config
	now    func() time.Time
}

func NewPollHandler(st *store.Store, engine *voting.Engine, rv *views.Renderer, cfg cliparse.Config) *PollHandler {
	return &PollHandler{store: st, engine: engine, views: rv, cfg: cfg, now: time.Now}
}

// Index handles GET /polls/
// Lists published questions newest first, PageSize per page.
func (h *PollHandler) Index(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	total, err := h.store.CountPublished(r.Context(), now)
	if err != nil {
		slog.Error("failed to count questions", "error", err)
		renderError(h.views, w, r, http.StatusInternalServerError, "Database error")
		return
	}

	pageSize := h.cfg.PageSize
	if pageSize < 1 {
		pageSize = 5
	}
	totalPages := max(1, (total+pageSize-1)/pageSize)

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	page = min(page, totalPages)

	questions, err := h.store.ListPublished(r.Context(), now, pageSize, (page-1)*pageSize)
	if err != nil {
		slog.Error("failed to list questions", "error", err)
		renderError(h.views, w, r, http.StatusInternalServerError, "Database error")
		return
	}

	rows := make([]views.QuestionRow, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, views.QuestionRow{
			Question: q,
			CanVote:  q.CanVote(now),
			Recent:   q.WasPublishedRecently(now),
		})
	}

	h.views.Render(w, http.StatusOK, views.PageIndex, newPage(w, r, "Polls", views.IndexData{
		Questions:  rows,
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}))
}

// loadQuestion resolves {id}, writing a 404 or 500 page on failure
func (h *PollHandler) loadQuestion(w http.ResponseWriter, r *http.Request) (models.Question, bool) {
	id, ok := questionID(r)
	if !ok {
		renderError(h.views, w, r, http.StatusNotFound, "Question not found")
		return models.Question{}, false
	}

	q, found, err := h.store.FindQuestion(r.Context(), id)
	if err != nil {
		slog.Error("failed to load question", "error", err, "question_id", id)
		renderError(h.views, w, r, http.StatusInternalServerError, "Database error")
		return models.Question{}, false
	}
	if !found {
		renderError(h.views, w, r, http.StatusNotFound, "Question not found")
		return models.Question{}, false
	}
	return q, true
}

// Detail handles GET /polls/{id}/
func (h *PollHandler) Detail(w http.ResponseWriter, r *http.Request) {
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
	if !q.CanVote(now) {
		setFlash(w, models.NoticeError, MsgVotingClosed)
		http.Redirect(w, r, "/polls/", http.StatusFound)
		return
	}

	h.renderDetail(w, r, q, "")
}

// renderDetail shows the voting form with the user's current choice selected
func (h *PollHandler) renderDetail(w http.ResponseWriter, r *http.Request, q models.Question, errMsg string) {
	choices, err := h.store.ListChoices(r.Context(), q.ID)
	if err != nil {
		slog.Error("failed to list choices", "error", err, "question_id", q.ID)
		renderError(h.views, w, r, http.StatusInternalServerError, "Database error")
		return
	}

	var selected int64
	if id, ok := auth.IdentityFrom(r.Context()); ok {
		selected, _, err = h.engine.CurrentChoice(r.Context(), id.UserID, q.ID)
		if err != nil {
			slog.Warn("failed to load current vote", "error", err, "question_id", q.ID)
		}
	}

	h.views.Render(w, http.StatusOK, views.PageDetail, newPage(w, r, q.Text, views.DetailData{
		Question: q,
		Choices:  choices,
		Selected: selected,
		Error:    errMsg,
	}))
}
