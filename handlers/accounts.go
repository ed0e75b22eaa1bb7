// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Mamajin/ku-polls/auth"
	"github.com/Mamajin/ku-polls/cliparse"
	"github.com/Mamajin/ku-polls/middleware"
	"github.com/Mamajin/ku-polls/models"
	"github.com/Mamajin/ku-polls/store"
	"github.com/Mamajin/ku-polls/views"
)

type AuthHandler struct {
	store *store.Store
	views *views.Renderer
	cfg   cliparse.Config
	now   func() time.Time
}

func NewAuthHandler(st *store.Store, rv *views.Renderer, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{store: st, views: rv, cfg: cfg, now: time.Now}
}

// LoginForm handles GET /accounts/login/
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, views.PageLogin, newPage(w, r, "Log in", views.LoginData{
		Next: safeNext(r.URL.Query().Get("next")),
	}))
}

// Login handles POST /accounts/login/
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form models.LoginForm
	if err := decodeForm(r, &form); err != nil {
		slog.Debug("failed to decode login form", "error", err)
	}
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSecret)

	user, found, err := h.store.FindUserByUsername(r.Context(), form.Username)
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		renderError(h.views, w, r, http.StatusInternalServerError, "Database error")
		return
	}
	if !found || auth.CheckPassword(user.PasswordHash, form.Password) != nil {
		slog.Warn("failed login attempt", "username", form.Username, "ip_hash", ipHash)
		h.views.Render(w, http.StatusOK, views.PageLogin, newPage(w, r, "Log in", views.LoginData{
			Username: form.Username,
			Next:     safeNext(form.Next),
			Error:    MsgInvalidLogin,
		}))
		return
	}

	token, err := auth.IssueSessionToken(user, h.cfg.SessionSecret, h.cfg.SessionTTL, h.now())
	if err != nil {
		slog.Error("failed to issue session token", "error", err)
		renderError(h.views, w, r, http.StatusInternalServerError, "Failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("user logged in", "username", user.Username, "ip_hash", ipHash)

	target := safeNext(form.Next)
	if target == "" {
		target = "/polls/"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Logout handles POST /accounts/logout/
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id, ok := auth.IdentityFrom(r.Context()); ok {
		slog.Info("user logged out",
			"username", id.Username,
			"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSecret),
		)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	setFlash(w, models.NoticeInfo, MsgLoggedOut)
	http.Redirect(w, r, "/polls/", http.StatusFound)
}

// safeNext keeps only same-site absolute paths; anything else becomes ""
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}
