// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Mamajin/ku-polls/views"
)

// FlashCookieName carries notices across a redirect
const FlashCookieName = "kupolls_flash"

const flashMaxAge = 60

// setFlash queues a notice for the next rendered page
func setFlash(w http.ResponseWriter, level, text string) {
	raw, err := json.Marshal([]views.Notice{{Level: level, Text: text}})
	if err != nil {
		slog.Error("failed to encode flash notice", "error", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns queued notices and clears the cookie
func popFlash(w http.ResponseWriter, r *http.Request) []views.Notice {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var notices []views.Notice
	if err := json.Unmarshal(raw, &notices); err != nil {
		return nil
	}
	return notices
}
