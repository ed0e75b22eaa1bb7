// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/Mamajin/ku-polls/auth"
	"github.com/Mamajin/ku-polls/views"
)

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// decodeForm parses a url-encoded body into dst
func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	return formDecoder.Decode(dst, r.PostForm)
}

// questionID reads the {id} path value
func questionID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// newPage fills in the session user and pending flash notices
func newPage(w http.ResponseWriter, r *http.Request, title string, data any) views.Page {
	page := views.Page{
		Title:   title,
		Notices: popFlash(w, r),
		Data:    data,
	}
	if id, ok := auth.IdentityFrom(r.Context()); ok {
		page.User = &id
	}
	return page
}

func renderError(rv *views.Renderer, w http.ResponseWriter, r *http.Request, status int, message string) {
	rv.Render(w, status, views.PageError, newPage(w, r, http.StatusText(status), message))
}
