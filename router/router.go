// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package router

import (
	"fmt"
	"net/http"

	"github.com/Mamajin/ku-polls/cliparse"
	"github.com/Mamajin/ku-polls/handlers"
	"github.com/Mamajin/ku-polls/middleware"
	"github.com/Mamajin/ku-polls/store"
	"github.com/Mamajin/ku-polls/views"
	"github.com/Mamajin/ku-polls/voting"
)

func NewRouter(st *store.Store, engine *voting.Engine, limiter *middleware.IPRateLimiter, cfg cliparse.Config) (*http.ServeMux, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(st, engine, renderer, cfg)
	authHandler := handlers.NewAuthHandler(st, renderer, cfg)

	// page wraps a handler with logging and the session user
	page := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.Authenticate(cfg.SessionSecret, h))
	}

	// form posts must come from this site
	sameOrigin := http.NewCrossOriginProtection()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := st.DB().PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Polls
	mux.HandleFunc("GET /polls/{$}", page(pollHandler.Index))
	mux.HandleFunc("GET /polls/{id}/{$}", page(pollHandler.Detail))
	mux.HandleFunc("GET /polls/{id}/results/{$}", page(pollHandler.Results))
	mux.HandleFunc("GET /polls/{id}/vote/{$}", page(pollHandler.VoteRedirect))
	mux.Handle("POST /polls/{id}/vote/{$}",
		sameOrigin.Handler(page(middleware.RequireLogin(middleware.RateLimit(limiter, pollHandler.Vote)))))

	// JSON results (cross-origin readable)
	api := middleware.CORS(middleware.WithLogging(pollHandler.ResultsJSON))
	mux.Handle("GET /api/polls/{id}/results", api)
	mux.Handle("OPTIONS /api/polls/{id}/results", api)

	// Accounts
	mux.HandleFunc("GET /accounts/login/{$}", page(authHandler.LoginForm))
	mux.Handle("POST /accounts/login/{$}", sameOrigin.Handler(page(middleware.RateLimit(limiter, authHandler.Login))))
	mux.Handle("POST /accounts/logout/{$}", sameOrigin.Handler(page(authHandler.Logout)))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/polls/", http.StatusFound)
	})

	return mux, nil
}
