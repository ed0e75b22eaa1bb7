// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /polls/{$}", middleware.WithLogging(handler))

Logs request start (request_id, method, path, remote) and completion
(status, duration_ms). The request id is taken from X-Request-ID or
generated, and echoed back in the response.

# Sessions

Authenticate reads the session cookie and attaches an auth.Identity to the
request context. RequireLogin redirects anonymous users to

	/accounts/login/?next=<requested URL>

# Rate Limiting

IPRateLimiter keeps one token bucket per client IP:

	limiter := middleware.NewIPRateLimiter(rate.Every(time.Second), 5)
	go limiter.RunPruner(ctx, 10*time.Minute, 30*time.Minute)
	mux.HandleFunc("POST /accounts/login/", middleware.RateLimit(limiter, h.Login))

Rejected requests get 429 Too Many Requests.

# CORS Middleware

The JSON results API is readable cross-origin:

	mux.Handle("GET /api/polls/{id}/results", middleware.CORS(handler))

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "question not found")

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used for rate limiting and hashed IPs in login logs.
*/
package middleware
