// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

/*
Package router defines HTTP routes for KU Polls.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	limiter := middleware.NewIPRateLimiter(rate.Every(time.Second), 5)
	mux, err := router.NewRouter(st, engine, limiter, cfg)

# Endpoints

Health:

	GET /health - "OK" when the database answers

Polls (HTML):

	GET  /polls/              - Published questions, newest first
	GET  /polls/{id}/         - Voting form
	POST /polls/{id}/vote/    - Cast or change a vote (login required, rate limited)
	GET  /polls/{id}/vote/    - Back to the voting form
	GET  /polls/{id}/results/ - Tally

Polls (JSON, CORS enabled):

	GET /api/polls/{id}/results

Accounts:

	GET  /accounts/login/  - Login form
	POST /accounts/login/  - Log in (rate limited)
	POST /accounts/logout/ - Log out

GET / redirects to /polls/.

# Middleware

Every HTML route is wrapped with middleware.WithLogging and
middleware.Authenticate, so handlers can read the session user from the
request context.

POST routes also pass through http.CrossOriginProtection, which answers 403
to cross-site form submissions.
*/
package router
