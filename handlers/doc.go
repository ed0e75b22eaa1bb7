// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

/*
Package handlers contains the HTTP request handlers for KU Polls.

# Handler Types

  - PollHandler: poll list, voting form, vote submission, results
  - AuthHandler: login and logout

Handlers are created with their dependencies:

	engine := voting.NewEngine(st)
	pollHandler := handlers.NewPollHandler(st, engine, renderer, cfg)
	authHandler := handlers.NewAuthHandler(st, renderer, cfg)

# Poll Pages

	GET  /polls/                 → Index (published questions, newest first, ?page=N)
	GET  /polls/{id}/            → Detail (voting form, current choice selected)
	POST /polls/{id}/vote/       → Vote (login required)
	GET  /polls/{id}/results/    → Results
	GET  /api/polls/{id}/results → ResultsJSON

Detail redirects to the list with a notice when the question is not yet
published or voting has ended. Results stays available after voting ends.

# Voting

Vote re-renders the form with an inline message when the question is closed
or the submitted choice is missing or belongs to another question. On success
it queues a flash notice ("You voted for ..." or "Your vote was updated to
...") and redirects to the results page.

# Flash Notices

Notices survive one redirect in a short-lived cookie and are cleared by the
next rendered page.

# Accounts

	GET  /accounts/login/   → LoginForm
	POST /accounts/login/   → Login (sets the session cookie, follows a same-site next)
	POST /accounts/logout/  → Logout

Login attempts are logged with a salted hash of the client IP.
*/
package handlers
