// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

/*
Package main provides the entry point for the KU Polls web server.

KU Polls lists published questions, lets signed-in users vote on one choice
per question (a later vote replaces the earlier one), and shows the tally.

# Starting the Server

	DATABASE_URL=file:polls.db SESSION_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -session-secret ...

A .env file in the working directory is read first; variables already set
in the environment win.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - SESSION_SECRET (-session-secret): HMAC key for session cookies (serving only)

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - REDIS_URL (-redis): Results cache
  - SESSION_TTL (-session-ttl): Session lifetime (default: 24h)
  - PAGE_SIZE (-page-size): Questions per index page (default: 5)

# Admin Commands

Positional arguments after the flags run a maintenance command against the
configured database instead of starting the server:

	go run . createuser -username alice -password ...
	go run . addquestion -text "Lunch?" -choice pizza -choice sushi
	go run . setend -id 1 -end 2025-12-31T23:59:00Z
	go run . delquestion -id 1
	go run . list

# Architecture

  - handlers: HTTP request handlers (polls, voting, results, accounts)
  - router: Route definitions using Go 1.22+ routing
  - middleware: logging, sessions, rate limiting, CORS
  - voting: one-vote-per-user engine and tally
  - store: SQL persistence
  - views: HTML templates
  - cache: optional Redis tally cache
  - models: domain types and the publication policy
  - auth: password hashing and session tokens
  - admin: maintenance commands
  - db: connections and schema
  - cliparse: configuration parsing

Logs are text on a terminal and JSON otherwise.
*/
package main
