// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

// Package store persists users, questions, choices and votes through sqlx.
//
// Queries are written with ? placeholders and rebound for the active driver,
// so the same Store runs on PostgreSQL and SQLite. All times are stored in UTC.
package store
