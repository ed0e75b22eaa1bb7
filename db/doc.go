// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

/*
Package db opens database connections and creates the schema.

	conn, err := db.Open(ctx, cliparse.DatabaseSQLite, "file:polls.db")
	err = db.CreateSchema(ctx, conn, cliparse.DatabaseSQLite)

SQLite uses the pure-Go modernc.org/sqlite driver on a single connection
with foreign keys enabled. PostgreSQL uses lib/pq.

CreateSchema is safe to call multiple times.

# Tables

  - auth_user: accounts
  - question: text, pub_date and optional end_date
  - choice: options per question
  - vote: one row per (user_id, question_id)

# Relationships

	question 1──* choice
	choice   1──* vote
	auth_user 1──* vote

vote.(choice_id, question_id) references choice.(id, question_id), so a vote
can never point at another question's choice. All foreign keys use ON DELETE
CASCADE.

IsUniqueViolation recognizes duplicate-key errors from either driver.
*/
package db
