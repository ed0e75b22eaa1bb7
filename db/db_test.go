// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Mamajin/ku-polls/cliparse"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := Open(ctx, cliparse.DatabaseSQLite, filepath.Join(t.TempDir(), "db.sqlite"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := CreateSchema(ctx, conn, cliparse.DatabaseSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

func TestIsUniqueViolation(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	insertUser := func(name string) error {
		_, err := conn.ExecContext(ctx, conn.Rebind(`INSERT INTO auth_user (username, password_hash) VALUES (?, ?)`), name, "hash")
		return err
	}
	if err := insertUser("alice"); err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
	dupErr := insertUser("alice")
	if dupErr == nil {
		t.Fatal("Expected duplicate username to fail")
	}

	// a foreign key failure is a constraint error, but not a unique one
	_, fkErr := conn.ExecContext(ctx, conn.Rebind(`INSERT INTO choice (question_id, choice_text) VALUES (?, ?)`), 9999, "orphan")
	if fkErr == nil {
		t.Fatal("Expected foreign key violation")
	}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"postgres unique", &pq.Error{Code: "23505"}, true},
		{"postgres unique wrapped", fmt.Errorf("failed to insert vote: %w", &pq.Error{Code: "23505"}), true},
		{"postgres foreign key", &pq.Error{Code: "23503"}, false},
		{"sqlite duplicate insert", dupErr, true},
		{"sqlite duplicate wrapped", fmt.Errorf("failed to insert user: %w", dupErr), true},
		{"sqlite foreign key", fkErr, false},
		{"plain error", errors.New("connection reset"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestOpen_ForeignKeysEnabled(t *testing.T) {
	conn := openTestDB(t)

	var enabled int
	if err := conn.Get(&enabled, `PRAGMA foreign_keys`); err != nil {
		t.Fatalf("Failed to read pragma: %v", err)
	}
	if enabled != 1 {
		t.Errorf("Expected foreign_keys = 1, got %d", enabled)
	}
}

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", "x"); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}

func TestWithSQLitePragmas(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"polls.db", "polls.db?_pragma="},
		{"file:polls.db?mode=rwc", "file:polls.db?mode=rwc&_pragma="},
	}

	for _, tt := range tests {
		got := withSQLitePragmas(tt.url)
		if len(got) < len(tt.want) || got[:len(tt.want)] != tt.want {
			t.Errorf("withSQLitePragmas(%q) = %q, want prefix %q", tt.url, got, tt.want)
		}
	}
}

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := openTestDB(t)

	if err := CreateSchema(context.Background(), conn, cliparse.DatabaseSQLite); err != nil {
		t.Errorf("Second CreateSchema failed: %v", err)
	}
}
