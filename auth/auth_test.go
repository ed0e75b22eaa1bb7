// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Mamajin/ku-polls/models"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("SecurePass!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "SecurePass!" {
		t.Error("HashPassword() returned the plain password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("HashPassword() = %q, want bcrypt hash", hash)
	}

	if err := CheckPassword(hash, "SecurePass!"); err != nil {
		t.Errorf("CheckPassword() with correct password error = %v", err)
	}
	if err := CheckPassword(hash, "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() with wrong password error = %v, want ErrInvalidCredentials", err)
	}

	// Same password, different salt
	hash2, _ := HashPassword("SecurePass!")
	if hash == hash2 {
		t.Error("HashPassword() produced identical hashes")
	}
}

func TestHashPassword_TooShort(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Error("HashPassword() accepted a short password")
	}
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	if err := CheckPassword("not-a-hash", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestSessionToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	user := models.User{ID: 42, Username: "sampleuser"}

	token, err := IssueSessionToken(user, "secret", time.Hour, now)
	if err != nil {
		t.Fatalf("IssueSessionToken() error = %v", err)
	}

	tests := []struct {
		name    string
		token   string
		secret  string
		at      time.Time
		wantErr bool
	}{
		{"valid", token, "secret", now.Add(time.Minute), false},
		{"expired", token, "secret", now.Add(2 * time.Hour), true},
		{"wrong secret", token, "other", now, true},
		{"garbage", "not.a.token", "secret", now, true},
		{"empty", "", "secret", now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseSessionToken(tt.token, tt.secret, tt.at)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidToken) {
					t.Errorf("ParseSessionToken() error = %v, want ErrInvalidToken", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSessionToken() error = %v", err)
			}
			if id.UserID != 42 || id.Username != "sampleuser" {
				t.Errorf("ParseSessionToken() = %+v", id)
			}
		})
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := IdentityFrom(ctx); ok {
		t.Error("IdentityFrom() found identity in empty context")
	}

	ctx = WithIdentity(ctx, Identity{UserID: 7, Username: "alice"})
	id, ok := IdentityFrom(ctx)
	if !ok {
		t.Fatal("IdentityFrom() did not find identity")
	}
	if id.UserID != 7 || id.Username != "alice" {
		t.Errorf("IdentityFrom() = %+v", id)
	}
}

func TestHashIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		salt string
	}{
		{"IPv4", "192.168.1.1", "ip-salt"},
		{"IPv6", "2001:0db8:85a3::8a2e:0370:7334", "ip-salt"},
		{"localhost", "127.0.0.1", "ip-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, tt.salt)

			// Should be 16 hex characters (8 bytes * 2)
			if len(hash) != 16 {
				t.Errorf("HashIP() length = %d, want 16", len(hash))
			}

			// Should be valid hex
			for _, c := range hash {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("HashIP() contains invalid hex char: %c", c)
				}
			}

			// Should be deterministic
			if hash != HashIP(tt.ip, tt.salt) {
				t.Error("HashIP() is not deterministic")
			}
		})
	}

	// Different IPs should produce different hashes
	if HashIP("192.168.1.1", "salt") == HashIP("192.168.1.2", "salt") {
		t.Error("HashIP() produced same hash for different IPs")
	}

	// Different salts should produce different hashes
	if HashIP("192.168.1.1", "salt1") == HashIP("192.168.1.1", "salt2") {
		t.Error("HashIP() produced same hash for different salts")
	}
}

func BenchmarkParseSessionToken(b *testing.B) {
	now := time.Now()
	token, _ := IssueSessionToken(models.User{ID: 1, Username: "bench"}, "secret", time.Hour, now)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseSessionToken(token, "secret", now)
	}
}
