// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

/*
Package auth provides password hashing and session tokens.

# Passwords

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password)

Hashes are bcrypt. Passwords shorter than MinPasswordLength are rejected.

# Sessions

A session is an HS256 JWT in the SessionCookieName cookie:

	tok, err := auth.IssueSessionToken(user, secret, ttl, now)
	id, err := auth.ParseSessionToken(tok, secret, now)

The subject is the user ID. Middleware stores the parsed Identity on the
request context with WithIdentity; handlers read it with IdentityFrom.

# IP Hashing

Login attempts are logged with a keyed hash instead of the raw address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
