// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type (sqlite or postgres)
	-redis           Redis URL for the results cache
	-session-secret  Session signing secret
	-session-ttl     Session lifetime
	-page-size       Questions per index page

# Environment Variables

Flags fall back to PORT, DATABASE_URL, DATABASE_TYPE, REDIS_URL,
SESSION_SECRET, SESSION_TTL and PAGE_SIZE, which may also come from a .env
file. CLI flags take precedence over environment variables.

Arguments left after the flags are returned in Config.Command. The session
secret is only required when no command is given.
*/
package cliparse
