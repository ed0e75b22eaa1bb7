// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

/*
Package voting enforces the one-vote-per-user-per-question rule.

An Engine sits between the HTTP handlers and the store. CastVote checks, in
order, that the question exists, that voting is open at the given instant
and that the choice belongs to the question, then creates or replaces the
user's vote. The result is a models.VoteOutcome telling the caller whether
the vote was created or changed.

The rule itself lives in the database as UNIQUE (user_id, question_id);
the store retries an insert that loses a race as an update, so concurrent
submissions from one user always leave exactly one row.

Tally counts votes per choice at read time. An optional TallyCache (see
package cache) can front it. Entries are keyed by a per-question generation
that every recorded vote increments, so a count read before a vote commits
is never served after it.
*/
package voting
