// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

/*
Package models defines form, response, and domain types for the polls site.

# Domain Types

  - User: login identity with a bcrypt password hash
  - Question: poll text with publish date and optional end date
  - Choice: one selectable option under a question
  - Vote: a user's current choice for a question
  - ChoiceTally: vote count per choice, computed at read time

# Publication Policy

Question carries the date predicates used by every view:

	q.IsPublished(now)          // now >= pub_date
	q.CanVote(now)              // pub_date <= now <= end_date (end_date optional)
	q.WasPublishedRecently(now) // published within the last 24h

They are pure functions of the question and the supplied time.

# Vote Outcomes

A successful vote is either Created(choice) or Changed(old, new):

	outcome := models.Changed(oldID, newID)
	if outcome.Kind == models.OutcomeChanged { ... }

# Form Types

  - VoteForm: choice
  - LoginForm: username, password, next

Forms are decoded with gorilla/schema using the `schema` struct tags.
*/
package models
