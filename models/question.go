// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package models

import "time"

// RecentWindow is how far back WasPublishedRecently looks
const RecentWindow = 24 * time.Hour

// IsPublished reports whether the question is visible at now
func (q Question) IsPublished(now time.Time) bool {
	return !now.Before(q.PubDate)
}

// CanVote reports whether now falls inside the publication window.
// Both ends are inclusive; a question without an end date stays open.
func (q Question) CanVote(now time.Time) bool {
	if now.Before(q.PubDate) {
		return false
	}
	if q.EndDate != nil {
		return !now.After(*q.EndDate)
	}
	return true
}

// WasPublishedRecently reports whether the question went live within the last day
func (q Question) WasPublishedRecently(now time.Time) bool {
	return !q.PubDate.Before(now.Add(-RecentWindow)) && !q.PubDate.After(now)
}

// ValidWindow reports whether the end date, if any, is not before the publish date
func (q Question) ValidWindow() bool {
	return q.EndDate == nil || !q.EndDate.Before(q.PubDate)
}
