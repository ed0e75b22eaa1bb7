package models

// OutcomeKind tells a first vote apart from a changed one
type OutcomeKind int

const (
	OutcomeCreated OutcomeKind = iota + 1
	OutcomeChanged
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCreated:
		return "created"
	case OutcomeChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// VoteOutcome is the result of a successful vote.
// OldChoiceID is only set for OutcomeChanged and may equal ChoiceID
// when the user re-submitted the same choice.
type VoteOutcome struct {
	Kind        OutcomeKind
	ChoiceID    int64
	OldChoiceID int64
}

func Created(choiceID int64) VoteOutcome {
	return VoteOutcome{Kind: OutcomeCreated, ChoiceID: choiceID}
}

func Changed(oldChoiceID, newChoiceID int64) VoteOutcome {
	return VoteOutcome{Kind: OutcomeChanged, ChoiceID: newChoiceID, OldChoiceID: oldChoiceID}
}
