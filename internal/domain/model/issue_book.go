package model

import (
	"time"
)

// Issue is a unit of resolvable work.
type Issue struct {
	IssueID     uint64     `json:"issue_id"`
	Points      uint64     `json:"points"`
	Resolved    bool       `json:"resolved_status"`
	Contributor *Identity  `json:"resolved_contributor,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// IssueBook is the append-only list of issues of one event.
type IssueBook struct {
	EventID  uint64  `json:"event_id"`
	Capacity int     `json:"capacity"`
	Issues   []Issue `json:"issues"`
}

// Append adds issues unresolved, discarding any resolution state they carry.
// Ids must be unique across the book and the batch; the book never grows past
// its capacity. On error the book is left untouched.
func (b *IssueBook) Append(issues []Issue) error {
	if len(b.Issues)+len(issues) > b.Capacity {
		return ErrIssueBookFull
	}

	seen := make(map[uint64]struct{}, len(b.Issues)+len(issues))
	for _, is := range b.Issues {
		seen[is.IssueID] = struct{}{}
	}
	for _, is := range issues {
		if _, dup := seen[is.IssueID]; dup {
			return ErrDuplicateIssue
		}
		seen[is.IssueID] = struct{}{}
	}

	for _, is := range issues {
		b.Issues = append(b.Issues, Issue{IssueID: is.IssueID, Points: is.Points})
	}
	return nil
}

// Resolve marks the unresolved issue with id as resolved by contributor.
// Resolved issues are excluded from the search, so a repeat resolution and an
// unknown id both fail with ErrInvalidIssueID.
func (b *IssueBook) Resolve(issueID uint64, contributor Identity, at time.Time) (Issue, error) {
	for i := range b.Issues {
		is := &b.Issues[i]
		if is.IssueID != issueID || is.Resolved {
			continue
		}
		who, when := contributor, at
		is.Resolved = true
		is.Contributor = &who
		is.ResolvedAt = &when
		return *is, nil
	}
	return Issue{}, ErrInvalidIssueID
}

// ResolvedPoints sums the points of every resolved issue.
func (b *IssueBook) ResolvedPoints() uint64 {
	var total uint64
	for _, is := range b.Issues {
		if is.Resolved {
			total += is.Points
		}
	}
	return total
}
