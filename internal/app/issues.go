package service

import (
	"context"
	"time"

	"github.com/okian/bounty/internal/adapters/repository"
	"github.com/okian/bounty/internal/domain/keys"
	"github.com/okian/bounty/internal/domain/model"
	"github.com/okian/bounty/internal/domain/ranking"
	"github.com/okian/bounty/pkg/logger"
	"github.com/okian/bounty/pkg/metrics"
)

// IssueInput is an issue offered by the maintainer.
type IssueInput struct {
	IssueID uint64
	Points  uint64
}

// RankedEntry is a leaderboard entry with its position, starting at 1.
type RankedEntry struct {
	Rank        int            `json:"rank"`
	Contributor model.Identity `json:"contributor"`
	Points      uint64         `json:"points"`
}

// Standings is the ranked view of a leaderboard.
type Standings struct {
	EventID     uint64        `json:"event_id"`
	LastUpdated time.Time     `json:"last_updated"`
	TotalPoints uint64        `json:"total_points"`
	Entries     []RankedEntry `json:"entries"`
}

// AddIssues appends a batch of unresolved issues to the event's book.
func (s *Service) AddIssues(ctx context.Context, caller model.Identity, eventID uint64, issues []IssueInput) (*model.IssueBook, error) {
	const op = "add_issues"

	book := &model.IssueBook{}
	err := s.mutate(ctx, op, eventID, func(tx repository.Tx) error {
		ev, err := loadEvent(tx, eventID)
		if err != nil {
			return err
		}
		if err := requireMaintainer(ev, caller); err != nil {
			return err
		}
		if ev.Ended(s.clock.Now()) {
			return model.ErrEventAlreadyEnded
		}

		if err := tx.Read(keys.IssueBook(eventID), book); err != nil {
			return err
		}
		if len(issues) == 0 {
			return nil
		}

		batch := make([]model.Issue, 0, len(issues))
		for _, in := range issues {
			batch = append(batch, model.Issue{IssueID: in.IssueID, Points: in.Points})
		}
		if err := book.Append(batch); err != nil {
			return err
		}
		return tx.Write(keys.IssueBook(eventID), book)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "issues added",
		logger.Uint64("event_id", eventID),
		logger.Int("count", len(issues)),
		logger.Int("total", len(book.Issues)),
	)
	return book, nil
}

// ResolveIssue marks an issue resolved by contributor and credits its points
// on the leaderboard. Both records commit together.
func (s *Service) ResolveIssue(ctx context.Context, caller model.Identity, eventID, issueID uint64, contributor model.Identity) (model.Issue, error) {
	const op = "resolve_issue"

	var resolved model.Issue
	err := s.mutate(ctx, op, eventID, func(tx repository.Tx) error {
		ev, err := loadEvent(tx, eventID)
		if err != nil {
			return err
		}
		if err := requireMaintainer(ev, caller); err != nil {
			return err
		}
		if contributor == "" {
			return model.ErrInvalidIdentity
		}
		now := s.clock.Now().UTC()
		if ev.Ended(now) {
			return model.ErrEventAlreadyEnded
		}

		var book model.IssueBook
		if err := tx.Read(keys.IssueBook(eventID), &book); err != nil {
			return err
		}
		var board model.Leaderboard
		if err := tx.Read(keys.Leaderboard(eventID), &board); err != nil {
			return err
		}

		resolved, err = book.Resolve(issueID, contributor, now)
		if err != nil {
			return err
		}
		if err := board.Credit(contributor, resolved.Points, now); err != nil {
			return err
		}

		if err := tx.Write(keys.IssueBook(eventID), &book); err != nil {
			return err
		}
		return tx.Write(keys.Leaderboard(eventID), &board)
	})
	if err != nil {
		return model.Issue{}, err
	}

	metrics.RecordIssueResolved(resolved.Points)
	s.logger.Info(ctx, "issue resolved",
		logger.Uint64("event_id", eventID),
		logger.Uint64("issue_id", issueID),
		logger.String("contributor", string(contributor)),
		logger.Uint64("points", resolved.Points),
	)
	return resolved, nil
}

// GetIssueBook returns the event's issues.
func (s *Service) GetIssueBook(ctx context.Context, eventID uint64) (*model.IssueBook, error) {
	book := &model.IssueBook{}
	err := s.view(ctx, "get_issue_book", func(tx repository.Tx) error {
		if _, err := loadEvent(tx, eventID); err != nil {
			return err
		}
		return tx.Read(keys.IssueBook(eventID), book)
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Standings returns the leaderboard in podium order.
func (s *Service) Standings(ctx context.Context, eventID uint64) (*Standings, error) {
	var board model.Leaderboard
	err := s.view(ctx, "standings", func(tx repository.Tx) error {
		if _, err := loadEvent(tx, eventID); err != nil {
			return err
		}
		return tx.Read(keys.Leaderboard(eventID), &board)
	})
	if err != nil {
		return nil, err
	}

	out := &Standings{
		EventID:     eventID,
		LastUpdated: board.LastUpdated,
		TotalPoints: board.Total(),
		Entries:     make([]RankedEntry, 0, len(board.Entries)),
	}
	for i, e := range ranking.Sorted(board.Entries) {
		out.Entries = append(out.Entries, RankedEntry{Rank: i + 1, Contributor: e.Contributor, Points: e.Points})
	}
	return out, nil
}
