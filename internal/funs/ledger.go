package funs

import (
	"context"
	"time"

	"gofun/internal/common"
	"gofun/internal/dbmysql"
)

const (
	VoteLike   = "like"
	VoteUnlike = "unlike"
)

type VoteResult struct {
	AlreadyVoted bool  `json:"already_voted"`
	Total        int64 `json:"total"`
}

type RetractResult struct {
	Removed bool  `json:"removed"`
	Total   int64 `json:"total"`
}

// VoteOutcome is what the toggle reports back to the voter.
type VoteOutcome struct {
	Type     string `json:"type"`
	NewTotal int64  `json:"new_total"`
}

// CastVote records one vote per (voter, fun). Voting on a repost votes on
// its original too, exactly one hop up.
func (s *Service) CastVote(ctx context.Context, voterID, funID int64, now time.Time) (VoteResult, error) {
	if voterID <= 0 {
		return VoteResult{}, common.NewValidationError("voter", "is required")
	}

	var (
		result VoteResult
		events []common.EngagementEvent
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		target, err := tx.LockFun(ctx, funID)
		if err != nil {
			return err
		}
		result, events, err = s.castOn(ctx, tx, voterID, target, now)
		return err
	})
	if err != nil {
		return VoteResult{}, err
	}
	s.emit(events...)
	return result, nil
}

// RetractVote removes the voter's entry if there is one. Totals never drop below zero.
func (s *Service) RetractVote(ctx context.Context, voterID, funID int64, now time.Time) (RetractResult, error) {
	if voterID <= 0 {
		return RetractResult{}, common.NewValidationError("voter", "is required")
	}

	var (
		result RetractResult
		events []common.EngagementEvent
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		target, err := tx.LockFun(ctx, funID)
		if err != nil {
			return err
		}
		result, events, err = s.retractOn(ctx, tx, voterID, target, now)
		return err
	})
	if err != nil {
		return RetractResult{}, err
	}
	s.emit(events...)
	return result, nil
}

// CastOrRetractVote flips the voter's vote, deciding on membership under the row lock.
func (s *Service) CastOrRetractVote(ctx context.Context, voterID, funID int64, now time.Time) (VoteOutcome, error) {
	if voterID <= 0 {
		return VoteOutcome{}, common.NewValidationError("voter", "is required")
	}

	var (
		outcome VoteOutcome
		events  []common.EngagementEvent
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		target, err := tx.LockFun(ctx, funID)
		if err != nil {
			return err
		}
		voted, err := tx.HasVote(ctx, voterID, target.ID)
		if err != nil {
			return err
		}

		if voted {
			res, evs, err := s.retractOn(ctx, tx, voterID, target, now)
			if err != nil {
				return err
			}
			outcome, events = VoteOutcome{Type: VoteUnlike, NewTotal: res.Total}, evs
			return nil
		}
		res, evs, err := s.castOn(ctx, tx, voterID, target, now)
		if err != nil {
			return err
		}
		outcome, events = VoteOutcome{Type: VoteLike, NewTotal: res.Total}, evs
		return nil
	})
	if err != nil {
		return VoteOutcome{}, err
	}
	s.emit(events...)
	return outcome, nil
}

func (s *Service) Voters(ctx context.Context, funID int64) ([]dbmysql.User, error) {
	if _, err := s.store.GetFun(ctx, funID); err != nil {
		return nil, err
	}
	return s.store.Voters(ctx, funID)
}

// castOn expects target to be locked already. The parent is locked after
// the repost, never before.
func (s *Service) castOn(ctx context.Context, tx Store, voterID int64, target *dbmysql.Fun, now time.Time) (VoteResult, []common.EngagementEvent, error) {
	parent, err := lockParent(ctx, tx, target)
	if err != nil {
		return VoteResult{}, nil, err
	}

	inserted, err := tx.InsertVote(ctx, voterID, target.ID, now)
	if err != nil {
		return VoteResult{}, nil, err
	}
	if !inserted {
		return VoteResult{AlreadyVoted: true, Total: target.CachedVotesTotal}, nil, nil
	}

	events, err := s.applyDelta(ctx, tx, target, +1, voterID, now)
	if err != nil {
		return VoteResult{}, nil, err
	}

	if parent != nil {
		inserted, err := tx.InsertVote(ctx, voterID, parent.ID, now)
		if err != nil {
			return VoteResult{}, nil, err
		}
		if inserted {
			more, err := s.applyDelta(ctx, tx, parent, +1, voterID, now)
			if err != nil {
				return VoteResult{}, nil, err
			}
			events = append(events, more...)
		}
	}
	return VoteResult{Total: target.CachedVotesTotal}, events, nil
}

func (s *Service) retractOn(ctx context.Context, tx Store, voterID int64, target *dbmysql.Fun, now time.Time) (RetractResult, []common.EngagementEvent, error) {
	parent, err := lockParent(ctx, tx, target)
	if err != nil {
		return RetractResult{}, nil, err
	}

	removed, err := tx.DeleteVote(ctx, voterID, target.ID)
	if err != nil {
		return RetractResult{}, nil, err
	}
	if !removed {
		return RetractResult{Total: target.CachedVotesTotal}, nil, nil
	}

	events, err := s.applyDelta(ctx, tx, target, -1, voterID, now)
	if err != nil {
		return RetractResult{}, nil, err
	}

	if parent != nil {
		removed, err := tx.DeleteVote(ctx, voterID, parent.ID)
		if err != nil {
			return RetractResult{}, nil, err
		}
		if removed {
			more, err := s.applyDelta(ctx, tx, parent, -1, voterID, now)
			if err != nil {
				return RetractResult{}, nil, err
			}
			events = append(events, more...)
		}
	}
	return RetractResult{Removed: true, Total: target.CachedVotesTotal}, events, nil
}

// lockParent locks the original of a repost. A deleted original is skipped.
func lockParent(ctx context.Context, tx Store, target *dbmysql.Fun) (*dbmysql.Fun, error) {
	if !target.IsRepost() {
		return nil, nil
	}
	parent, err := tx.LockFun(ctx, *target.ParentID)
	if common.IsNotFound(err) {
		return nil, nil
	}
	return parent, err
}

// applyDelta adjusts the total, runs the visibility check and persists both
// while the row lock is held.
func (s *Service) applyDelta(ctx context.Context, tx Store, f *dbmysql.Fun, delta int64, voterID int64, now time.Time) ([]common.EngagementEvent, error) {
	published := adjustTotal(f, delta, now)
	if err := tx.SaveCounters(ctx, f, now); err != nil {
		return nil, err
	}

	kind := common.FunLikedEvent
	if delta < 0 {
		kind = common.FunUnlikedEvent
	}
	events := []common.EngagementEvent{s.newEvent(kind, f, voterID, now)}
	if published {
		events = append(events, s.newEvent(common.FunPublishedEvent, f, f.UserID, now))
	}
	return events, nil
}
