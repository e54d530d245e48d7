package funs

import (
	"context"
	"time"

	"gofun/internal/common"
	"gofun/internal/dbmysql"
)

// Repost attaches a new repost to the original behind funID. Reposting a
// repost reposts its original and also bumps the counter of the repost the
// request came through.
func (s *Service) Repost(ctx context.Context, reposterID, funID int64, now time.Time) (*dbmysql.Fun, error) {
	if reposterID <= 0 {
		return nil, common.NewValidationError("reposter", "is required")
	}

	var created *dbmysql.Fun
	err := s.store.WithTx(ctx, func(tx Store) error {
		via, err := tx.LockFun(ctx, funID)
		if err != nil {
			return err
		}
		original := via
		if via.IsRepost() {
			if original, err = tx.LockFun(ctx, *via.ParentID); err != nil {
				return err
			}
		}

		if original.UserID == reposterID {
			return common.NewRejectedError(common.SelfRepost)
		}
		existing, err := tx.FindRepost(ctx, reposterID, original.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return common.NewRejectedError(common.AlreadyReposted)
		}

		ownerID, parentID := original.UserID, original.ID
		repost := &dbmysql.Fun{
			UserID:        reposterID,
			OwnerID:       &ownerID,
			ContentType:   original.ContentType,
			ContentID:     original.ContentID,
			ParentID:      &parentID,
			RepostCounter: 1,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.CreateFun(ctx, repost); err != nil {
			if common.IsConflict(err) {
				return common.NewRejectedError(common.AlreadyReposted)
			}
			return err
		}

		original.RepostCounter++
		if err := tx.SaveCounters(ctx, original, now); err != nil {
			return err
		}
		if via.IsRepost() {
			via.RepostCounter++
			if err := tx.SaveCounters(ctx, via, now); err != nil {
				return err
			}
		}
		created = repost
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(s.newEvent(common.FunRepostedEvent, created, reposterID, now))

	if fun, err := s.store.GetFun(ctx, created.ID); err == nil {
		return fun, nil
	}
	return created, nil
}

// Reposts lists the direct reposts of the original behind funID, oldest first.
func (s *Service) Reposts(ctx context.Context, funID int64) ([]dbmysql.Fun, error) {
	fun, err := s.store.GetFun(ctx, funID)
	if err != nil {
		return nil, err
	}
	return s.store.Reposts(ctx, fun.RootID())
}
