package funs

import (
	"context"
	"strings"
	"time"

	"gofun/internal/common"
	"gofun/internal/dbmysql"
)

type CommentInput struct {
	Body     string `json:"body"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// CommentThread is a comment with its replies, oldest first.
type CommentThread struct {
	dbmysql.Comment
	Replies []CommentThread `json:"replies"`
}

// AddComment stores a comment on the original behind funID and bumps its
// comments_count. A reply must point at a comment on the same original.
// Reposts whose original is gone keep their own thread.
func (s *Service) AddComment(ctx context.Context, authorID, funID int64, in CommentInput, now time.Time) (*dbmysql.Comment, error) {
	if authorID <= 0 {
		return nil, common.NewValidationError("author", "is required")
	}
	comment := &dbmysql.Comment{
		UserID:    authorID,
		ParentID:  in.ParentID,
		Body:      strings.TrimSpace(in.Body),
		CreatedAt: now,
	}
	if err := common.ValidateStruct(comment); err != nil {
		return nil, err
	}

	var host *dbmysql.Fun
	err := s.store.WithTx(ctx, func(tx Store) error {
		target, err := tx.LockFun(ctx, funID)
		if err != nil {
			return err
		}
		parent, err := lockParent(ctx, tx, target)
		if err != nil {
			return err
		}
		host = target
		if parent != nil {
			host = parent
		}

		if in.ParentID != nil {
			replyTo, err := tx.FindComment(ctx, *in.ParentID)
			if common.IsNotFound(err) || (err == nil && replyTo.FunID != host.ID) {
				return common.NewValidationError("parent_id", "must be a comment on the same fun")
			}
			if err != nil {
				return err
			}
		}

		comment.FunID = host.ID
		if err := tx.CreateComment(ctx, comment); err != nil {
			return err
		}
		host.CommentsCount++
		return tx.SaveCounters(ctx, host, now)
	})
	if err != nil {
		return nil, err
	}

	s.emit(s.newEvent(common.FunCommentedEvent, host, authorID, now))
	return comment, nil
}

// Comments returns the threads on the original behind funID.
func (s *Service) Comments(ctx context.Context, funID int64) ([]CommentThread, error) {
	fun, err := s.store.GetFun(ctx, funID)
	if err != nil {
		return nil, err
	}
	hostID := fun.RootID()
	if fun.IsRepost() {
		if _, err := s.store.GetFun(ctx, hostID); common.IsNotFound(err) {
			hostID = fun.ID
		} else if err != nil {
			return nil, err
		}
	}

	comments, err := s.store.Comments(ctx, hostID)
	if err != nil {
		return nil, err
	}
	return threadComments(comments), nil
}

// threadComments nests replies under their parents. Replies whose parent is
// missing are kept at the top level.
func threadComments(comments []dbmysql.Comment) []CommentThread {
	known := make(map[int64]bool, len(comments))
	for _, c := range comments {
		known[c.ID] = true
	}
	replies := make(map[int64][]dbmysql.Comment)
	var roots []dbmysql.Comment
	for _, c := range comments {
		if c.ParentID != nil && known[*c.ParentID] {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
			continue
		}
		roots = append(roots, c)
	}

	var build func(level []dbmysql.Comment) []CommentThread
	build = func(level []dbmysql.Comment) []CommentThread {
		out := make([]CommentThread, 0, len(level))
		for _, c := range level {
			out = append(out, CommentThread{Comment: c, Replies: build(replies[c.ID])})
		}
		return out
	}
	return build(roots)
}
