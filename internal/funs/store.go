package funs

import (
	"context"
	"time"

	"gofun/internal/common"
	"gofun/internal/dbmysql"
)

// Store is the persistence boundary of the engine. Missing rows come back
// as *common.NotFoundError and unique violations as *common.ConflictError.
type Store interface {
	// WithTx runs fn in one transaction. fn must only use the Store it is given.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	CreatePayload(ctx context.Context, p dbmysql.Payload) error
	SavePayload(ctx context.Context, p dbmysql.Payload) error
	FindPayload(ctx context.Context, kind common.ContentType, id int64) (dbmysql.Payload, error)
	DeletePayload(ctx context.Context, kind common.ContentType, id int64) error
	CountPayloadRefs(ctx context.Context, kind common.ContentType, id int64) (int64, error)

	CreateFun(ctx context.Context, f *dbmysql.Fun) error
	GetFun(ctx context.Context, id int64) (*dbmysql.Fun, error)
	// LockFun reads the fun row under a row lock, without its payload.
	LockFun(ctx context.Context, id int64) (*dbmysql.Fun, error)
	SaveCounters(ctx context.Context, f *dbmysql.Fun, now time.Time) error
	UpdateFunContent(ctx context.Context, f *dbmysql.Fun, now time.Time) error
	DeleteFun(ctx context.Context, id int64) error
	FindRepost(ctx context.Context, userID, parentID int64) (*dbmysql.Fun, error)
	Reposts(ctx context.Context, parentID int64) ([]dbmysql.Fun, error)
	FindFuns(ctx context.Context, q FunQuery) ([]dbmysql.Fun, error)
	CountFuns(ctx context.Context, q FunQuery) (int64, error)

	InsertVote(ctx context.Context, voterID, funID int64, now time.Time) (bool, error)
	DeleteVote(ctx context.Context, voterID, funID int64) (bool, error)
	HasVote(ctx context.Context, voterID, funID int64) (bool, error)
	DeleteVotesFor(ctx context.Context, funID int64) error
	VotedIDsSince(ctx context.Context, voterID int64, since time.Time) ([]int64, error)
	Voters(ctx context.Context, funID int64) ([]dbmysql.User, error)

	CreateComment(ctx context.Context, c *dbmysql.Comment) error
	FindComment(ctx context.Context, id int64) (*dbmysql.Comment, error)
	// Comments lists every comment on the fun, oldest first.
	Comments(ctx context.Context, funID int64) ([]dbmysql.Comment, error)
	DeleteCommentsFor(ctx context.Context, funID int64) error

	SyncTags(ctx context.Context, kind common.ContentType, payloadID int64, names []string) error
	AutocompleteTags(ctx context.Context, prefix string, limit int) ([]string, error)
	// SearchTagged ranks originals by the number of matching tags.
	SearchTagged(ctx context.Context, names []string, types []common.ContentType, limit, offset int) ([]int64, error)
}
