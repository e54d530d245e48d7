package funs

import (
	"context"
	"strings"
	"testing"
	"time"

	"gofun/internal/common"
	"gofun/internal/dbmysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComment_Threads(t *testing.T) {
	svc, repo, bus := newLedgerService(t)
	ctx := context.Background()
	fun := seedFun(t, repo, funSeed{owner: 1})

	first, err := svc.AddComment(ctx, 2, fun.ID, CommentInput{Body: "  first!  "}, testNow)
	require.NoError(t, err)
	assert.Equal(t, "first!", first.Body)
	assert.Equal(t, fun.ID, first.FunID)

	reply, err := svc.AddComment(ctx, 1, fun.ID, CommentInput{Body: "thanks", ParentID: &first.ID}, testNow.Add(time.Second))
	require.NoError(t, err)
	second, err := svc.AddComment(ctx, 3, fun.ID, CommentInput{Body: "lol"}, testNow.Add(2*time.Second))
	require.NoError(t, err)

	assert.Equal(t, int64(3), mustGet(t, repo, fun.ID).CommentsCount)
	assert.Len(t, bus.ofType(common.FunCommentedEvent), 3)

	threads, err := svc.Comments(ctx, fun.ID)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, first.ID, threads[0].ID)
	require.Len(t, threads[0].Replies, 1)
	assert.Equal(t, reply.ID, threads[0].Replies[0].ID)
	assert.Equal(t, second.ID, threads[1].ID)
	assert.Empty(t, threads[1].Replies)
}

func TestAddComment_OnRepostLandsOnOriginal(t *testing.T) {
	svc, repo, _ := newLedgerService(t)
	ctx := context.Background()
	original := seedFun(t, repo, funSeed{owner: 1})
	repost, err := svc.Repost(ctx, 2, original.ID, testNow)
	require.NoError(t, err)

	comment, err := svc.AddComment(ctx, 3, repost.ID, CommentInput{Body: "seen it"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, original.ID, comment.FunID)
	assert.Equal(t, int64(1), mustGet(t, repo, original.ID).CommentsCount)
	assert.Equal(t, int64(0), mustGet(t, repo, repost.ID).CommentsCount)

	fromRepost, err := svc.Comments(ctx, repost.ID)
	require.NoError(t, err)
	require.Len(t, fromRepost, 1)
	assert.Equal(t, comment.ID, fromRepost[0].ID)

	// Counters written by the ledger keep the comment count
	_, err = svc.CastVote(ctx, 4, original.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), mustGet(t, repo, original.ID).CommentsCount)
}

func TestAddComment_Errors(t *testing.T) {
	svc, repo, _ := newLedgerService(t)
	ctx := context.Background()
	fun := seedFun(t, repo, funSeed{owner: 1})
	other := seedFun(t, repo, funSeed{owner: 1})
	elsewhere, err := svc.AddComment(ctx, 2, other.ID, CommentInput{Body: "hi"}, testNow)
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, 0, fun.ID, CommentInput{Body: "hi"}, testNow)
	assert.True(t, common.IsValidation(err))

	_, err = svc.AddComment(ctx, 2, fun.ID, CommentInput{Body: "   "}, testNow)
	assert.EqualError(t, err, "validation failed: body is required")

	_, err = svc.AddComment(ctx, 2, fun.ID, CommentInput{Body: strings.Repeat("a", 2001)}, testNow)
	assert.True(t, common.IsValidation(err))

	_, err = svc.AddComment(ctx, 2, fun.ID, CommentInput{Body: "hi", ParentID: &elsewhere.ID}, testNow)
	assert.True(t, common.IsValidation(err))

	missing := elsewhere.ID + 100
	_, err = svc.AddComment(ctx, 2, fun.ID, CommentInput{Body: "hi", ParentID: &missing}, testNow)
	assert.True(t, common.IsValidation(err))

	_, err = svc.AddComment(ctx, 2, fun.ID+100, CommentInput{Body: "hi"}, testNow)
	assert.True(t, common.IsNotFound(err))

	_, err = svc.Comments(ctx, fun.ID+100)
	assert.True(t, common.IsNotFound(err))

	assert.Equal(t, int64(0), mustGet(t, repo, fun.ID).CommentsCount)
}

func TestDelete_RemovesComments(t *testing.T) {
	svc, repo, _ := newLedgerService(t)
	ctx := context.Background()
	fun := seedFun(t, repo, funSeed{owner: 1})
	_, err := svc.AddComment(ctx, 2, fun.ID, CommentInput{Body: "bye"}, testNow)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, fun.ID, testNow))

	comments, err := repo.Comments(ctx, fun.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestThreadComments_OrphanedReplyStaysVisible(t *testing.T) {
	gone := int64(99)
	threads := threadComments([]dbmysql.Comment{
		{ID: 1, Body: "a"},
		{ID: 2, ParentID: &gone, Body: "b"},
	})
	require.Len(t, threads, 2)
	assert.Equal(t, int64(2), threads[1].ID)
}
