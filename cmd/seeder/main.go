// Command seeder fills a development database with fake users, follows,
// funs, votes, reposts and comments.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"gofun/internal/common"
	"gofun/internal/config"
	"gofun/internal/funs"
	"gofun/internal/user"
	"gofun/internal/wire"

	"github.com/brianvoe/gofakeit/v6"
)

func main() {
	users := flag.Int("users", 20, "number of users to create")
	perUser := flag.Int("funs", 5, "funs per user")
	votes := flag.Int("votes", 200, "vote attempts")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	gofakeit.Seed(*seed)
	rng := rand.New(rand.NewSource(*seed))

	cfg := config.LoadConfig()
	closeLog, err := cfg.SetupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	cfg.Events.Workers = 0

	app, cleanup, err := wire.InitializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	userIDs := seedUsers(ctx, app, *users)
	seedFollows(ctx, app, userIDs, rng)
	funIDs := seedFuns(ctx, app, userIDs, *perUser, now)
	seedVotes(ctx, app, userIDs, funIDs, *votes, rng, now)
	seedReposts(ctx, app, userIDs, funIDs, rng, now)
	seedComments(ctx, app, userIDs, funIDs, rng, now)

	log.Printf("✅ Seeded %d users and %d funs", len(userIDs), len(funIDs))
}

func seedUsers(ctx context.Context, app *wire.Application, n int) []int64 {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		u, err := app.Users.RegisterUser(ctx, user.RegisterInput{
			Handle:         fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Avatar:         gofakeit.ImageURL(128, 128),
			ProfileDetails: gofakeit.Sentence(12),
		})
		if err != nil {
			if common.IsConflict(err) || common.IsValidation(err) {
				log.Printf("skip user: %v", err)
				continue
			}
			log.Fatalf("create user: %v", err)
		}
		ids = append(ids, u.UserID)
	}
	return ids
}

func seedFollows(ctx context.Context, app *wire.Application, userIDs []int64, rng *rand.Rand) {
	for _, follower := range userIDs {
		for i := 0; i < 3 && len(userIDs) > 1; i++ {
			followed := userIDs[rng.Intn(len(userIDs))]
			if followed == follower {
				continue
			}
			if err := app.Users.Follow(ctx, follower, followed); err != nil {
				log.Printf("follow %d -> %d: %v", follower, followed, err)
			}
		}
	}
}

func seedFuns(ctx context.Context, app *wire.Application, userIDs []int64, perUser int, now time.Time) []int64 {
	var ids []int64
	for _, owner := range userIDs {
		for i := 0; i < perUser; i++ {
			at := now.Add(-time.Duration(gofakeit.Number(0, 60*24)) * time.Hour)
			fun, err := app.Service.Create(ctx, owner, fakePayload(), at)
			if err != nil {
				log.Printf("create fun for %d: %v", owner, err)
				continue
			}
			ids = append(ids, fun.ID)
		}
	}
	return ids
}

func fakePayload() funs.PayloadInput {
	tags := []string{gofakeit.Animal(), gofakeit.Hobby(), gofakeit.Color()}
	switch gofakeit.Number(0, 2) {
	case 0:
		return funs.PayloadInput{
			Type:  string(common.ContentTypeImage),
			Title: gofakeit.HipsterSentence(4),
			URL:   gofakeit.ImageURL(640, 480),
			Tags:  tags,
		}
	case 1:
		return funs.PayloadInput{
			Type:  string(common.ContentTypeVideo),
			Title: gofakeit.MovieName(),
			URL:   gofakeit.URL(),
			Tags:  tags,
		}
	default:
		return funs.PayloadInput{
			Type:  string(common.ContentTypePost),
			Title: gofakeit.BookTitle(),
			Body:  gofakeit.Paragraph(2, 3, 12, " "),
			Tags:  tags,
		}
	}
}

func seedVotes(ctx context.Context, app *wire.Application, userIDs, funIDs []int64, n int, rng *rand.Rand, now time.Time) {
	if len(userIDs) == 0 || len(funIDs) == 0 {
		return
	}
	for i := 0; i < n; i++ {
		voter := userIDs[rng.Intn(len(userIDs))]
		funID := funIDs[rng.Intn(len(funIDs))]
		if _, err := app.Service.CastVote(ctx, voter, funID, now); err != nil {
			log.Printf("vote %d on %d: %v", voter, funID, err)
		}
	}
}

func seedReposts(ctx context.Context, app *wire.Application, userIDs, funIDs []int64, rng *rand.Rand, now time.Time) {
	if len(userIDs) == 0 || len(funIDs) == 0 {
		return
	}
	for i := 0; i < len(funIDs)/4; i++ {
		reposter := userIDs[rng.Intn(len(userIDs))]
		funID := funIDs[rng.Intn(len(funIDs))]
		_, err := app.Service.Repost(ctx, reposter, funID, now)
		if err != nil && !common.IsRejected(err, common.SelfRepost) && !common.IsRejected(err, common.AlreadyReposted) {
			log.Printf("repost %d by %d: %v", funID, reposter, err)
		}
	}
}

var commentLines = []string{"haha", "so true", "seen this before", "made my day", "who did this"}

// seedComments leaves a few threads, replying to the previous comment half the time.
func seedComments(ctx context.Context, app *wire.Application, userIDs, funIDs []int64, rng *rand.Rand, now time.Time) {
	if len(userIDs) == 0 || len(funIDs) == 0 {
		return
	}
	for i := 0; i < len(funIDs)/3; i++ {
		funID := funIDs[rng.Intn(len(funIDs))]
		var last *int64
		for j := 0; j < 1+rng.Intn(3); j++ {
			in := funs.CommentInput{Body: commentLines[rng.Intn(len(commentLines))]}
			if last != nil && rng.Intn(2) == 0 {
				in.ParentID = last
			}
			comment, err := app.Service.AddComment(ctx, userIDs[rng.Intn(len(userIDs))], funID, in, now)
			if err != nil {
				log.Printf("comment on %d: %v", funID, err)
				continue
			}
			last = &comment.ID
		}
	}
}
