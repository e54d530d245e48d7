package funs

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"gofun/internal/common"
	"gofun/internal/config"
	"gofun/internal/dbmysql"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

var dsnUnsafe = regexp.MustCompile(`[^A-Za-z0-9]+`)

// newTestRepo opens a private in-memory database. A single connection keeps
// every statement of a transaction on the same handle.
func newTestRepo(t *testing.T) *FunRepository {
	t.Helper()
	name := dsnUnsafe.ReplaceAllString(t.Name(), "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbmysql.AutoMigrate(db))
	return NewFunRepository(db)
}

func testConfig() *config.Config {
	return &config.Config{
		Ranking: config.RankingConfig{PerPage: 5},
		Media:   config.MediaConfig{BaseURL: "http://media.test/media/"},
	}
}

// recordingBus is an in-memory common.Subject.
type recordingBus struct {
	mu     sync.Mutex
	events []common.EngagementEvent
}

func (b *recordingBus) Subscribe(observer common.Observer)   {}
func (b *recordingBus) Unsubscribe(observer common.Observer) {}

func (b *recordingBus) Notify(event common.EngagementEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) ofType(kind common.EventType) []common.EngagementEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []common.EngagementEvent
	for _, e := range b.events {
		if e.Type == kind {
			out = append(out, e)
		}
	}
	return out
}

type funSeed struct {
	owner       int64
	kind        common.ContentType
	title       string
	tags        []string
	total       int64
	publishedAt *time.Time
	createdAt   time.Time
}

// seedFun writes a payload and an original fun straight through the repository.
func seedFun(t *testing.T, repo *FunRepository, s funSeed) *dbmysql.Fun {
	t.Helper()
	ctx := context.Background()
	if s.kind == "" {
		s.kind = common.ContentTypePost
	}
	if s.createdAt.IsZero() {
		s.createdAt = testNow.Add(-time.Hour)
	}

	payload, ok := dbmysql.NewPayload(s.kind)
	require.True(t, ok)
	switch p := payload.(type) {
	case *dbmysql.Image:
		p.Title, p.URL = s.title, "https://cdn.test/a.png"
	case *dbmysql.Video:
		p.Title, p.URL = s.title, "https://cdn.test/a.mp4"
	case *dbmysql.Post:
		p.Title, p.Body = s.title, "body"
	}
	payload.SetTags(common.NormalizeTags(s.tags))
	require.NoError(t, repo.CreatePayload(ctx, payload))
	require.NoError(t, repo.SyncTags(ctx, s.kind, payload.PayloadID(), payload.TagList()))

	fun := &dbmysql.Fun{
		UserID:           s.owner,
		ContentType:      s.kind,
		ContentID:        payload.PayloadID(),
		CachedVotesTotal: s.total,
		PublishedAt:      s.publishedAt,
		CreatedAt:        s.createdAt,
		UpdatedAt:        s.createdAt,
	}
	require.NoError(t, repo.CreateFun(ctx, fun))
	fun.Content = payload
	return fun
}

func seedVote(t *testing.T, repo *FunRepository, voterID, funID int64, at time.Time) {
	t.Helper()
	inserted, err := repo.InsertVote(context.Background(), voterID, funID, at)
	require.NoError(t, err)
	require.True(t, inserted)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func ids(funs []dbmysql.Fun) []int64 {
	out := make([]int64, 0, len(funs))
	for _, f := range funs {
		out = append(out, f.ID)
	}
	return out
}

func mustGet(t *testing.T, repo *FunRepository, id int64) *dbmysql.Fun {
	t.Helper()
	fun, err := repo.GetFun(context.Background(), id)
	require.NoError(t, err)
	return fun
}
