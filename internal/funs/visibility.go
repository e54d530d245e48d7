package funs

import (
	"time"

	"gofun/internal/dbmysql"
)

// checkVisibility publishes a sandboxed fun whose total sits exactly at
// MinLikes. It runs after every total change, increments and decrements
// alike, and never unpublishes. Reports whether the fun was just published.
func checkVisibility(f *dbmysql.Fun, now time.Time) bool {
	if f.PublishedAt != nil || f.CachedVotesTotal != dbmysql.MinLikes {
		return false
	}
	publishedAt := now
	f.PublishedAt = &publishedAt
	return true
}

// adjustTotal applies delta with a floor of zero and re-checks visibility.
func adjustTotal(f *dbmysql.Fun, delta int64, now time.Time) bool {
	f.CachedVotesTotal += delta
	if f.CachedVotesTotal < 0 {
		f.CachedVotesTotal = 0
	}
	return checkVisibility(f, now)
}
