package funs

import (
	"strings"
	"time"

	"gofun/internal/common"
)

type Interval string

const (
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
	IntervalYear  Interval = "year"
)

// NormalizeInterval maps anything but week, month or year to year.
func NormalizeInterval(raw string) Interval {
	switch Interval(strings.ToLower(strings.TrimSpace(raw))) {
	case IntervalWeek:
		return IntervalWeek
	case IntervalMonth:
		return IntervalMonth
	default:
		return IntervalYear
	}
}

// Since returns the start of the window ending at now.
func (i Interval) Since(now time.Time) time.Time {
	switch i {
	case IntervalWeek:
		return now.AddDate(0, 0, -7)
	case IntervalMonth:
		return now.AddDate(0, -1, 0)
	default:
		return now.AddDate(-1, 0, 0)
	}
}

// TypeFilter is the normalized type restriction. Unrestricted wins over Types;
// a restricted filter with no types matches nothing.
type TypeFilter struct {
	Types        []common.ContentType
	Unrestricted bool
}

// CleanTypes normalizes raw type input: nil selects every variant, a lone
// "unknown" lifts the restriction, anything else is intersected with the variants.
func CleanTypes(raw []string) TypeFilter {
	if raw == nil {
		return TypeFilter{Types: append([]common.ContentType(nil), common.DefaultContentTypes...)}
	}
	if len(raw) > 0 && strings.TrimSpace(raw[0]) == common.UnknownContentType {
		return TypeFilter{Unrestricted: true}
	}

	requested := make(map[common.ContentType]bool, len(raw))
	for _, r := range raw {
		requested[common.ContentType(strings.TrimSpace(r))] = true
	}
	types := []common.ContentType{}
	for _, t := range common.DefaultContentTypes {
		if requested[t] {
			types = append(types, t)
		}
	}
	return TypeFilter{Types: types}
}

func (f TypeFilter) MatchesNothing() bool {
	return !f.Unrestricted && len(f.Types) == 0
}

// Values returns the types as strings for an IN clause.
func (f TypeFilter) Values() []string {
	out := make([]string, len(f.Types))
	for i, t := range f.Types {
		out[i] = t.String()
	}
	return out
}

// SearchTypes is the type hint handed to the search index; nil means any type.
func (f TypeFilter) SearchTypes() []common.ContentType {
	if f.Unrestricted {
		return nil
	}
	return append([]common.ContentType{}, f.Types...)
}

const defaultOrderColumn = "published_at"

var sortableColumns = map[string]bool{
	"id":                 true,
	"user_id":            true,
	"owner_id":           true,
	"content_type":       true,
	"content_id":         true,
	"cached_votes_total": true,
	"repost_counter":     true,
	"parent_id":          true,
	"published_at":       true,
	"created_at":         true,
	"updated_at":         true,
}

// OrderColumns parses a possibly comma separated sort key, keeping only known
// columns. With none left it falls back to published_at.
func OrderColumns(sortKey string) []string {
	var cols []string
	seen := map[string]bool{}
	for _, part := range strings.Split(sortKey, ",") {
		col := strings.ToLower(strings.TrimSpace(part))
		if !sortableColumns[col] || seen[col] {
			continue
		}
		seen[col] = true
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return []string{defaultOrderColumn}
	}
	return cols
}

type Visibility int

const (
	VisibilityAny Visibility = iota
	VisibilityPublished
	VisibilitySandboxed
)

// TimeWindow bounds Column to [From, To].
type TimeWindow struct {
	Column string
	From   time.Time
	To     time.Time
}

// ListFilters are the raw listing parameters. CandidateIDs nil means no
// search intersection; a non-nil empty slice yields no results.
type ListFilters struct {
	Types        []string
	Interval     string
	Sandbox      bool
	CandidateIDs []int64
	ExcludeIDs   []int64
	SortKey      string
	Page         int
}

// FunQuery is the canonical query handed to storage. Every ordering column is DESC.
type FunQuery struct {
	OriginalsOnly bool
	Types         TypeFilter
	Visibility    Visibility
	Window        *TimeWindow
	CandidateIDs  []int64
	ExcludeIDs    []int64
	UserIDs       []int64
	OrderBy       []string
	Limit         int
	Offset        int
}

func (q FunQuery) MatchesNothing() bool {
	if q.Types.MatchesNothing() {
		return true
	}
	if q.CandidateIDs != nil && len(q.CandidateIDs) == 0 {
		return true
	}
	return q.UserIDs != nil && len(q.UserIDs) == 0
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// BuildListQuery composes originals-only, type, visibility+interval,
// candidates, exclusions, ordering and pagination into one query.
func BuildListQuery(f ListFilters, now time.Time, perPage int) FunQuery {
	interval := NormalizeInterval(f.Interval)
	page := normalizePage(f.Page)

	q := FunQuery{
		OriginalsOnly: true,
		Types:         CleanTypes(f.Types),
		CandidateIDs:  f.CandidateIDs,
		ExcludeIDs:    f.ExcludeIDs,
		OrderBy:       OrderColumns(f.SortKey),
		Limit:         perPage,
		Offset:        (page - 1) * perPage,
	}

	if f.Sandbox {
		q.Visibility = VisibilitySandboxed
		q.Window = &TimeWindow{Column: "created_at", From: interval.Since(now), To: now}
	} else {
		q.Visibility = VisibilityPublished
		q.Window = &TimeWindow{Column: "published_at", From: interval.Since(now), To: now}
	}
	return q
}
