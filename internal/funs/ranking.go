package funs

import (
	"context"
	"time"

	"gofun/internal/common"
	"gofun/internal/dbmysql"
)

const (
	relatedLimit      = 3
	relatedMonths     = 3
	trendsMonths      = 1
	autocompleteLimit = 10
)

type Page struct {
	Items   []dbmysql.Fun `json:"items"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	Total   int64         `json:"total"`
}

func (s *Service) List(ctx context.Context, filters ListFilters, now time.Time) (*Page, error) {
	q := BuildListQuery(filters, now, s.perPage)
	return s.page(ctx, q, normalizePage(filters.Page))
}

// Related returns up to three published originals sharing the source's tags,
// skipping the source and whatever the viewer liked in the last three months.
func (s *Service) Related(ctx context.Context, funID, viewerID int64, types []string, now time.Time) ([]dbmysql.Fun, error) {
	source, err := s.store.GetFun(ctx, funID)
	if err != nil {
		return nil, err
	}
	since := now.AddDate(0, -relatedMonths, 0)
	exclude, err := s.excludedFor(ctx, source.ID, viewerID, since)
	if err != nil {
		return nil, err
	}

	filter := CleanTypes(types)
	candidates := []int64{}
	if source.Content != nil && s.search != nil {
		if tags := source.Content.TagList(); len(tags) > 0 {
			ids, err := s.search.SearchIDs(ctx, common.JoinTags(tags), filter.SearchTypes(), 1)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, ids...)
		}
	}

	return s.store.FindFuns(ctx, FunQuery{
		OriginalsOnly: true,
		Types:         filter,
		Visibility:    VisibilityPublished,
		Window:        &TimeWindow{Column: "published_at", From: since, To: now},
		CandidateIDs:  candidates,
		ExcludeIDs:    exclude,
		OrderBy:       []string{"cached_votes_total"},
		Limit:         relatedLimit,
	})
}

// MonthTrends returns the three most liked originals published this month
// that the viewer hasn't liked this month.
func (s *Service) MonthTrends(ctx context.Context, funID, viewerID int64, types []string, now time.Time) ([]dbmysql.Fun, error) {
	if _, err := s.store.GetFun(ctx, funID); err != nil {
		return nil, err
	}
	since := now.AddDate(0, -trendsMonths, 0)
	exclude, err := s.excludedFor(ctx, funID, viewerID, since)
	if err != nil {
		return nil, err
	}

	return s.store.FindFuns(ctx, FunQuery{
		OriginalsOnly: true,
		Types:         CleanTypes(types),
		Visibility:    VisibilityPublished,
		Window:        &TimeWindow{Column: "published_at", From: since, To: now},
		ExcludeIDs:    exclude,
		OrderBy:       []string{"cached_votes_total"},
		Limit:         relatedLimit,
	})
}

// Feed lists the originals posted by the users the viewer follows, newest first.
// Reposts stay reachable through Reposts.
func (s *Service) Feed(ctx context.Context, viewerID int64, page int) (*Page, error) {
	if viewerID <= 0 {
		return nil, common.NewValidationError("viewer", "is required")
	}
	if s.follows == nil {
		return nil, common.NewValidationError("viewer", "follow graph is not available")
	}
	followed, err := s.follows.FollowedIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if followed == nil {
		followed = []int64{}
	}

	page = normalizePage(page)
	q := FunQuery{
		OriginalsOnly: true,
		Types:         TypeFilter{Unrestricted: true},
		UserIDs:       followed,
		OrderBy:       []string{"created_at", "id"},
		Limit:         s.perPage,
		Offset:        (page - 1) * s.perPage,
	}
	return s.page(ctx, q, page)
}

// SearchByTags pages through the search index and keeps its rank order.
func (s *Service) SearchByTags(ctx context.Context, query string, types []string, page int) (*Page, error) {
	if len(common.NormalizeTags([]string{query})) == 0 {
		return nil, common.NewValidationError("query", "is required")
	}
	if s.search == nil {
		return nil, common.NewValidationError("query", "search is not available")
	}

	page = normalizePage(page)
	filter := CleanTypes(types)
	ids, err := s.search.SearchIDs(ctx, query, filter.SearchTypes(), page)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}

	found, err := s.store.FindFuns(ctx, FunQuery{
		OriginalsOnly: true,
		Types:         filter,
		CandidateIDs:  ids,
	})
	if err != nil {
		return nil, err
	}
	items := orderByIDs(found, ids)
	return &Page{Items: items, Page: page, PerPage: s.perPage, Total: int64(len(items))}, nil
}

func (s *Service) AutocompleteTags(ctx context.Context, prefix string) ([]string, error) {
	return s.store.AutocompleteTags(ctx, prefix, autocompleteLimit)
}

func (s *Service) page(ctx context.Context, q FunQuery, page int) (*Page, error) {
	items, err := s.store.FindFuns(ctx, q)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountFuns(ctx, q)
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Page: page, PerPage: q.Limit, Total: total}, nil
}

func (s *Service) excludedFor(ctx context.Context, sourceID, viewerID int64, since time.Time) ([]int64, error) {
	exclude := []int64{sourceID}
	if viewerID <= 0 {
		return exclude, nil
	}
	voted, err := s.store.VotedIDsSince(ctx, viewerID, since)
	if err != nil {
		return nil, err
	}
	return append(exclude, voted...), nil
}

func orderByIDs(funs []dbmysql.Fun, ids []int64) []dbmysql.Fun {
	byID := make(map[int64]dbmysql.Fun, len(funs))
	for _, f := range funs {
		byID[f.ID] = f
	}
	out := make([]dbmysql.Fun, 0, len(funs))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			out = append(out, f)
			delete(byID, id)
		}
	}
	return out
}
