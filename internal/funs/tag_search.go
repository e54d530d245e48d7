package funs

import (
	"context"

	"gofun/internal/common"
	"gofun/internal/config"
)

// TagSearch answers search queries from the taggings table. Taggings are
// written with the payload, so Index and Remove have nothing to do.
type TagSearch struct {
	store   Store
	perPage int
}

func NewTagSearch(store Store, cfg *config.Config) *TagSearch {
	perPage := cfg.Ranking.PerPage
	if perPage <= 0 {
		perPage = 5
	}
	return &TagSearch{store: store, perPage: perPage}
}

func (t *TagSearch) SearchIDs(ctx context.Context, query string, types []common.ContentType, page int) ([]int64, error) {
	names := common.NormalizeTags([]string{query})
	page = normalizePage(page)
	return t.store.SearchTagged(ctx, names, types, t.perPage, (page-1)*t.perPage)
}

func (t *TagSearch) Index(ctx context.Context, doc common.SearchDocument) error {
	return nil
}

func (t *TagSearch) Remove(ctx context.Context, funID int64) error {
	return nil
}
