package funs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gofun/internal/common"
	"gofun/internal/dbmysql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FunRepository struct {
	db *gorm.DB
}

func NewFunRepository(db *gorm.DB) *FunRepository {
	return &FunRepository{db: db}
}

func (r *FunRepository) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&FunRepository{db: tx})
	})
}

// --------- PAYLOADS ---------

func (r *FunRepository) CreatePayload(ctx context.Context, p dbmysql.Payload) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create %s: %w", p.Kind(), err)
	}
	return nil
}

func (r *FunRepository) SavePayload(ctx context.Context, p dbmysql.Payload) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("save %s %d: %w", p.Kind(), p.PayloadID(), err)
	}
	return nil
}

func (r *FunRepository) FindPayload(ctx context.Context, kind common.ContentType, id int64) (dbmysql.Payload, error) {
	p, ok := dbmysql.NewPayload(kind)
	if !ok {
		return nil, common.NewValidationError("type", "is not a payload type")
	}
	if err := r.db.WithContext(ctx).First(p, "id = ?", id).Error; err != nil {
		return nil, notFound(err, kind.String(), id)
	}
	return p, nil
}

func (r *FunRepository) DeletePayload(ctx context.Context, kind common.ContentType, id int64) error {
	p, ok := dbmysql.NewPayload(kind)
	if !ok {
		return common.NewValidationError("type", "is not a payload type")
	}
	return r.db.WithContext(ctx).Delete(p, "id = ?", id).Error
}

func (r *FunRepository) CountPayloadRefs(ctx context.Context, kind common.ContentType, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Fun{}).
		Where("content_type = ? AND content_id = ?", kind.String(), id).
		Count(&count).Error
	return count, err
}

// --------- FUNS ---------

func (r *FunRepository) CreateFun(ctx context.Context, f *dbmysql.Fun) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		if dbmysql.IsDuplicateKey(err) {
			return common.NewConflictError("fun", err)
		}
		return fmt.Errorf("create fun: %w", err)
	}
	return nil
}

func (r *FunRepository) GetFun(ctx context.Context, id int64) (*dbmysql.Fun, error) {
	var f dbmysql.Fun
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "fun", id)
	}
	funs := []dbmysql.Fun{f}
	if err := r.loadPayloads(ctx, funs); err != nil {
		return nil, err
	}
	return &funs[0], nil
}

func (r *FunRepository) LockFun(ctx context.Context, id int64) (*dbmysql.Fun, error) {
	var f dbmysql.Fun
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&f, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "fun", id)
	}
	return &f, nil
}

// SaveCounters writes the engagement columns of an already locked fun.
func (r *FunRepository) SaveCounters(ctx context.Context, f *dbmysql.Fun, now time.Time) error {
	f.UpdatedAt = now
	return r.db.WithContext(ctx).
		Model(&dbmysql.Fun{}).
		Where("id = ?", f.ID).
		Updates(map[string]interface{}{
			"cached_votes_total": f.CachedVotesTotal,
			"repost_counter":     f.RepostCounter,
			"comments_count":     f.CommentsCount,
			"published_at":       f.PublishedAt,
			"updated_at":         now,
		}).Error
}

func (r *FunRepository) UpdateFunContent(ctx context.Context, f *dbmysql.Fun, now time.Time) error {
	f.UpdatedAt = now
	return r.db.WithContext(ctx).
		Model(&dbmysql.Fun{}).
		Where("id = ?", f.ID).
		Updates(map[string]interface{}{
			"content_type": f.ContentType.String(),
			"content_id":   f.ContentID,
			"updated_at":   now,
		}).Error
}

func (r *FunRepository) DeleteFun(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&dbmysql.Fun{}, "id = ?", id).Error
}

func (r *FunRepository) FindRepost(ctx context.Context, userID, parentID int64) (*dbmysql.Fun, error) {
	var f dbmysql.Fun
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND parent_id = ?", userID, parentID).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FunRepository) Reposts(ctx context.Context, parentID int64) ([]dbmysql.Fun, error) {
	var funs []dbmysql.Fun
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&funs).Error
	if err != nil {
		return nil, err
	}
	return funs, r.loadPayloads(ctx, funs)
}

func (r *FunRepository) FindFuns(ctx context.Context, q FunQuery) ([]dbmysql.Fun, error) {
	if q.MatchesNothing() {
		return []dbmysql.Fun{}, nil
	}

	tx := r.scoped(ctx, q)
	for _, col := range q.OrderBy {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: true})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	funs := []dbmysql.Fun{}
	if err := tx.Find(&funs).Error; err != nil {
		return nil, fmt.Errorf("find funs: %w", err)
	}
	return funs, r.loadPayloads(ctx, funs)
}

func (r *FunRepository) CountFuns(ctx context.Context, q FunQuery) (int64, error) {
	if q.MatchesNothing() {
		return 0, nil
	}
	var total int64
	if err := r.scoped(ctx, q).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count funs: %w", err)
	}
	return total, nil
}

// scoped applies the filters of q on a fresh session, in composition order.
func (r *FunRepository) scoped(ctx context.Context, q FunQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&dbmysql.Fun{})

	if q.OriginalsOnly {
		tx = tx.Where("parent_id IS NULL")
	}
	if !q.Types.Unrestricted {
		tx = tx.Where("content_type IN ?", q.Types.Values())
	}
	switch q.Visibility {
	case VisibilityPublished:
		tx = tx.Where("published_at IS NOT NULL")
	case VisibilitySandboxed:
		tx = tx.Where("published_at IS NULL")
	}
	if q.Window != nil {
		tx = tx.Where(clause.And(
			clause.Gte{Column: clause.Column{Name: q.Window.Column}, Value: q.Window.From},
			clause.Lte{Column: clause.Column{Name: q.Window.Column}, Value: q.Window.To},
		))
	}
	if q.CandidateIDs != nil {
		tx = tx.Where("id IN ?", q.CandidateIDs)
	}
	if len(q.ExcludeIDs) > 0 {
		tx = tx.Where("id NOT IN ?", q.ExcludeIDs)
	}
	if q.UserIDs != nil {
		tx = tx.Where("user_id IN ?", q.UserIDs)
	}
	return tx
}

type payloadKey struct {
	kind common.ContentType
	id   int64
}

// loadPayloads fills Content with one query per payload table.
func (r *FunRepository) loadPayloads(ctx context.Context, funs []dbmysql.Fun) error {
	ids := map[common.ContentType][]int64{}
	for _, f := range funs {
		ids[f.ContentType] = append(ids[f.ContentType], f.ContentID)
	}

	found := map[payloadKey]dbmysql.Payload{}
	for kind, kindIDs := range ids {
		payloads, err := r.findPayloads(ctx, kind, kindIDs)
		if err != nil {
			return fmt.Errorf("load %s payloads: %w", kind, err)
		}
		for _, p := range payloads {
			found[payloadKey{kind: kind, id: p.PayloadID()}] = p
		}
	}

	for i := range funs {
		if p, ok := found[payloadKey{kind: funs[i].ContentType, id: funs[i].ContentID}]; ok {
			funs[i].Content = p
		}
	}
	return nil
}

func (r *FunRepository) findPayloads(ctx context.Context, kind common.ContentType, ids []int64) ([]dbmysql.Payload, error) {
	db := r.db.WithContext(ctx).Where("id IN ?", ids)
	var out []dbmysql.Payload

	switch kind {
	case common.ContentTypeImage:
		var rows []dbmysql.Image
		if err := db.Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case common.ContentTypeVideo:
		var rows []dbmysql.Video
		if err := db.Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case common.ContentTypePost:
		var rows []dbmysql.Post
		if err := db.Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	}
	return out, nil
}

// --------- VOTES ---------

// InsertVote adds the ledger entry unless it exists. Reports whether a row was written.
func (r *FunRepository) InsertVote(ctx context.Context, voterID, funID int64, now time.Time) (bool, error) {
	exists, err := r.HasVote(ctx, voterID, funID)
	if err != nil || exists {
		return false, err
	}
	if err := r.createVote(ctx, voterID, funID, now); err != nil {
		return false, err
	}
	return true, nil
}

// createVote relies on idx_voter_votable alone to refuse a second vote.
func (r *FunRepository) createVote(ctx context.Context, voterID, funID int64, now time.Time) error {
	vote := &dbmysql.Vote{VoterID: voterID, VotableID: funID, CreatedAt: now}
	if err := r.db.WithContext(ctx).Create(vote).Error; err != nil {
		if dbmysql.IsDuplicateKey(err) {
			return common.NewConflictError("vote", err)
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (r *FunRepository) DeleteVote(ctx context.Context, voterID, funID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("voter_id = ? AND votable_id = ?", voterID, funID).
		Delete(&dbmysql.Vote{})
	return res.RowsAffected > 0, res.Error
}

func (r *FunRepository) HasVote(ctx context.Context, voterID, funID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Vote{}).
		Where("voter_id = ? AND votable_id = ?", voterID, funID).
		Count(&count).Error
	return count > 0, err
}

func (r *FunRepository) DeleteVotesFor(ctx context.Context, funID int64) error {
	return r.db.WithContext(ctx).Where("votable_id = ?", funID).Delete(&dbmysql.Vote{}).Error
}

func (r *FunRepository) VotedIDsSince(ctx context.Context, voterID int64, since time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Vote{}).
		Where("voter_id = ? AND created_at >= ?", voterID, since).
		Pluck("votable_id", &ids).Error
	return ids, err
}

func (r *FunRepository) Voters(ctx context.Context, funID int64) ([]dbmysql.User, error) {
	users := []dbmysql.User{}
	err := r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Joins("JOIN votes ON votes.voter_id = users.user_id").
		Where("votes.votable_id = ?", funID).
		Order("votes.created_at ASC").
		Find(&users).Error
	return users, err
}

// --------- COMMENTS ---------

func (r *FunRepository) CreateComment(ctx context.Context, c *dbmysql.Comment) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *FunRepository) FindComment(ctx context.Context, id int64) (*dbmysql.Comment, error) {
	var c dbmysql.Comment
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "comment", id)
	}
	return &c, nil
}

func (r *FunRepository) Comments(ctx context.Context, funID int64) ([]dbmysql.Comment, error) {
	comments := []dbmysql.Comment{}
	err := r.db.WithContext(ctx).
		Where("fun_id = ?", funID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *FunRepository) DeleteCommentsFor(ctx context.Context, funID int64) error {
	return r.db.WithContext(ctx).Where("fun_id = ?", funID).Delete(&dbmysql.Comment{}).Error
}

// --------- TAGS ---------

// SyncTags replaces the taggings of one payload row.
func (r *FunRepository) SyncTags(ctx context.Context, kind common.ContentType, payloadID int64, names []string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("taggable_type = ? AND taggable_id = ?", kind.String(), payloadID).
		Delete(&dbmysql.Tagging{}).Error; err != nil {
		return fmt.Errorf("clear taggings: %w", err)
	}

	for _, name := range names {
		tag := dbmysql.Tag{Name: name}
		if err := db.Where(dbmysql.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return fmt.Errorf("tag %q: %w", name, err)
		}
		tagging := &dbmysql.Tagging{TagID: tag.ID, TaggableType: kind, TaggableID: payloadID}
		if err := db.Create(tagging).Error; err != nil {
			return fmt.Errorf("tagging %q: %w", name, err)
		}
	}
	return nil
}

func (r *FunRepository) AutocompleteTags(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.NewReplacer("%", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(prefix)))
	names := []string{}
	if prefix == "" {
		return names, nil
	}
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Tag{}).
		Joins("JOIN taggings ON taggings.tag_id = tags.id").
		Where("tags.name LIKE ?", prefix+"%").
		Group("tags.name").
		Order("tags.name ASC").
		Limit(limit).
		Pluck("tags.name", &names).Error
	return names, err
}

func (r *FunRepository) SearchTagged(ctx context.Context, names []string, types []common.ContentType, limit, offset int) ([]int64, error) {
	ids := []int64{}
	if len(names) == 0 || (types != nil && len(types) == 0) {
		return ids, nil
	}

	tx := r.db.WithContext(ctx).
		Model(&dbmysql.Fun{}).
		Joins("JOIN taggings ON taggings.taggable_type = funs.content_type AND taggings.taggable_id = funs.content_id").
		Joins("JOIN tags ON tags.id = taggings.tag_id").
		Where("funs.parent_id IS NULL").
		Where("tags.name IN ?", names)
	if types != nil {
		tx = tx.Where("funs.content_type IN ?", TypeFilter{Types: types}.Values())
	}

	err := tx.Group("funs.id").
		Order("COUNT(tags.id) DESC").
		Order("funs.id DESC").
		Limit(limit).
		Offset(offset).
		Pluck("funs.id", &ids).Error
	return ids, err
}

func notFound(err error, resource string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.NewNotFoundError(resource, id)
	}
	return err
}
