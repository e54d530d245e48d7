package funs

import (
	"context"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"gofun/internal/common"
	"gofun/internal/config"
	"gofun/internal/dbmysql"

	"github.com/google/uuid"
)

// FunUsecase is everything the transport needs from the engine.
type FunUsecase interface {
	Create(ctx context.Context, ownerID int64, in PayloadInput, now time.Time) (*dbmysql.Fun, error)
	AttachPayload(ctx context.Context, editorID, funID int64, in PayloadInput, now time.Time) (*dbmysql.Fun, error)
	Delete(ctx context.Context, actorID, funID int64, now time.Time) error
	Get(ctx context.Context, funID int64) (*dbmysql.Fun, error)

	CastVote(ctx context.Context, voterID, funID int64, now time.Time) (VoteResult, error)
	RetractVote(ctx context.Context, voterID, funID int64, now time.Time) (RetractResult, error)
	CastOrRetractVote(ctx context.Context, voterID, funID int64, now time.Time) (VoteOutcome, error)
	Voters(ctx context.Context, funID int64) ([]dbmysql.User, error)

	Repost(ctx context.Context, reposterID, funID int64, now time.Time) (*dbmysql.Fun, error)
	Reposts(ctx context.Context, funID int64) ([]dbmysql.Fun, error)

	AddComment(ctx context.Context, authorID, funID int64, in CommentInput, now time.Time) (*dbmysql.Comment, error)
	Comments(ctx context.Context, funID int64) ([]CommentThread, error)

	List(ctx context.Context, filters ListFilters, now time.Time) (*Page, error)
	Related(ctx context.Context, funID, viewerID int64, types []string, now time.Time) ([]dbmysql.Fun, error)
	MonthTrends(ctx context.Context, funID, viewerID int64, types []string, now time.Time) ([]dbmysql.Fun, error)
	Feed(ctx context.Context, viewerID int64, page int) (*Page, error)
	SearchByTags(ctx context.Context, query string, types []string, page int) (*Page, error)
	AutocompleteTags(ctx context.Context, prefix string) ([]string, error)
}

// PayloadInput carries the attributes of a new or edited payload. ID selects
// an existing payload row of the same type to update.
type PayloadInput struct {
	Type  string   `json:"type"`
	ID    *int64   `json:"id,omitempty"`
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
	File  *Upload  `json:"-"`
}

type Upload struct {
	Filename string
	MimeType string
	Content  io.Reader
}

type Service struct {
	store        Store
	search       common.SearchIndex
	follows      common.FollowGraph
	media        common.MediaStore
	events       common.Subject
	perPage      int
	mediaBaseURL string
}

// NewService wires the engine. search, follows, media and events may be nil.
func NewService(store Store, search common.SearchIndex, follows common.FollowGraph,
	media common.MediaStore, events common.Subject, cfg *config.Config) *Service {
	perPage := cfg.Ranking.PerPage
	if perPage <= 0 {
		perPage = 5
	}
	return &Service{
		store:        store,
		search:       search,
		follows:      follows,
		media:        media,
		events:       events,
		perPage:      perPage,
		mediaBaseURL: strings.TrimSuffix(cfg.Media.BaseURL, "/"),
	}
}

// --------- CONTENT ---------

func (s *Service) Create(ctx context.Context, ownerID int64, in PayloadInput, now time.Time) (*dbmysql.Fun, error) {
	if ownerID <= 0 {
		return nil, common.NewValidationError("owner", "is required")
	}
	kind, ok := common.ParseContentType(in.Type)
	if !ok {
		return nil, common.NewValidationError("type", "must be one of image, video, post")
	}

	payload, _ := dbmysql.NewPayload(kind)
	assignPayload(payload, in)
	if err := s.preparePayload(ctx, payload, in.File, ownerID); err != nil {
		return nil, err
	}

	fun := &dbmysql.Fun{
		UserID:      ownerID,
		ContentType: kind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.store.WithTx(ctx, func(tx Store) error {
		if err := tx.CreatePayload(ctx, payload); err != nil {
			return err
		}
		fun.ContentID = payload.PayloadID()
		if err := tx.CreateFun(ctx, fun); err != nil {
			return err
		}
		return tx.SyncTags(ctx, kind, payload.PayloadID(), payload.TagList())
	})
	if err != nil {
		s.discardUpload(ctx, payload)
		return nil, err
	}
	fun.Content = payload

	s.indexFun(ctx, fun)
	s.emit(s.newEvent(common.FunCreatedEvent, fun, ownerID, now))
	return fun, nil
}

// AttachPayload binds the fun to the payload described by in. With an ID the
// payload row is looked up and updated, otherwise a new row is created.
// Only the owner of the fun may edit it.
func (s *Service) AttachPayload(ctx context.Context, editorID, funID int64, in PayloadInput, now time.Time) (*dbmysql.Fun, error) {
	fun, err := s.store.GetFun(ctx, funID)
	if err != nil {
		return nil, err
	}
	if fun.UserID != editorID {
		return nil, common.NewForbiddenError("edit")
	}
	if fun.IsRepost() {
		return nil, common.NewValidationError("fun", "is a repost and can't be edited")
	}
	kind, ok := common.ParseContentType(in.Type)
	if !ok {
		return nil, common.NewValidationError("type", "must be one of image, video, post")
	}

	var payload dbmysql.Payload
	if in.ID != nil {
		payload, err = s.store.FindPayload(ctx, kind, *in.ID)
		if err != nil && !common.IsNotFound(err) {
			return nil, err
		}
	}
	if payload == nil {
		payload, _ = dbmysql.NewPayload(kind)
	}
	assignPayload(payload, in)
	if err := s.preparePayload(ctx, payload, in.File, fun.UserID); err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(tx Store) error {
		if payload.PayloadID() == 0 {
			if err := tx.CreatePayload(ctx, payload); err != nil {
				return err
			}
		} else if err := tx.SavePayload(ctx, payload); err != nil {
			return err
		}
		fun.ContentType = kind
		fun.ContentID = payload.PayloadID()
		if err := tx.UpdateFunContent(ctx, fun, now); err != nil {
			return err
		}
		return tx.SyncTags(ctx, kind, payload.PayloadID(), payload.TagList())
	})
	if err != nil {
		return nil, err
	}
	fun.Content = payload

	s.indexFun(ctx, fun)
	return fun, nil
}

// Delete removes the fun with its votes and comments. The payload goes only when no repost
// still shares it. Deleting a repost gives the original one repost back.
// actorID must own the fun.
func (s *Service) Delete(ctx context.Context, actorID, funID int64, now time.Time) error {
	var (
		deleted *dbmysql.Fun
		removed dbmysql.Payload
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		fun, err := tx.LockFun(ctx, funID)
		if err != nil {
			return err
		}
		if fun.UserID != actorID {
			return common.NewForbiddenError("delete")
		}
		if fun.IsRepost() {
			parent, err := tx.LockFun(ctx, *fun.ParentID)
			switch {
			case common.IsNotFound(err):
			case err != nil:
				return err
			default:
				if parent.RepostCounter > 0 {
					parent.RepostCounter--
				}
				if err := tx.SaveCounters(ctx, parent, now); err != nil {
					return err
				}
			}
		}

		if err := tx.DeleteVotesFor(ctx, fun.ID); err != nil {
			return err
		}
		if err := tx.DeleteCommentsFor(ctx, fun.ID); err != nil {
			return err
		}
		if err := tx.DeleteFun(ctx, fun.ID); err != nil {
			return err
		}

		refs, err := tx.CountPayloadRefs(ctx, fun.ContentType, fun.ContentID)
		if err != nil {
			return err
		}
		if refs == 0 {
			payload, err := tx.FindPayload(ctx, fun.ContentType, fun.ContentID)
			if err != nil && !common.IsNotFound(err) {
				return err
			}
			if err := tx.SyncTags(ctx, fun.ContentType, fun.ContentID, nil); err != nil {
				return err
			}
			if err := tx.DeletePayload(ctx, fun.ContentType, fun.ContentID); err != nil {
				return err
			}
			removed = payload
		}
		deleted = fun
		return nil
	})
	if err != nil {
		return err
	}

	if !deleted.IsRepost() && s.search != nil {
		if err := s.search.Remove(ctx, deleted.ID); err != nil {
			log.Printf("Failed to remove fun %d from search index: %v", deleted.ID, err)
		}
	}
	// Don't fail the delete if the media cleanup fails
	s.discardUpload(ctx, removed)
	s.emit(s.newEvent(common.FunDeletedEvent, deleted, deleted.UserID, now))
	return nil
}

func (s *Service) Get(ctx context.Context, funID int64) (*dbmysql.Fun, error) {
	return s.store.GetFun(ctx, funID)
}

// assignPayload copies the non-empty attributes of in onto p.
func assignPayload(p dbmysql.Payload, in PayloadInput) {
	switch v := p.(type) {
	case *dbmysql.Image:
		setIfNotEmpty(&v.Title, in.Title)
		setIfNotEmpty(&v.URL, in.URL)
	case *dbmysql.Video:
		setIfNotEmpty(&v.Title, in.Title)
		setIfNotEmpty(&v.URL, in.URL)
	case *dbmysql.Post:
		setIfNotEmpty(&v.Title, in.Title)
		setIfNotEmpty(&v.Body, in.Body)
	}
	if in.Tags != nil {
		p.SetTags(common.NormalizeTags(in.Tags))
	}
}

func setIfNotEmpty(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

// preparePayload validates p and, when a file is attached, uploads it and
// binds its URL. The URL is checked only after the upload has produced one.
func (s *Service) preparePayload(ctx context.Context, p dbmysql.Payload, file *Upload, uploaderID int64) error {
	if file == nil {
		return common.ValidateStruct(p)
	}
	if !p.Kind().HasMedia() {
		return common.NewValidationError("file", "is only accepted for images and videos")
	}
	if s.media == nil {
		return common.NewValidationError("file", "uploads are not enabled")
	}
	if err := common.ValidateStruct(p, "URL"); err != nil {
		return err
	}

	uploaded, err := s.media.UploadFile(ctx, file.Filename, file.MimeType, formatID(uploaderID), file.Content)
	if err != nil {
		return err
	}
	url := s.mediaBaseURL + "/" + uploaded.ID
	switch v := p.(type) {
	case *dbmysql.Image:
		v.URL, v.FileID = url, uploaded.ID
	case *dbmysql.Video:
		v.URL, v.FileID = url, uploaded.ID
	}
	if err := common.ValidateStruct(p); err != nil {
		s.discardUpload(ctx, p)
		return err
	}
	return nil
}

func (s *Service) discardUpload(ctx context.Context, p dbmysql.Payload) {
	if p == nil || p.MediaFileID() == "" || s.media == nil {
		return
	}
	if err := s.media.DeleteFile(ctx, p.MediaFileID()); err != nil {
		log.Printf("Failed to delete media file %s: %v", p.MediaFileID(), err)
	}
}

func (s *Service) indexFun(ctx context.Context, fun *dbmysql.Fun) {
	if s.search == nil || fun.Content == nil {
		return
	}
	doc := common.SearchDocument{
		FunID: fun.ID,
		Type:  fun.ContentType,
		Title: fun.Content.Heading(),
		Tags:  fun.Content.TagList(),
	}
	if err := s.search.Index(ctx, doc); err != nil {
		log.Printf("Failed to index fun %d: %v", fun.ID, err)
	}
}

func (s *Service) newEvent(kind common.EventType, fun *dbmysql.Fun, userID int64, now time.Time) common.EngagementEvent {
	return common.EngagementEvent{
		ID:         uuid.NewString(),
		Type:       kind,
		FunID:      fun.ID,
		ParentID:   fun.ParentID,
		UserID:     userID,
		Total:      fun.CachedVotesTotal,
		OccurredAt: now,
	}
}

// emit runs after commit. Delivery problems are the bus's to log.
func (s *Service) emit(events ...common.EngagementEvent) {
	if s.events == nil {
		return
	}
	for _, e := range events {
		s.events.Notify(e)
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
