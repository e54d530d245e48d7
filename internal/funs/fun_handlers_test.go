package funs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gofun/internal/common"
	"gofun/internal/dbmysql"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFunUsecase struct {
	mock.Mock
}

func (m *mockFunUsecase) Create(ctx context.Context, ownerID int64, in PayloadInput, now time.Time) (*dbmysql.Fun, error) {
	args := m.Called(ctx, ownerID, in, now)
	fun, _ := args.Get(0).(*dbmysql.Fun)
	return fun, args.Error(1)
}

func (m *mockFunUsecase) AttachPayload(ctx context.Context, editorID, funID int64, in PayloadInput, now time.Time) (*dbmysql.Fun, error) {
	args := m.Called(ctx, editorID, funID, in, now)
	fun, _ := args.Get(0).(*dbmysql.Fun)
	return fun, args.Error(1)
}

func (m *mockFunUsecase) Delete(ctx context.Context, actorID, funID int64, now time.Time) error {
	return m.Called(ctx, actorID, funID, now).Error(0)
}

func (m *mockFunUsecase) Get(ctx context.Context, funID int64) (*dbmysql.Fun, error) {
	args := m.Called(ctx, funID)
	fun, _ := args.Get(0).(*dbmysql.Fun)
	return fun, args.Error(1)
}

func (m *mockFunUsecase) CastVote(ctx context.Context, voterID, funID int64, now time.Time) (VoteResult, error) {
	args := m.Called(ctx, voterID, funID, now)
	return args.Get(0).(VoteResult), args.Error(1)
}

func (m *mockFunUsecase) RetractVote(ctx context.Context, voterID, funID int64, now time.Time) (RetractResult, error) {
	args := m.Called(ctx, voterID, funID, now)
	return args.Get(0).(RetractResult), args.Error(1)
}

func (m *mockFunUsecase) CastOrRetractVote(ctx context.Context, voterID, funID int64, now time.Time) (VoteOutcome, error) {
	args := m.Called(ctx, voterID, funID, now)
	return args.Get(0).(VoteOutcome), args.Error(1)
}

func (m *mockFunUsecase) Voters(ctx context.Context, funID int64) ([]dbmysql.User, error) {
	args := m.Called(ctx, funID)
	users, _ := args.Get(0).([]dbmysql.User)
	return users, args.Error(1)
}

func (m *mockFunUsecase) Repost(ctx context.Context, reposterID, funID int64, now time.Time) (*dbmysql.Fun, error) {
	args := m.Called(ctx, reposterID, funID, now)
	fun, _ := args.Get(0).(*dbmysql.Fun)
	return fun, args.Error(1)
}

func (m *mockFunUsecase) AddComment(ctx context.Context, authorID, funID int64, in CommentInput, now time.Time) (*dbmysql.Comment, error) {
	args := m.Called(ctx, authorID, funID, in, now)
	comment, _ := args.Get(0).(*dbmysql.Comment)
	return comment, args.Error(1)
}

func (m *mockFunUsecase) Comments(ctx context.Context, funID int64) ([]CommentThread, error) {
	args := m.Called(ctx, funID)
	threads, _ := args.Get(0).([]CommentThread)
	return threads, args.Error(1)
}

func (m *mockFunUsecase) Reposts(ctx context.Context, funID int64) ([]dbmysql.Fun, error) {
	args := m.Called(ctx, funID)
	funs, _ := args.Get(0).([]dbmysql.Fun)
	return funs, args.Error(1)
}

func (m *mockFunUsecase) List(ctx context.Context, filters ListFilters, now time.Time) (*Page, error) {
	args := m.Called(ctx, filters, now)
	page, _ := args.Get(0).(*Page)
	return page, args.Error(1)
}

func (m *mockFunUsecase) Related(ctx context.Context, funID, viewerID int64, types []string, now time.Time) ([]dbmysql.Fun, error) {
	args := m.Called(ctx, funID, viewerID, types, now)
	funs, _ := args.Get(0).([]dbmysql.Fun)
	return funs, args.Error(1)
}

func (m *mockFunUsecase) MonthTrends(ctx context.Context, funID, viewerID int64, types []string, now time.Time) ([]dbmysql.Fun, error) {
	args := m.Called(ctx, funID, viewerID, types, now)
	funs, _ := args.Get(0).([]dbmysql.Fun)
	return funs, args.Error(1)
}

func (m *mockFunUsecase) Feed(ctx context.Context, viewerID int64, page int) (*Page, error) {
	args := m.Called(ctx, viewerID, page)
	p, _ := args.Get(0).(*Page)
	return p, args.Error(1)
}

func (m *mockFunUsecase) SearchByTags(ctx context.Context, query string, types []string, page int) (*Page, error) {
	args := m.Called(ctx, query, types, page)
	p, _ := args.Get(0).(*Page)
	return p, args.Error(1)
}

func (m *mockFunUsecase) AutocompleteTags(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	tags, _ := args.Get(0).([]string)
	return tags, args.Error(1)
}

func setupRouter(svc FunUsecase) *mux.Router {
	h := NewFunHandlers(svc)
	h.Now = func() time.Time { return testNow }
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/v1").Subrouter())
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestFunHandlers_List(t *testing.T) {
	svc := new(mockFunUsecase)
	r := setupRouter(svc)

	want := ListFilters{
		Types:      []string{"video", "image"},
		Interval:   "month",
		Sandbox:    true,
		ExcludeIDs: []int64{3, 4},
		SortKey:    "cached_votes_total",
		Page:       2,
	}
	svc.On("List", mock.Anything, want, testNow).
		Return(&Page{Items: []dbmysql.Fun{{ID: 1}}, Page: 2, PerPage: 5, Total: 6}, nil)

	req := httptest.NewRequest("GET", "/api/v1/funs?type=video,image&interval=month&sandbox=1&exclude=3,4&sort=cached_votes_total&page=2", nil)
	rec := serve(r, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var page Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(6), page.Total)
	assert.Equal(t, []int64{1}, ids(page.Items))
	svc.AssertExpectations(t)
}

func TestFunHandlers_List_Defaults(t *testing.T) {
	svc := new(mockFunUsecase)
	r := setupRouter(svc)

	svc.On("List", mock.Anything, ListFilters{Page: 1}, testNow).Return(&Page{Items: []dbmysql.Fun{}, Page: 1}, nil)

	rec := serve(r, httptest.NewRequest("GET", "/api/v1/funs?sandbox=false", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, httptest.NewRequest("GET", "/api/v1/funs?exclude=1,x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestFunHandlers_Create(t *testing.T) {
	svc := new(mockFunUsecase)
	r := setupRouter(svc)

	in := PayloadInput{Type: "post", Title: "hi", Body: "there", Tags: []string{"cats"}}
	svc.On("Create", mock.Anything, int64(9), in, testNow).Return(&dbmysql.Fun{ID: 12, UserID: 9}, nil)

	body, _ := json.Marshal(in)
	req := httptest.NewRequest("POST", "/api/v1/funs", bytes.NewReader(body))
	req.Header.Set(UserHeader, "9")
	rec := serve(r, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":12`)
	svc.AssertExpectations(t)
}

func TestFunHandlers_Create_BadRequests(t *testing.T) {
	svc := new(mockFunUsecase)
	r := setupRouter(svc)

	rec := serve(r, httptest.NewRequest("POST", "/api/v1/funs", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec), UserHeader)

	req := httptest.NewRequest("POST", "/api/v1/funs", strings.NewReader(`{not json`))
	req.Header.Set(UserHeader, "9")
	rec = serve(r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFunHandlers_Create_Multipart(t *testing.T) {
	svc := new(mockFunUsecase)
	r := setupRouter(svc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("type", "image"))
	require.NoError(t, mw.WriteField("title", "cat"))
	require.NoError(t, mw.WriteField("tags", "cats, pets"))
	part, err := mw.CreateFormFile("file", "cat.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	svc.On("Create", mock.Anything, int64(9), mock.MatchedBy(func(in PayloadInput) bool {
		return in.Type == "image" && in.Title == "cat" &&
			len(in.Tags) == 1 && in.Tags[0] == "cats, pets" &&
			in.File != nil && in.File.Filename == "cat.png"
	}), testNow).Return(&dbmysql.Fun{ID: 3}, nil)

	req := httptest.NewRequest("POST", "/api/v1/funs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(UserHeader, "9")
	rec := serve(r, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestFunHandlers_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "validation", err: common.NewValidationError("type", "is required"), wantStatus: http.StatusUnprocessableEntity, wantError: "validation failed: type is required"},
		{name: "not found", err: common.NewNotFoundError("fun", int64(5)), wantStatus: http.StatusNotFound, wantError: "fun 5 not found"},
		{name: "forbidden", err: common.NewForbiddenError("delete"), wantStatus: http.StatusForbidden, wantError: "only the owner can delete this fun"},
		{name: "self repost", err: common.NewRejectedError(common.SelfRepost), wantStatus: http.StatusConflict, wantError: "you can't repost your own fun"},
		{name: "already reposted", err: common.NewRejectedError(common.AlreadyReposted), wantStatus: http.StatusConflict, wantError: "you have already reposted this fun"},
		{name: "conflict", err: common.NewConflictError("fun", errors.New("duplicate")), wantStatus: http.StatusConflict},
		{name: "internal", err: errors.New("connection refused"), wantStatus: http.StatusInternalServerError, wantError: "internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockFunUsecase)
			r := setupRouter(svc)
			svc.On("Repost", mock.Anything, int64(9), int64(5), testNow).Return(nil, tc.err)

			req := httptest.NewRequest("POST", "/api/v1/funs/5/repost", nil)
			req.Header.Set(UserHeader, "9")
			rec := serve(r, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantError != "" {
				assert.Equal(t, tc.wantError, errorBody(t, rec))
			}
		})
	}
}

func TestFunHandlers_Like(t *testing.T) {
	svc := new(mockFunUsecase)
	r := setupRouter(svc)

	svc.On("CastOrRetractVote", mock.Anything, int64(9), int64(5), testNow).
		Return(VoteOutcome{Type: VoteLike, NewTotal: 1}, nil)

	req := httptest.NewRequest("POST", "/api/v1/funs/5/like", nil)
	req.Header.Set(UserHeader, "9")
	rec := serve(r, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"type":"like","new_total":1}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestFunHandlers_GetAndDelete(t *testing.T) {
	svc := new(mockFunUsecase)
	r := setupRouter(svc)

	svc.On("Get", mock.Anything, int64(5)).Return(&dbmysql.Fun{ID: 5}, nil)
	svc.On("Delete", mock.Anything, int64(9), int64(5), testNow).Return(nil)
	svc.On("Delete", mock.Anything, int64(8), int64(5), testNow).Return(common.NewForbiddenError("delete"))

	rec := serve(r, httptest.NewRequest("GET", "/api/v1/funs/5", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest("DELETE", "/api/v1/funs/5", nil)
	req.Header.Set(UserHeader, "9")
	rec = serve(r, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest("DELETE", "/api/v1/funs/5", nil)
	req.Header.Set(UserHeader, "8")
	rec = serve(r, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "only the owner can delete this fun", errorBody(t, rec))

	rec = serve(r, httptest.NewRequest("GET", "/api/v1/funs/0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestFunHandlers_Update(t *testing.T) {
	svc := new(mockFunUsecase)
	r := setupRouter(svc)

	in := PayloadInput{Type: "post", Title: "edited"}
	svc.On("AttachPayload", mock.Anything, int64(9), int64(5), in, testNow).Return(&dbmysql.Fun{ID: 5, UserID: 9}, nil)
	svc.On("AttachPayload", mock.Anything, int64(8), int64(5), in, testNow).Return(nil, common.NewForbiddenError("edit"))

	body, _ := json.Marshal(in)
	req := httptest.NewRequest("PUT", "/api/v1/funs/5", bytes.NewReader(body))
	req.Header.Set(UserHeader, "9")
	rec := serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest("PUT", "/api/v1/funs/5", bytes.NewReader(body))
	req.Header.Set(UserHeader, "8")
	rec = serve(r, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "only the owner can edit this fun", errorBody(t, rec))

	rec = serve(r, httptest.NewRequest("PUT", "/api/v1/funs/5", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestFunHandlers_Comments(t *testing.T) {
	svc := new(mockFunUsecase)
	r := setupRouter(svc)

	parent := int64(3)
	in := CommentInput{Body: "nice", ParentID: &parent}
	svc.On("AddComment", mock.Anything, int64(9), int64(5), in, testNow).
		Return(&dbmysql.Comment{ID: 4, FunID: 5, UserID: 9, ParentID: &parent, Body: "nice"}, nil)
	svc.On("Comments", mock.Anything, int64(5)).Return([]CommentThread{
		{Comment: dbmysql.Comment{ID: 3, FunID: 5, UserID: 2, Body: "first"}, Replies: []CommentThread{
			{Comment: dbmysql.Comment{ID: 4, FunID: 5, UserID: 9, ParentID: &parent, Body: "nice"}, Replies: []CommentThread{}},
		}},
	}, nil)

	req := httptest.NewRequest("POST", "/api/v1/funs/5/comments", strings.NewReader(`{"body":"nice","parent_id":3}`))
	req.Header.Set(UserHeader, "9")
	rec := serve(r, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":4`)

	rec = serve(r, httptest.NewRequest("GET", "/api/v1/funs/5/comments", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var threads []struct {
		ID      int64 `json:"id"`
		Replies []struct {
			ID int64 `json:"id"`
		} `json:"replies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &threads))
	require.Len(t, threads, 1)
	assert.Equal(t, int64(3), threads[0].ID)
	require.Len(t, threads[0].Replies, 1)
	assert.Equal(t, int64(4), threads[0].Replies[0].ID)

	// Anonymous and malformed requests never reach the engine
	rec = serve(r, httptest.NewRequest("POST", "/api/v1/funs/5/comments", strings.NewReader(`{"body":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	req = httptest.NewRequest("POST", "/api/v1/funs/5/comments", strings.NewReader(`{`))
	req.Header.Set(UserHeader, "9")
	rec = serve(r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestFunHandlers_RelatedAndTrends(t *testing.T) {
	svc := new(mockFunUsecase)
	r := setupRouter(svc)

	svc.On("Related", mock.Anything, int64(5), int64(0), []string(nil), testNow).Return([]dbmysql.Fun{{ID: 7}}, nil)
	svc.On("MonthTrends", mock.Anything, int64(5), int64(9), []string{"unknown"}, testNow).Return([]dbmysql.Fun{}, nil)

	rec := serve(r, httptest.NewRequest("GET", "/api/v1/funs/5/related", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest("GET", "/api/v1/funs/5/trends?type=unknown", nil)
	req.Header.Set(UserHeader, "9")
	rec = serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestFunHandlers_FeedAndSearch(t *testing.T) {
	svc := new(mockFunUsecase)
	r := setupRouter(svc)

	svc.On("Feed", mock.Anything, int64(9), 3).Return(&Page{Page: 3}, nil)
	svc.On("SearchByTags", mock.Anything, "cats,dogs", []string{"post"}, 1).Return(&Page{Page: 1}, nil)
	svc.On("AutocompleteTags", mock.Anything, "ca").Return([]string{"cats"}, nil)

	rec := serve(r, httptest.NewRequest("GET", "/api/v1/funs/feed?page=3", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest("GET", "/api/v1/funs/feed?page=3", nil)
	req.Header.Set(UserHeader, "9")
	rec = serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, httptest.NewRequest("GET", "/api/v1/funs/tags?query=cats&query=dogs&type=post", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, httptest.NewRequest("GET", "/api/v1/funs/tags/autocomplete?tag=ca", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["cats"]`, rec.Body.String())
	svc.AssertExpectations(t)
}
