package funs

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gofun/internal/common"

	"github.com/gorilla/mux"
)

const maxUploadSize = 32 << 20

// UserHeader carries the acting user. Authentication happens in front of this service.
const UserHeader = "X-User-ID"

type FunHandlers struct {
	FunSvc FunUsecase
	Now    func() time.Time
}

func NewFunHandlers(svc FunUsecase) *FunHandlers {
	return &FunHandlers{
		FunSvc: svc,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// RegisterRoutes mounts the fun endpoints on an /api/v1 subrouter.
func (h *FunHandlers) RegisterRoutes(api *mux.Router) {
	funs := api.PathPrefix("/funs").Subrouter()
	funs.HandleFunc("", h.List).Methods("GET")
	funs.HandleFunc("", h.Create).Methods("POST")
	funs.HandleFunc("/feed", h.Feed).Methods("GET")
	funs.HandleFunc("/tags", h.SearchByTags).Methods("GET")
	funs.HandleFunc("/tags/autocomplete", h.AutocompleteTags).Methods("GET")
	funs.HandleFunc("/{id:[0-9]+}", h.Get).Methods("GET")
	funs.HandleFunc("/{id:[0-9]+}", h.Update).Methods("PUT")
	funs.HandleFunc("/{id:[0-9]+}", h.Delete).Methods("DELETE")
	funs.HandleFunc("/{id:[0-9]+}/like", h.Like).Methods("POST")
	funs.HandleFunc("/{id:[0-9]+}/likes", h.Likes).Methods("GET")
	funs.HandleFunc("/{id:[0-9]+}/repost", h.Repost).Methods("POST")
	funs.HandleFunc("/{id:[0-9]+}/reposts", h.Reposts).Methods("GET")
	funs.HandleFunc("/{id:[0-9]+}/comments", h.AddComment).Methods("POST")
	funs.HandleFunc("/{id:[0-9]+}/comments", h.Comments).Methods("GET")
	funs.HandleFunc("/{id:[0-9]+}/related", h.Related).Methods("GET")
	funs.HandleFunc("/{id:[0-9]+}/trends", h.Trends).Methods("GET")
}

func (h *FunHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exclude, err := parseIDList(q.Get("exclude"))
	if err != nil {
		writeBadRequest(w, "exclude must be a comma separated list of ids")
		return
	}

	filters := ListFilters{
		Types:      typeParams(r),
		Interval:   q.Get("interval"),
		Sandbox:    sandboxParam(r),
		ExcludeIDs: exclude,
		SortKey:    q.Get("sort"),
		Page:       pageParam(r),
	}
	page, err := h.FunSvc.List(r.Context(), filters, h.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *FunHandlers) Create(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := requireViewer(w, r)
	if !ok {
		return
	}
	in, ok := decodePayload(w, r)
	if !ok {
		return
	}
	defer closeUpload(in)

	fun, err := h.FunSvc.Create(r.Context(), viewerID, in, h.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fun)
}

func (h *FunHandlers) Get(w http.ResponseWriter, r *http.Request) {
	funID, ok := pathID(w, r)
	if !ok {
		return
	}
	fun, err := h.FunSvc.Get(r.Context(), funID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fun)
}

func (h *FunHandlers) Update(w http.ResponseWriter, r *http.Request) {
	funID, ok := pathID(w, r)
	if !ok {
		return
	}
	viewerID, ok := requireViewer(w, r)
	if !ok {
		return
	}
	in, ok := decodePayload(w, r)
	if !ok {
		return
	}
	defer closeUpload(in)

	fun, err := h.FunSvc.AttachPayload(r.Context(), viewerID, funID, in, h.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fun)
}

func (h *FunHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	funID, ok := pathID(w, r)
	if !ok {
		return
	}
	viewerID, ok := requireViewer(w, r)
	if !ok {
		return
	}
	if err := h.FunSvc.Delete(r.Context(), viewerID, funID, h.Now()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FunHandlers) Like(w http.ResponseWriter, r *http.Request) {
	funID, ok := pathID(w, r)
	if !ok {
		return
	}
	viewerID, ok := requireViewer(w, r)
	if !ok {
		return
	}

	outcome, err := h.FunSvc.CastOrRetractVote(r.Context(), viewerID, funID, h.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *FunHandlers) Likes(w http.ResponseWriter, r *http.Request) {
	funID, ok := pathID(w, r)
	if !ok {
		return
	}
	voters, err := h.FunSvc.Voters(r.Context(), funID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, voters)
}

func (h *FunHandlers) Repost(w http.ResponseWriter, r *http.Request) {
	funID, ok := pathID(w, r)
	if !ok {
		return
	}
	viewerID, ok := requireViewer(w, r)
	if !ok {
		return
	}

	fun, err := h.FunSvc.Repost(r.Context(), viewerID, funID, h.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fun)
}

func (h *FunHandlers) Reposts(w http.ResponseWriter, r *http.Request) {
	funID, ok := pathID(w, r)
	if !ok {
		return
	}
	reposts, err := h.FunSvc.Reposts(r.Context(), funID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reposts)
}

func (h *FunHandlers) AddComment(w http.ResponseWriter, r *http.Request) {
	funID, ok := pathID(w, r)
	if !ok {
		return
	}
	viewerID, ok := requireViewer(w, r)
	if !ok {
		return
	}
	var in CommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	comment, err := h.FunSvc.AddComment(r.Context(), viewerID, funID, in, h.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *FunHandlers) Comments(w http.ResponseWriter, r *http.Request) {
	funID, ok := pathID(w, r)
	if !ok {
		return
	}
	threads, err := h.FunSvc.Comments(r.Context(), funID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

func (h *FunHandlers) Related(w http.ResponseWriter, r *http.Request) {
	funID, ok := pathID(w, r)
	if !ok {
		return
	}
	funs, err := h.FunSvc.Related(r.Context(), funID, viewerParam(r), typeParams(r), h.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, funs)
}

func (h *FunHandlers) Trends(w http.ResponseWriter, r *http.Request) {
	funID, ok := pathID(w, r)
	if !ok {
		return
	}
	funs, err := h.FunSvc.MonthTrends(r.Context(), funID, viewerParam(r), typeParams(r), h.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, funs)
}

func (h *FunHandlers) Feed(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := requireViewer(w, r)
	if !ok {
		return
	}
	page, err := h.FunSvc.Feed(r.Context(), viewerID, pageParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *FunHandlers) SearchByTags(w http.ResponseWriter, r *http.Request) {
	query := strings.Join(r.URL.Query()["query"], ",")
	page, err := h.FunSvc.SearchByTags(r.Context(), query, typeParams(r), pageParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *FunHandlers) AutocompleteTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.FunSvc.AutocompleteTags(r.Context(), r.URL.Query().Get("tag"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// --------- REQUEST PARSING ---------

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid fun id")
		return 0, false
	}
	return id, true
}

// viewerParam returns the acting user, or 0 for anonymous requests.
func viewerParam(r *http.Request) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get(UserHeader)), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func requireViewer(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id := viewerParam(r)
	if id == 0 {
		writeBadRequest(w, UserHeader+" header is required")
		return 0, false
	}
	return id, true
}

// typeParams keeps nil when no type was sent so the default set applies.
func typeParams(r *http.Request) []string {
	raw, ok := r.URL.Query()["type"]
	if !ok {
		return nil
	}
	var types []string
	for _, value := range raw {
		types = append(types, strings.Split(value, ",")...)
	}
	return types
}

// sandboxParam treats any value but false or 0 as a sandbox request.
func sandboxParam(r *http.Request) bool {
	raw, ok := r.URL.Query()["sandbox"]
	if !ok || len(raw) == 0 {
		return false
	}
	value := strings.ToLower(strings.TrimSpace(raw[0]))
	return value != "false" && value != "0"
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// decodePayload reads either a JSON body or a multipart form with an optional file.
func decodePayload(w http.ResponseWriter, r *http.Request) (PayloadInput, bool) {
	var in PayloadInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeBadRequest(w, "invalid multipart form")
			return in, false
		}
		in.Type = r.FormValue("type")
		in.Title = r.FormValue("title")
		in.URL = r.FormValue("url")
		in.Body = r.FormValue("body")
		if tags, ok := r.MultipartForm.Value["tags"]; ok {
			in.Tags = tags
		}
		if raw := r.FormValue("id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeBadRequest(w, "invalid payload id")
				return in, false
			}
			in.ID = &id
		}
		if file, header, err := r.FormFile("file"); err == nil {
			in.File = &Upload{
				Filename: header.Filename,
				MimeType: header.Header.Get("Content-Type"),
				Content:  file,
			}
		}
		return in, true
	}

	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return in, false
	}
	return in, true
}

func closeUpload(in PayloadInput) {
	if in.File == nil {
		return
	}
	if c, ok := in.File.Content.(io.Closer); ok {
		c.Close()
	}
}

// --------- RESPONSES ---------

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

// writeError maps engine errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case common.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case common.IsNotFound(err):
		status = http.StatusNotFound
	case common.IsForbidden(err):
		status = http.StatusForbidden
	case common.IsRejected(err, common.AlreadyReposted), common.IsRejected(err, common.SelfRepost), common.IsConflict(err):
		status = http.StatusConflict
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}
