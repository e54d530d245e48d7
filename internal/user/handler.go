package user

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"gofun/internal/common"

	"github.com/gorilla/mux"
)

// UserHeader names the acting user, as on the fun endpoints.
const UserHeader = "X-User-ID"

// Handler exposes user registration and the follow graph over HTTP.
type Handler struct {
	userService UserService
}

func NewHandler(userService UserService) *Handler {
	return &Handler{userService: userService}
}

func (h *Handler) RegisterRoutes(api *mux.Router) {
	users := api.PathPrefix("/users").Subrouter()
	users.HandleFunc("", h.Register).Methods("POST")
	users.HandleFunc("/{id:[0-9]+}", h.GetProfile).Methods("GET")
	users.HandleFunc("/{id:[0-9]+}/follow", h.Follow).Methods("POST")
	users.HandleFunc("/{id:[0-9]+}/follow", h.Unfollow).Methods("DELETE")
	users.HandleFunc("/{id:[0-9]+}/following", h.Following).Methods("GET")
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	user, err := h.userService.RegisterUser(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetProfile(r.Context(), pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := actingUser(w, r)
	if !ok {
		return
	}
	if err := h.userService.Follow(r.Context(), followerID, pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := actingUser(w, r)
	if !ok {
		return
	}
	if err := h.userService.Unfollow(r.Context(), followerID, pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	ids, err := h.userService.Following(r.Context(), pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int64{"following": ids})
}

// pathID relies on the route regexp having accepted the id.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func actingUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.Header.Get(UserHeader), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": UserHeader + " header is required"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case common.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case common.IsNotFound(err):
		status = http.StatusNotFound
	case common.IsConflict(err):
		status = http.StatusConflict
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}
