package media

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gofun/internal/common"
	"gofun/internal/common/mocks"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func setup(t *testing.T) (*mocks.MockMediaStore, *mux.Router) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockMediaStore(ctrl)
	r := mux.NewRouter()
	NewHTTPServer(store).RegisterRoutes(r)
	return store, r
}

func TestServeFile(t *testing.T) {
	store, r := setup(t)
	store.EXPECT().DownloadFile(gomock.Any(), "abc").Return(
		strings.NewReader("png-bytes"),
		&common.MediaFile{ID: "abc", Size: 9, MimeType: "image/png", FileType: common.ContentTypeImage},
		nil,
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/media/abc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "9", w.Header().Get("Content-Length"))
	assert.Equal(t, "png-bytes", w.Body.String())
}

func TestServeFile_FallsBackOnFileType(t *testing.T) {
	store, r := setup(t)
	store.EXPECT().DownloadFile(gomock.Any(), "vid").Return(
		strings.NewReader("x"),
		&common.MediaFile{ID: "vid", FileType: common.ContentTypeVideo},
		nil,
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/media/vid", nil))

	assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
}

func TestServeFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"missing", &common.NotFoundError{Resource: "media file", ID: "nope"}, http.StatusNotFound},
		{"backend", errors.New("mongo down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, r := setup(t)
			store.EXPECT().DownloadFile(gomock.Any(), "nope").Return(nil, nil, tt.err)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/media/nope", nil))
			assert.Equal(t, tt.code, w.Code)
		})
	}
}
