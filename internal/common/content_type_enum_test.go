package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType_String(t *testing.T) {
	assert.Equal(t, "image", ContentTypeImage.String())
	assert.Equal(t, "video", ContentTypeVideo.String())
	assert.Equal(t, "post", ContentTypePost.String())
}

func TestContentType_IsValid(t *testing.T) {
	assert.True(t, ContentTypeImage.IsValid())
	assert.True(t, ContentTypeVideo.IsValid())
	assert.True(t, ContentTypePost.IsValid())

	assert.False(t, ContentType("gif").IsValid())
	assert.False(t, ContentType(UnknownContentType).IsValid())
}

func TestContentType_Index(t *testing.T) {
	assert.Equal(t, 0, ContentTypeImage.Index())
	assert.Equal(t, 1, ContentTypeVideo.Index())
	assert.Equal(t, 2, ContentTypePost.Index())
	assert.Equal(t, -1, ContentType("audio").Index())
}

func TestParseContentType(t *testing.T) {
	cases := []struct {
		input string
		want  ContentType
		ok    bool
	}{
		{"image", ContentTypeImage, true},
		{" Video ", ContentTypeVideo, true},
		{"POST", ContentTypePost, true},
		{"unknown", ContentType("unknown"), false},
		{"", ContentType(""), false},
	}

	for _, tc := range cases {
		got, ok := ParseContentType(tc.input)
		assert.Equal(t, tc.want, got, "input: %q", tc.input)
		assert.Equal(t, tc.ok, ok, "input: %q", tc.input)
	}
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, ContentTypeVideo, DetectContentType("video/mp4"))
	assert.Equal(t, ContentTypeVideo, DetectContentType("Video/WEBM"))
	assert.Equal(t, ContentTypeImage, DetectContentType("image/png"))
	assert.Equal(t, ContentTypeImage, DetectContentType("application/pdf"))
	assert.Equal(t, ContentTypeImage, DetectContentType(""))
}
