package common

import "strings"

// ContentType is the discriminant of a fun payload (images, videos and posts tables)
type ContentType string

const (
	ContentTypeImage ContentType = "image"
	ContentTypeVideo ContentType = "video"
	ContentTypePost  ContentType = "post"
)

// DefaultContentTypes lists every payload variant in search-index order.
var DefaultContentTypes = []ContentType{ContentTypeImage, ContentTypeVideo, ContentTypePost}

// UnknownContentType is the sentinel a caller sends to lift the type restriction.
const UnknownContentType = "unknown"

// String returns the string representation
func (ct ContentType) String() string {
	return string(ct)
}

// IsValid checks if the content type is one of the payload variants
func (ct ContentType) IsValid() bool {
	return ct == ContentTypeImage || ct == ContentTypeVideo || ct == ContentTypePost
}

// HasMedia reports whether the variant is backed by an uploaded file.
func (ct ContentType) HasMedia() bool {
	return ct == ContentTypeImage || ct == ContentTypeVideo
}

// Index is the numeric type attribute stored in the search index.
func (ct ContentType) Index() int {
	for i, t := range DefaultContentTypes {
		if t == ct {
			return i
		}
	}
	return -1
}

func ParseContentType(raw string) (ContentType, bool) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(raw)))
	return ct, ct.IsValid()
}

// DetectContentType maps an upload MIME type to a media variant.
func DetectContentType(mimeType string) ContentType {
	lowerMimeType := strings.ToLower(mimeType)
	if strings.HasPrefix(lowerMimeType, "video/") {
		return ContentTypeVideo
	}
	return ContentTypeImage // Default fallback
}
