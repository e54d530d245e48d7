package common

import (
	"time"
)

type EventType string

const (
	FunCreatedEvent   EventType = "fun.created"
	FunDeletedEvent   EventType = "fun.deleted"
	FunLikedEvent     EventType = "fun.liked"
	FunUnlikedEvent   EventType = "fun.unliked"
	FunPublishedEvent EventType = "fun.published"
	FunRepostedEvent  EventType = "fun.reposted"
	FunCommentedEvent EventType = "fun.commented"
)

// EngagementEvent is emitted after an engagement transaction commits.
type EngagementEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	FunID      int64     `json:"fun_id"`
	ParentID   *int64    `json:"parent_id,omitempty"`
	UserID     int64     `json:"user_id"`
	Total      int64     `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SearchDocument is what the search index stores per original fun.
type SearchDocument struct {
	FunID int64       `json:"fun_id"`
	Type  ContentType `json:"type"`
	Title string      `json:"title"`
	Tags  []string    `json:"tags"`
}

type MediaFile struct {
	ID         string      `json:"id"`          // GridFS ObjectID
	Filename   string      `json:"filename"`    // Original filename
	Size       int64       `json:"size"`        // File size in bytes
	FileType   ContentType `json:"file_type"`   // image or video
	MimeType   string      `json:"mime_type"`   // Full MIME type
	UploadedBy string      `json:"uploaded_by"` // User ID who uploaded
	UploadedAt time.Time   `json:"uploaded_at"`
}
