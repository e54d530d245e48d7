package common

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks gofun/internal/common SearchIndex,FollowGraph,MediaStore

import (
	"context"
	"io"
)

type Observer interface {
	Update(event EngagementEvent) error
	Name() string
}

type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Notify(event EngagementEvent)
}

// SearchIndex returns candidate fun IDs for a free-text or tag query.
// A nil types slice means no type restriction; an empty one matches nothing.
type SearchIndex interface {
	SearchIDs(ctx context.Context, query string, types []ContentType, page int) ([]int64, error)
	Index(ctx context.Context, doc SearchDocument) error
	Remove(ctx context.Context, funID int64) error
}

type FollowGraph interface {
	FollowedIDs(ctx context.Context, userID int64) ([]int64, error)
}

type MediaStore interface {
	UploadFile(ctx context.Context, filename, mimeType, uploaderID string, content io.Reader) (*MediaFile, error)
	DownloadFile(ctx context.Context, fileID string) (io.Reader, *MediaFile, error)
	DeleteFile(ctx context.Context, fileID string) error
}
