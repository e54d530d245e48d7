package dbmysql

import (
	"time"

	"gofun/internal/common"
)

// MinLikes is the engagement total at which a sandboxed fun gets published.
const MinLikes int64 = 1

// Fun wraps exactly one payload row. Reposts share the payload of their parent.
type Fun struct {
	ID               int64              `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID           int64              `gorm:"column:user_id;not null;index;uniqueIndex:idx_user_parent" json:"user_id"`
	OwnerID          *int64             `gorm:"column:owner_id" json:"owner_id,omitempty"`
	ContentType      common.ContentType `gorm:"column:content_type;size:16;not null;index:idx_fun_content" json:"content_type"`
	ContentID        int64              `gorm:"column:content_id;not null;index:idx_fun_content" json:"content_id"`
	CachedVotesTotal int64              `gorm:"column:cached_votes_total;not null;default:0" json:"cached_votes_total"`
	RepostCounter    int64              `gorm:"column:repost_counter;not null;default:0" json:"repost_counter"`
	CommentsCount    int64              `gorm:"column:comments_count;not null;default:0" json:"comments_count"`
	ParentID         *int64             `gorm:"column:parent_id;uniqueIndex:idx_user_parent" json:"parent_id,omitempty"`
	PublishedAt      *time.Time         `gorm:"column:published_at;index" json:"published_at,omitempty"`
	CreatedAt        time.Time          `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"column:updated_at" json:"updated_at"`

	Content Payload `gorm:"-" json:"content,omitempty"`
}

func (Fun) TableName() string {
	return "funs"
}

func (f *Fun) IsRepost() bool {
	return f.ParentID != nil
}

// RootID is the id reposts attach to.
func (f *Fun) RootID() int64 {
	if f.ParentID != nil {
		return *f.ParentID
	}
	return f.ID
}

func (f *Fun) InSandbox() bool {
	return f.PublishedAt == nil
}
