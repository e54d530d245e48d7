package dbmysql

import (
	"time"

	"gofun/internal/common"
)

// Payload is the content a fun wraps. The discriminant picks the table.
type Payload interface {
	Kind() common.ContentType
	PayloadID() int64
	Heading() string
	TagList() []string
	SetTags(tags []string)
	// MediaFileID is the GridFS id of an uploaded file, empty for links and posts.
	MediaFileID() string
}

// NewPayload returns an empty payload row for kind.
func NewPayload(kind common.ContentType) (Payload, bool) {
	switch kind {
	case common.ContentTypeImage:
		return &Image{}, true
	case common.ContentTypeVideo:
		return &Video{}, true
	case common.ContentTypePost:
		return &Post{}, true
	default:
		return nil, false
	}
}

type Image struct {
	ID            int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title         string    `gorm:"column:title;size:255" json:"title" validate:"max=255"`
	URL           string    `gorm:"column:url;size:500;not null" json:"url" validate:"required,url"`
	FileID        string    `gorm:"column:file_id;size:24" json:"file_id,omitempty"`
	CachedTagList string    `gorm:"column:cached_tag_list;size:500" json:"cached_tag_list"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Image) TableName() string { return "images" }
func (i *Image) Kind() common.ContentType { return common.ContentTypeImage }
func (i *Image) PayloadID() int64 { return i.ID }
func (i *Image) Heading() string { return i.Title }
func (i *Image) TagList() []string { return common.SplitTags(i.CachedTagList) }
func (i *Image) SetTags(tags []string) { i.CachedTagList = common.JoinTags(tags) }
func (i *Image) MediaFileID() string { return i.FileID }

type Video struct {
	ID            int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title         string    `gorm:"column:title;size:255" json:"title" validate:"max=255"`
	URL           string    `gorm:"column:url;size:500;not null" json:"url" validate:"required,url"`
	FileID        string    `gorm:"column:file_id;size:24" json:"file_id,omitempty"`
	CachedTagList string    `gorm:"column:cached_tag_list;size:500" json:"cached_tag_list"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Video) TableName() string { return "videos" }
func (v *Video) Kind() common.ContentType { return common.ContentTypeVideo }
func (v *Video) PayloadID() int64 { return v.ID }
func (v *Video) Heading() string { return v.Title }
func (v *Video) TagList() []string { return common.SplitTags(v.CachedTagList) }
func (v *Video) SetTags(tags []string) { v.CachedTagList = common.JoinTags(tags) }
func (v *Video) MediaFileID() string { return v.FileID }

type Post struct {
	ID            int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title         string    `gorm:"column:title;size:255" json:"title" validate:"max=255"`
	Body          string    `gorm:"column:body;type:text;not null" json:"body" validate:"required"`
	CachedTagList string    `gorm:"column:cached_tag_list;size:500" json:"cached_tag_list"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Post) TableName() string { return "posts" }
func (p *Post) Kind() common.ContentType { return common.ContentTypePost }
func (p *Post) PayloadID() int64 { return p.ID }
func (p *Post) Heading() string { return p.Title }
func (p *Post) TagList() []string { return common.SplitTags(p.CachedTagList) }
func (p *Post) SetTags(tags []string) { p.CachedTagList = common.JoinTags(tags) }
func (p *Post) MediaFileID() string { return "" }
