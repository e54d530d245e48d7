package dbmysql

import "gofun/internal/common"

type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name string `gorm:"column:name;size:100;not null;uniqueIndex" json:"name"`
}

func (Tag) TableName() string {
	return "tags"
}

// Tagging links a tag to a payload row of the given type.
type Tagging struct {
	ID           int64              `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	TagID        int64              `gorm:"column:tag_id;not null;uniqueIndex:idx_tagging" json:"tag_id"`
	TaggableType common.ContentType `gorm:"column:taggable_type;size:16;not null;uniqueIndex:idx_tagging;index:idx_taggable" json:"taggable_type"`
	TaggableID   int64              `gorm:"column:taggable_id;not null;uniqueIndex:idx_tagging;index:idx_taggable" json:"taggable_id"`
}

func (Tagging) TableName() string {
	return "taggings"
}
