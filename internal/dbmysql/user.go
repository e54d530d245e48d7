package dbmysql

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	UserID         int64          `gorm:"primaryKey;column:user_id;autoIncrement" json:"user_id"`
	Handle         string         `gorm:"column:handle;uniqueIndex;size:50;not null" json:"handle"`
	Avatar         string         `gorm:"column:avatar;size:500" json:"avatar,omitempty"`
	ProfileDetails string         `gorm:"column:profile_details;type:text" json:"profile_details,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
