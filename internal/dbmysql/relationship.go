package dbmysql

import "time"

// UserRelationship is a directed follow edge.
type UserRelationship struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID int64     `gorm:"column:follower_id;not null;index:idx_follower_followed,unique" json:"follower_id"`
	FollowedID int64     `gorm:"column:followed_id;not null;index:idx_follower_followed,unique;index" json:"followed_id"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserRelationship) TableName() string {
	return "user_relationships"
}
