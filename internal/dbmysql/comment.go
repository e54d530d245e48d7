package dbmysql

import "time"

// Comment hangs off an original fun. ParentID points at the comment it replies to.
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	FunID     int64     `gorm:"column:fun_id;not null;index" json:"fun_id"`
	UserID    int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	ParentID  *int64    `gorm:"column:parent_id;index" json:"parent_id,omitempty"`
	Body      string    `gorm:"column:body;type:text;not null" json:"body" validate:"required,max=2000"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}
