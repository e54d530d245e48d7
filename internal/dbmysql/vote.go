package dbmysql

import "time"

// Vote is one ledger entry. At most one per (voter, fun).
type Vote struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	VoterID   int64     `gorm:"column:voter_id;not null;uniqueIndex:idx_voter_votable" json:"voter_id"`
	VotableID int64     `gorm:"column:votable_id;not null;uniqueIndex:idx_voter_votable;index" json:"votable_id"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (Vote) TableName() string {
	return "votes"
}
