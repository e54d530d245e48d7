package user

import (
	"context"
	"fmt"

	"gofun/internal/common"
	"gofun/internal/dbmysql"

	"gorm.io/gorm"
)

// FollowRepository is the follow graph behind the feed.
type FollowRepository struct {
	db *gorm.DB
}

var _ common.FollowGraph = (*FollowRepository)(nil)

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Follow adds the edge follower -> followed. Following twice is a no-op.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return common.NewValidationError("followed", "can't be the follower")
	}
	exists, err := r.IsFollowing(ctx, followerID, followedID)
	if err != nil || exists {
		return err
	}

	rel := &dbmysql.UserRelationship{FollowerID: followerID, FollowedID: followedID}
	if err := r.db.WithContext(ctx).Create(rel).Error; err != nil {
		if dbmysql.IsDuplicateKey(err) {
			return nil
		}
		return fmt.Errorf("follow %d -> %d: %w", followerID, followedID, err)
	}
	return nil
}

func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID int64) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&dbmysql.UserRelationship{}).Error
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.UserRelationship{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// FollowedIDs never returns nil, so an empty graph yields an empty feed.
func (r *FollowRepository) FollowedIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).
		Model(&dbmysql.UserRelationship{}).
		Where("follower_id = ?", userID).
		Order("followed_id ASC").
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("followed ids of %d: %w", userID, err)
	}
	return ids, nil
}
