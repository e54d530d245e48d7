package user

//go:generate mockgen -destination=mock_repositories.go -package=user gofun/internal/user UserRepository,FollowStore

import (
	"context"
	"errors"

	"gofun/internal/common"
	"gofun/internal/dbmysql"
)

// FollowStore is the write side of the follow graph.
type FollowStore interface {
	Follow(ctx context.Context, followerID, followedID int64) error
	Unfollow(ctx context.Context, followerID, followedID int64) error
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
	FollowedIDs(ctx context.Context, userID int64) ([]int64, error)
}

var _ FollowStore = (*FollowRepository)(nil)

type UserService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*dbmysql.User, error)
	GetProfile(ctx context.Context, userID int64) (*dbmysql.User, error)
	Follow(ctx context.Context, followerID, followedID int64) error
	Unfollow(ctx context.Context, followerID, followedID int64) error
	Following(ctx context.Context, userID int64) ([]int64, error)
}

type RegisterInput struct {
	Handle         string `json:"handle" validate:"required,alphanum,min=3,max=50"`
	Avatar         string `json:"avatar" validate:"omitempty,url,max=500"`
	ProfileDetails string `json:"profile_details"`
}

type userService struct {
	userRepo UserRepository
	follows  FollowStore
}

func NewUserService(userRepo UserRepository, follows FollowStore) UserService {
	return &userService{userRepo: userRepo, follows: follows}
}

func (s *userService) RegisterUser(ctx context.Context, in RegisterInput) (*dbmysql.User, error) {
	if err := common.ValidateStruct(in); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.CheckUserExists(ctx, in.Handle)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.NewConflictError("user", errors.New("handle already exists"))
	}

	user := &dbmysql.User{
		Handle:         in.Handle,
		Avatar:         in.Avatar,
		ProfileDetails: in.ProfileDetails,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*dbmysql.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

// Follow checks both users exist before adding the edge.
func (s *userService) Follow(ctx context.Context, followerID, followedID int64) error {
	if _, err := s.userRepo.GetUserByID(ctx, followerID); err != nil {
		return err
	}
	if _, err := s.userRepo.GetUserByID(ctx, followedID); err != nil {
		return err
	}
	return s.follows.Follow(ctx, followerID, followedID)
}

func (s *userService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	return s.follows.Unfollow(ctx, followerID, followedID)
}

func (s *userService) Following(ctx context.Context, userID int64) ([]int64, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.FollowedIDs(ctx, userID)
}
