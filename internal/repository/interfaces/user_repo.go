package interfaces

import (
	"context"
	"instagram-clone-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository 定义用户数据访问接口
// Find 类方法在未找到时返回 (nil, nil)，由服务层决定错误语义
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByHandle(ctx context.Context, handle string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindSummariesByIDs 批量获取作者摘要，用于视图组装
	FindSummariesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.UserSummary, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	UpdateProfileImage(ctx context.Context, id primitive.ObjectID, imageURL, imageName string) error

	// 唯一性检查排除指定用户自身
	IsEmailTaken(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error)
	IsHandleTaken(ctx context.Context, handle string, excludeID primitive.ObjectID) (bool, error)

	// ToggleFollow 在一个事务中同时更新双方的 following/followers 镜像
	ToggleFollow(ctx context.Context, followerID, targetID primitive.ObjectID) (added bool, err error)
	IsFollowing(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error)
	// FollowCounts 返回 (totalFollow, totalFollower)，由集合基数派生
	FollowCounts(ctx context.Context, id primitive.ObjectID) (int, int, error)

	// ToggleSave 维护有序的收藏列表，添加时追加到末尾
	ToggleSave(ctx context.Context, userID, postID primitive.ObjectID) (added bool, err error)
	IsPostSaved(ctx context.Context, userID, postID primitive.ObjectID) (bool, error)
	// SavedPostIDs 按收藏顺序返回
	SavedPostIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}
