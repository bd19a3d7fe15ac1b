package service

import (
	"context"
	"instagram-clone-backend/internal/errors"
	"instagram-clone-backend/internal/repository/interfaces"
	"instagram-clone-backend/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// 切换操作的结果状态
const (
	ToggleAdded   = "added"
	ToggleRemoved = "removed"
)

// ToggleService 统一实现点赞/关注/收藏的成员切换
type ToggleService struct {
	userRepo interfaces.UserRepository
	postRepo interfaces.PostRepository
}

func NewToggleService(userRepo interfaces.UserRepository, postRepo interfaces.PostRepository) *ToggleService {
	return &ToggleService{
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

func toggleState(added bool) string {
	if added {
		return ToggleAdded
	}
	return ToggleRemoved
}

// TogglePostLike 切换观察者对帖子的点赞
func (s *ToggleService) TogglePostLike(ctx context.Context, postID, viewerID primitive.ObjectID) (string, error) {
	if viewerID.IsZero() {
		return "", errors.New(errors.ErrUnauthorized, "missing viewer context")
	}
	added, err := s.postRepo.TogglePostLike(ctx, postID, viewerID)
	if err == mongo.ErrNoDocuments {
		return "", errors.New(errors.ErrPostNotFound, "post not found")
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "toggle post like failed", err)
	}
	return toggleState(added), nil
}

// ToggleCommentLike 切换观察者对评论的点赞
func (s *ToggleService) ToggleCommentLike(ctx context.Context, commentID, viewerID primitive.ObjectID) (string, error) {
	if viewerID.IsZero() {
		return "", errors.New(errors.ErrUnauthorized, "missing viewer context")
	}
	added, err := s.postRepo.ToggleCommentLike(ctx, commentID, viewerID)
	if err == mongo.ErrNoDocuments {
		return "", errors.New(errors.ErrCommentNotFound, "comment not found")
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "toggle comment like failed", err)
	}
	return toggleState(added), nil
}

// ToggleReplyLike 切换观察者对回复的点赞
func (s *ToggleService) ToggleReplyLike(ctx context.Context, replyID, viewerID primitive.ObjectID) (string, error) {
	if viewerID.IsZero() {
		return "", errors.New(errors.ErrUnauthorized, "missing viewer context")
	}
	added, err := s.postRepo.ToggleReplyLike(ctx, replyID, viewerID)
	if err == mongo.ErrNoDocuments {
		return "", errors.New(errors.ErrCommentNotFound, "reply not found")
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "toggle reply like failed", err)
	}
	return toggleState(added), nil
}

// ToggleFollow 切换关注关系，双向镜像由存储层事务保证
func (s *ToggleService) ToggleFollow(ctx context.Context, viewerID, targetID primitive.ObjectID) (string, error) {
	if viewerID.IsZero() {
		return "", errors.New(errors.ErrUnauthorized, "missing viewer context")
	}
	if viewerID == targetID {
		return "", errors.New(errors.ErrValidation, "cannot follow yourself")
	}
	added, err := s.userRepo.ToggleFollow(ctx, viewerID, targetID)
	if err == mongo.ErrNoDocuments {
		return "", errors.New(errors.ErrUserNotFound, "user not found")
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "toggle follow failed", err)
	}
	util.Logger.Info("关注状态变更",
		zap.String("viewer", viewerID.Hex()),
		zap.String("target", targetID.Hex()),
		zap.Bool("added", added))
	return toggleState(added), nil
}

// ToggleSave 切换帖子收藏，收藏列表保持加入顺序
func (s *ToggleService) ToggleSave(ctx context.Context, viewerID, postID primitive.ObjectID) (string, error) {
	if viewerID.IsZero() {
		return "", errors.New(errors.ErrUnauthorized, "missing viewer context")
	}
	post, err := s.postRepo.FindPostByID(ctx, postID)
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "find post failed", err)
	}
	if post == nil {
		return "", errors.New(errors.ErrPostNotFound, "post not found")
	}
	added, err := s.userRepo.ToggleSave(ctx, viewerID, postID)
	if err == mongo.ErrNoDocuments {
		return "", errors.New(errors.ErrUserNotFound, "user not found")
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "toggle save failed", err)
	}
	return toggleState(added), nil
}

// PostLikeStatus 返回观察者是否点赞了帖子，匿名观察者恒为 false
func (s *ToggleService) PostLikeStatus(ctx context.Context, postID, viewerID primitive.ObjectID) (bool, error) {
	if viewerID.IsZero() {
		return false, nil
	}
	liked, err := s.postRepo.IsPostLiked(ctx, postID, viewerID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "like check failed", err)
	}
	return liked, nil
}

// CommentLikeStatus 返回观察者是否点赞了评论
func (s *ToggleService) CommentLikeStatus(ctx context.Context, commentID, viewerID primitive.ObjectID) (bool, error) {
	if viewerID.IsZero() {
		return false, nil
	}
	liked, err := s.postRepo.IsCommentLiked(ctx, commentID, viewerID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "like check failed", err)
	}
	return liked, nil
}

// ReplyLikeStatus 返回观察者是否点赞了回复
func (s *ToggleService) ReplyLikeStatus(ctx context.Context, replyID, viewerID primitive.ObjectID) (bool, error) {
	if viewerID.IsZero() {
		return false, nil
	}
	liked, err := s.postRepo.IsReplyLiked(ctx, replyID, viewerID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "like check failed", err)
	}
	return liked, nil
}

// FollowStatus 返回观察者是否关注了目标用户
func (s *ToggleService) FollowStatus(ctx context.Context, viewerID, targetID primitive.ObjectID) (bool, error) {
	if viewerID.IsZero() {
		return false, nil
	}
	following, err := s.userRepo.IsFollowing(ctx, viewerID, targetID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "follow check failed", err)
	}
	return following, nil
}

// SaveStatus 返回观察者是否收藏了帖子
func (s *ToggleService) SaveStatus(ctx context.Context, viewerID, postID primitive.ObjectID) (bool, error) {
	if viewerID.IsZero() {
		return false, nil
	}
	saved, err := s.userRepo.IsPostSaved(ctx, viewerID, postID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "save check failed", err)
	}
	return saved, nil
}

// ToggleServiceInterface 供处理器层与测试使用
type ToggleServiceInterface interface {
	TogglePostLike(ctx context.Context, postID, viewerID primitive.ObjectID) (string, error)
	ToggleCommentLike(ctx context.Context, commentID, viewerID primitive.ObjectID) (string, error)
	ToggleReplyLike(ctx context.Context, replyID, viewerID primitive.ObjectID) (string, error)
	ToggleFollow(ctx context.Context, viewerID, targetID primitive.ObjectID) (string, error)
	ToggleSave(ctx context.Context, viewerID, postID primitive.ObjectID) (string, error)
	PostLikeStatus(ctx context.Context, postID, viewerID primitive.ObjectID) (bool, error)
	CommentLikeStatus(ctx context.Context, commentID, viewerID primitive.ObjectID) (bool, error)
	ReplyLikeStatus(ctx context.Context, replyID, viewerID primitive.ObjectID) (bool, error)
	FollowStatus(ctx context.Context, viewerID, targetID primitive.ObjectID) (bool, error)
	SaveStatus(ctx context.Context, viewerID, postID primitive.ObjectID) (bool, error)
}

// 确保 ToggleService 实现了 ToggleServiceInterface
var _ ToggleServiceInterface = (*ToggleService)(nil)
