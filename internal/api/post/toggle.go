package post

import (
	"context"

	"instagram-clone-backend/internal/errors"
	"instagram-clone-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToggleHandler 处理点赞、收藏和关注的开关请求
type ToggleHandler struct {
	toggleService service.ToggleServiceInterface
}

func NewToggleHandler(toggleService service.ToggleServiceInterface) *ToggleHandler {
	return &ToggleHandler{toggleService}
}

// TogglePostLike 对帖子点赞或取消点赞
func (h *ToggleHandler) TogglePostLike(c *gin.Context) {
	viewer, ok := viewerID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	postID, err := pathID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	state, err := h.toggleService.TogglePostLike(c.Request.Context(), postID, viewer)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"state": state}, "操作成功")
}

// ToggleCommentLike 对评论点赞或取消点赞
func (h *ToggleHandler) ToggleCommentLike(c *gin.Context) {
	viewer, ok := viewerID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	commentID, err := pathID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	state, err := h.toggleService.ToggleCommentLike(c.Request.Context(), commentID, viewer)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"state": state}, "操作成功")
}

// ToggleReplyLike 对回复点赞或取消点赞
func (h *ToggleHandler) ToggleReplyLike(c *gin.Context) {
	viewer, ok := viewerID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	replyID, err := pathID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	state, err := h.toggleService.ToggleReplyLike(c.Request.Context(), replyID, viewer)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"state": state}, "操作成功")
}

// ToggleFollow 关注或取消关注用户
func (h *ToggleHandler) ToggleFollow(c *gin.Context) {
	viewer, ok := viewerID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	targetID, err := pathID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	state, err := h.toggleService.ToggleFollow(c.Request.Context(), viewer, targetID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"state": state}, "操作成功")
}

// optionalViewer 取出可选的观察者ID，未登录时为零值
func optionalViewer(c *gin.Context) primitive.ObjectID {
	id, ok := viewerID(c)
	if !ok {
		return primitive.NilObjectID
	}
	return id
}

// status 统一处理五种成员关系查询，匿名观察者恒为 false
func (h *ToggleHandler) status(c *gin.Context, check func(ctx context.Context, targetID, viewer primitive.ObjectID) (bool, error)) {
	targetID, err := pathID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	state, err := check(c.Request.Context(), targetID, optionalViewer(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"is_member": state}, "查询成功")
}

// PostLikeStatus 查询观察者是否点赞了帖子
func (h *ToggleHandler) PostLikeStatus(c *gin.Context) {
	h.status(c, h.toggleService.PostLikeStatus)
}

// CommentLikeStatus 查询观察者是否点赞了评论
func (h *ToggleHandler) CommentLikeStatus(c *gin.Context) {
	h.status(c, h.toggleService.CommentLikeStatus)
}

// ReplyLikeStatus 查询观察者是否点赞了回复
func (h *ToggleHandler) ReplyLikeStatus(c *gin.Context) {
	h.status(c, h.toggleService.ReplyLikeStatus)
}

// FollowStatus 查询观察者是否关注了目标用户
func (h *ToggleHandler) FollowStatus(c *gin.Context) {
	h.status(c, func(ctx context.Context, targetID, viewer primitive.ObjectID) (bool, error) {
		return h.toggleService.FollowStatus(ctx, viewer, targetID)
	})
}

// SaveStatus 查询观察者是否收藏了帖子
func (h *ToggleHandler) SaveStatus(c *gin.Context) {
	h.status(c, func(ctx context.Context, targetID, viewer primitive.ObjectID) (bool, error) {
		return h.toggleService.SaveStatus(ctx, viewer, targetID)
	})
}

// ToggleSave 收藏或取消收藏帖子
func (h *ToggleHandler) ToggleSave(c *gin.Context) {
	viewer, ok := viewerID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	postID, err := pathID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	state, err := h.toggleService.ToggleSave(c.Request.Context(), viewer, postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"state": state}, "操作成功")
}
