package feed

import (
	"instagram-clone-backend/internal/errors"
	"instagram-clone-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedHandler 处理信息流和主页相关的读取请求
type FeedHandler struct {
	feedService service.FeedServiceInterface
}

func NewFeedHandler(feedService service.FeedServiceInterface) *FeedHandler {
	return &FeedHandler{feedService}
}

// optionalViewerID 取出可选的已认证用户ID，未登录时返回零值
func optionalViewerID(c *gin.Context) primitive.ObjectID {
	raw, exists := c.Get("user_id")
	if !exists {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(raw.(string))
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

// GetFeed 返回按时间倒序的帖子列表
func (h *FeedHandler) GetFeed(c *gin.Context) {
	viewer := optionalViewerID(c)

	posts, err := h.feedService.FeedList(c.Request.Context(), viewer)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"posts": posts}, "获取信息流成功")
}

// GetPostDetail 返回单个帖子的详情，包含评论和回复
func (h *FeedHandler) GetPostDetail(c *gin.Context) {
	viewer := optionalViewerID(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "无效的帖子ID", err))
		return
	}

	post, err := h.feedService.PostDetail(c.Request.Context(), postID, viewer)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"post": post}, "获取帖子详情成功")
}

// GetProfile 返回指定handle的用户主页
func (h *FeedHandler) GetProfile(c *gin.Context) {
	viewer := optionalViewerID(c)

	profile, err := h.feedService.Profile(c.Request.Context(), c.Param("handle"), viewer)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"profile": profile}, "获取用户主页成功")
}
