package post

import (
	"encoding/json"
	"path/filepath"

	"instagram-clone-backend/internal/errors"
	"instagram-clone-backend/internal/model"
	"instagram-clone-backend/internal/service"
	"instagram-clone-backend/internal/storage"
	"instagram-clone-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PostHandler 处理帖子、评论和回复相关的HTTP请求
type PostHandler struct {
	postService service.PostServiceInterface
	storage     storage.Uploader
}

func NewPostHandler(postService service.PostServiceInterface, uploader storage.Uploader) *PostHandler {
	return &PostHandler{postService: postService, storage: uploader}
}

// viewerID 从上下文中取出已认证的用户ID
func viewerID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw.(string))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// pathID 解析路径参数中的ObjectID
func pathID(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(errors.ErrBadRequest, "无效的ID格式", err)
	}
	return id, nil
}

// CreatePost 创建一篇新帖子，请求为 multipart 表单：image 文件 + data JSON
func (h *PostHandler) CreatePost(c *gin.Context) {
	writerID, ok := viewerID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	var postData struct {
		Contents         string   `json:"contents"`
		Hashtags         []string `json:"hashtags"`
		CommentIsAllowed *bool    `json:"comment_is_allowed"`
	}
	if err := json.Unmarshal([]byte(c.PostForm("data")), &postData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子数据", err))
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "缺少图片文件", err))
		return
	}

	filename := util.GenerateUniqueFilename(file.Filename)
	objectName := filepath.Join("posts", writerID.Hex(), filename)

	url, err := h.storage.UploadFile(file, objectName)
	if err != nil {
		util.Logger.Error("上传帖子图片失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrStorage, "上传图片失败", err))
		return
	}

	commentIsAllowed := true
	if postData.CommentIsAllowed != nil {
		commentIsAllowed = *postData.CommentIsAllowed
	}

	post := &model.Post{
		Writer:           writerID,
		Contents:         postData.Contents,
		Hashtags:         postData.Hashtags,
		ImageURL:         url,
		ImageName:        objectName,
		CommentIsAllowed: commentIsAllowed,
	}

	if err := h.postService.CreatePost(c.Request.Context(), post); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"post_id": post.ID.Hex()}, "发布帖子成功")
}

// UpdatePost 修改帖子内容，仅作者可操作
func (h *PostHandler) UpdatePost(c *gin.Context) {
	writerID, ok := viewerID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	postID, err := pathID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	var postData struct {
		Contents         string   `json:"contents"`
		Hashtags         []string `json:"hashtags"`
		CommentIsAllowed bool     `json:"comment_is_allowed"`
	}
	if err := c.ShouldBindJSON(&postData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	err = h.postService.UpdatePost(c.Request.Context(), postID, writerID,
		postData.Contents, postData.Hashtags, postData.CommentIsAllowed)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "修改帖子成功")
}

// DeletePost 删除帖子及其评论和回复
func (h *PostHandler) DeletePost(c *gin.Context) {
	writerID, ok := viewerID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	postID, err := pathID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), postID, writerID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "删除帖子成功")
}

// CreateComment 在帖子下发表评论
func (h *PostHandler) CreateComment(c *gin.Context) {
	writerID, ok := viewerID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	postID, err := pathID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	var commentData struct {
		Contents string `json:"contents" binding:"required"`
	}
	if err := c.ShouldBindJSON(&commentData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	comment := &model.Comment{
		PostID:   postID,
		Writer:   writerID,
		Contents: commentData.Contents,
	}

	if err := h.postService.CreateComment(c.Request.Context(), comment); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"comment_id": comment.ID.Hex()}, "发表评论成功")
}

// DeleteComment 删除评论及其回复
func (h *PostHandler) DeleteComment(c *gin.Context) {
	writerID, ok := viewerID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	commentID, err := pathID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if err := h.postService.DeleteComment(c.Request.Context(), commentID, writerID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "删除评论成功")
}

// CreateReply 回复某条评论
func (h *PostHandler) CreateReply(c *gin.Context) {
	writerID, ok := viewerID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	commentID, err := pathID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	var replyData struct {
		Contents string `json:"contents" binding:"required"`
	}
	if err := c.ShouldBindJSON(&replyData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	reply := &model.Reply{
		ParentID: commentID,
		Writer:   writerID,
		Contents: replyData.Contents,
	}

	if err := h.postService.CreateReply(c.Request.Context(), reply); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"reply_id": reply.ID.Hex()}, "发表回复成功")
}

// DeleteReply 删除回复
func (h *PostHandler) DeleteReply(c *gin.Context) {
	writerID, ok := viewerID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	replyID, err := pathID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if err := h.postService.DeleteReply(c.Request.Context(), replyID, writerID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "删除回复成功")
}
