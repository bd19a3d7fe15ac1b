package service

import (
	"context"
	stderrors "errors"
	"testing"

	"instagram-clone-backend/internal/errors"
	"instagram-clone-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestCreatePost 测试创建帖子
func TestCreatePost(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUploader := new(MockUploader)
	service := NewPostService(mockPostRepo, mockUploader)

	ctx := context.Background()
	post := &model.Post{
		Writer:           primitive.NewObjectID(),
		Contents:         "hello world",
		CommentIsAllowed: true,
	}

	mockPostRepo.On("CreatePost", ctx, post).Return(nil)

	err := service.CreatePost(ctx, post)
	assert.NoError(t, err)
	mockPostRepo.AssertExpectations(t)
}

// TestUpdatePostNotWriter 测试非作者不能修改帖子
func TestUpdatePostNotWriter(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUploader := new(MockUploader)
	service := NewPostService(mockPostRepo, mockUploader)

	ctx := context.Background()
	post := &model.Post{
		ID:     primitive.NewObjectID(),
		Writer: primitive.NewObjectID(),
	}

	mockPostRepo.On("FindPostByID", ctx, post.ID).Return(post, nil)

	err := service.UpdatePost(ctx, post.ID, primitive.NewObjectID(), "changed", nil, true)
	assert.Equal(t, errors.ErrForbidden, errors.CodeOf(err))
	mockPostRepo.AssertNotCalled(t, "UpdatePost", mock.Anything, mock.Anything)
}

// TestDeletePost 测试删除帖子后释放图片
func TestDeletePost(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUploader := new(MockUploader)
	service := NewPostService(mockPostRepo, mockUploader)

	ctx := context.Background()
	writerID := primitive.NewObjectID()
	post := &model.Post{
		ID:        primitive.NewObjectID(),
		Writer:    writerID,
		ImageName: "posts/abc.jpg",
	}

	mockPostRepo.On("FindPostByID", ctx, post.ID).Return(post, nil)
	mockPostRepo.On("DeletePost", ctx, post.ID).Return(nil)
	mockUploader.On("DeleteFile", "posts/abc.jpg").Return(nil)

	err := service.DeletePost(ctx, post.ID, writerID)
	assert.NoError(t, err)
	mockPostRepo.AssertExpectations(t)
	mockUploader.AssertExpectations(t)
}

// TestDeletePostStorageFailure 测试数据库删除成功后图片释放失败不报错
func TestDeletePostStorageFailure(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUploader := new(MockUploader)
	service := NewPostService(mockPostRepo, mockUploader)

	ctx := context.Background()
	writerID := primitive.NewObjectID()
	post := &model.Post{
		ID:        primitive.NewObjectID(),
		Writer:    writerID,
		ImageName: "posts/abc.jpg",
	}

	mockPostRepo.On("FindPostByID", ctx, post.ID).Return(post, nil)
	mockPostRepo.On("DeletePost", ctx, post.ID).Return(nil)
	mockUploader.On("DeleteFile", "posts/abc.jpg").Return(stderrors.New("storage unavailable"))

	err := service.DeletePost(ctx, post.ID, writerID)
	assert.NoError(t, err)
	mockUploader.AssertExpectations(t)
}

// TestDeletePostNotFound 测试删除不存在的帖子
func TestDeletePostNotFound(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUploader := new(MockUploader)
	service := NewPostService(mockPostRepo, mockUploader)

	ctx := context.Background()
	postID := primitive.NewObjectID()

	mockPostRepo.On("FindPostByID", ctx, postID).Return(nil, nil)

	err := service.DeletePost(ctx, postID, primitive.NewObjectID())
	assert.Equal(t, errors.ErrPostNotFound, errors.CodeOf(err))
}

// TestCreateComment 测试发表评论
func TestCreateComment(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUploader := new(MockUploader)
	service := NewPostService(mockPostRepo, mockUploader)

	ctx := context.Background()
	post := &model.Post{
		ID:               primitive.NewObjectID(),
		CommentIsAllowed: true,
	}
	comment := &model.Comment{
		PostID:   post.ID,
		Writer:   primitive.NewObjectID(),
		Contents: "nice",
	}

	mockPostRepo.On("FindPostByID", ctx, post.ID).Return(post, nil)
	mockPostRepo.On("CreateComment", ctx, comment).Return(nil)

	err := service.CreateComment(ctx, comment)
	assert.NoError(t, err)
	mockPostRepo.AssertExpectations(t)
}

// TestCreateCommentDisabled 测试评论开关关闭时拒绝评论
func TestCreateCommentDisabled(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUploader := new(MockUploader)
	service := NewPostService(mockPostRepo, mockUploader)

	ctx := context.Background()
	post := &model.Post{
		ID:               primitive.NewObjectID(),
		CommentIsAllowed: false,
	}
	comment := &model.Comment{
		PostID: post.ID,
		Writer: primitive.NewObjectID(),
	}

	mockPostRepo.On("FindPostByID", ctx, post.ID).Return(post, nil)

	err := service.CreateComment(ctx, comment)
	assert.Equal(t, errors.ErrCommentNotAllowed, errors.CodeOf(err))
	mockPostRepo.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
}

// TestCreateReply 测试回复评论时 postId 冗余自父评论
func TestCreateReply(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUploader := new(MockUploader)
	service := NewPostService(mockPostRepo, mockUploader)

	ctx := context.Background()
	comment := &model.Comment{
		ID:     primitive.NewObjectID(),
		PostID: primitive.NewObjectID(),
	}
	reply := &model.Reply{
		ParentID: comment.ID,
		Writer:   primitive.NewObjectID(),
		Contents: "me too",
	}

	mockPostRepo.On("FindCommentByID", ctx, comment.ID).Return(comment, nil)
	mockPostRepo.On("CreateReply", ctx, reply).Return(nil)

	err := service.CreateReply(ctx, reply)
	assert.NoError(t, err)
	assert.Equal(t, comment.PostID, reply.PostID)
	mockPostRepo.AssertExpectations(t)
}

// TestCreateReplyParentMissing 测试父评论不存在时不能回复
func TestCreateReplyParentMissing(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUploader := new(MockUploader)
	service := NewPostService(mockPostRepo, mockUploader)

	ctx := context.Background()
	reply := &model.Reply{
		ParentID: primitive.NewObjectID(),
		Writer:   primitive.NewObjectID(),
	}

	mockPostRepo.On("FindCommentByID", ctx, reply.ParentID).Return(nil, nil)

	err := service.CreateReply(ctx, reply)
	assert.Equal(t, errors.ErrCommentNotFound, errors.CodeOf(err))
	mockPostRepo.AssertNotCalled(t, "CreateReply", mock.Anything, mock.Anything)
}

// TestDeleteCommentNotWriter 测试非作者不能删除评论
func TestDeleteCommentNotWriter(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUploader := new(MockUploader)
	service := NewPostService(mockPostRepo, mockUploader)

	ctx := context.Background()
	comment := &model.Comment{
		ID:     primitive.NewObjectID(),
		Writer: primitive.NewObjectID(),
	}

	mockPostRepo.On("FindCommentByID", ctx, comment.ID).Return(comment, nil)

	err := service.DeleteComment(ctx, comment.ID, primitive.NewObjectID())
	assert.Equal(t, errors.ErrForbidden, errors.CodeOf(err))
	mockPostRepo.AssertNotCalled(t, "DeleteComment", mock.Anything, mock.Anything)
}

// TestDeleteReply 测试作者删除回复
func TestDeleteReply(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUploader := new(MockUploader)
	service := NewPostService(mockPostRepo, mockUploader)

	ctx := context.Background()
	writerID := primitive.NewObjectID()
	reply := &model.Reply{
		ID:     primitive.NewObjectID(),
		Writer: writerID,
	}

	mockPostRepo.On("FindReplyByID", ctx, reply.ID).Return(reply, nil)
	mockPostRepo.On("DeleteReply", ctx, reply.ID).Return(nil)

	err := service.DeleteReply(ctx, reply.ID, writerID)
	assert.NoError(t, err)
	mockPostRepo.AssertExpectations(t)
}
