package service

import (
	"context"
	"testing"
	"time"

	"instagram-clone-backend/internal/errors"
	"instagram-clone-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestFeedList 测试信息流组装：计数来自集合基数，标记相对于观察者
func TestFeedList(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockPostRepo := new(MockPostRepository)
	service := NewFeedService(mockUserRepo, mockPostRepo)

	ctx := context.Background()
	viewerID := primitive.NewObjectID()
	writerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	now := time.Now()
	post1 := &model.Post{
		ID:        primitive.NewObjectID(),
		Writer:    writerID,
		Contents:  "second post",
		LikeUsers: []primitive.ObjectID{viewerID, otherID},
		CreatedAt: now,
	}
	post2 := &model.Post{
		ID:        primitive.NewObjectID(),
		Writer:    writerID,
		Contents:  "first post",
		LikeUsers: []primitive.ObjectID{otherID},
		CreatedAt: now.Add(-time.Hour),
	}

	comments := []*model.Comment{
		{ID: primitive.NewObjectID(), PostID: post1.ID, Writer: otherID, Contents: "nice"},
		{ID: primitive.NewObjectID(), PostID: post1.ID, Writer: writerID, Contents: "thanks"},
	}

	summaries := map[primitive.ObjectID]model.UserSummary{
		writerID: {ID: writerID, Handle: "writer"},
		otherID:  {ID: otherID, Handle: "other"},
	}

	mockPostRepo.On("ListAllPosts", ctx).Return([]*model.Post{post1, post2}, nil)
	mockPostRepo.On("ListCommentsByPostIDs", ctx, []primitive.ObjectID{post1.ID, post2.ID}).Return(comments, nil)
	mockUserRepo.On("FindSummariesByIDs", ctx, mock.AnythingOfType("[]primitive.ObjectID")).Return(summaries, nil)

	views, err := service.FeedList(ctx, viewerID)
	assert.NoError(t, err)
	assert.Len(t, views, 2)

	// 存储层给定的倒序被保留
	assert.Equal(t, post1.ID, views[0].ID)
	assert.Equal(t, post2.ID, views[1].ID)

	// 计数为集合基数派生
	assert.Equal(t, 2, views[0].LikeCount)
	assert.Equal(t, 2, views[0].CommentCount)
	assert.Equal(t, 1, views[1].LikeCount)
	assert.Equal(t, 0, views[1].CommentCount)

	// 点赞标记相对于观察者
	assert.True(t, views[0].IsLike)
	assert.False(t, views[1].IsLike)

	// 作者摘要被贴合
	assert.Equal(t, "writer", views[0].Writer.Handle)

	mockUserRepo.AssertExpectations(t)
	mockPostRepo.AssertExpectations(t)
}

// TestFeedListAnonymous 测试匿名观察者的标记恒为 false
func TestFeedListAnonymous(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockPostRepo := new(MockPostRepository)
	service := NewFeedService(mockUserRepo, mockPostRepo)

	ctx := context.Background()
	writerID := primitive.NewObjectID()
	post := &model.Post{
		ID:        primitive.NewObjectID(),
		Writer:    writerID,
		LikeUsers: []primitive.ObjectID{primitive.NewObjectID()},
	}

	mockPostRepo.On("ListAllPosts", ctx).Return([]*model.Post{post}, nil)
	mockPostRepo.On("ListCommentsByPostIDs", ctx, []primitive.ObjectID{post.ID}).Return([]*model.Comment{}, nil)
	mockUserRepo.On("FindSummariesByIDs", ctx, mock.AnythingOfType("[]primitive.ObjectID")).
		Return(map[primitive.ObjectID]model.UserSummary{writerID: {ID: writerID}}, nil)

	views, err := service.FeedList(ctx, primitive.NilObjectID)
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.False(t, views[0].IsLike)
	assert.Equal(t, 1, views[0].LikeCount)
}

// TestPostDetail 测试帖子详情：评论携带嵌套回复
func TestPostDetail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockPostRepo := new(MockPostRepository)
	service := NewFeedService(mockUserRepo, mockPostRepo)

	ctx := context.Background()
	viewerID := primitive.NewObjectID()
	writerID := primitive.NewObjectID()

	post := &model.Post{ID: primitive.NewObjectID(), Writer: writerID}
	comment := &model.Comment{
		ID:     primitive.NewObjectID(),
		PostID: post.ID,
		Writer: writerID,
		Like:   []primitive.ObjectID{viewerID},
	}
	reply := &model.Reply{
		ID:       primitive.NewObjectID(),
		ParentID: comment.ID,
		PostID:   post.ID,
		Writer:   viewerID,
		Like:     []primitive.ObjectID{writerID},
	}

	summaries := map[primitive.ObjectID]model.UserSummary{
		writerID: {ID: writerID, Handle: "writer"},
		viewerID: {ID: viewerID, Handle: "viewer"},
	}

	mockPostRepo.On("FindPostByID", ctx, post.ID).Return(post, nil)
	mockPostRepo.On("ListCommentsByPostIDs", ctx, []primitive.ObjectID{post.ID}).Return([]*model.Comment{comment}, nil)
	mockPostRepo.On("ListRepliesByCommentIDs", ctx, []primitive.ObjectID{comment.ID}).Return([]*model.Reply{reply}, nil)
	mockUserRepo.On("FindSummariesByIDs", ctx, mock.AnythingOfType("[]primitive.ObjectID")).Return(summaries, nil)

	view, err := service.PostDetail(ctx, post.ID, viewerID)
	assert.NoError(t, err)
	assert.Equal(t, post.ID, view.ID)
	assert.Len(t, view.Comments, 1)

	cv := view.Comments[0]
	assert.Equal(t, 1, cv.LikeCount)
	assert.True(t, cv.IsLike)
	assert.Len(t, cv.Replies, 1)

	rv := cv.Replies[0]
	assert.Equal(t, reply.ID, rv.ID)
	assert.Equal(t, "viewer", rv.Writer.Handle)
	assert.Equal(t, 1, rv.LikeCount)
	assert.False(t, rv.IsLike)

	mockUserRepo.AssertExpectations(t)
	mockPostRepo.AssertExpectations(t)
}

// TestPostDetailNotFound 测试帖子不存在时返回 NotFound 而不是空视图
func TestPostDetailNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockPostRepo := new(MockPostRepository)
	service := NewFeedService(mockUserRepo, mockPostRepo)

	ctx := context.Background()
	postID := primitive.NewObjectID()

	mockPostRepo.On("FindPostByID", ctx, postID).Return(nil, nil)

	view, err := service.PostDetail(ctx, postID, primitive.NilObjectID)
	assert.Nil(t, view)
	assert.Equal(t, errors.ErrPostNotFound, errors.CodeOf(err))
	mockPostRepo.AssertExpectations(t)
}

// TestProfile 测试个人主页组装：派生计数、关注标记和收藏顺序
func TestProfile(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockPostRepo := new(MockPostRepository)
	service := NewFeedService(mockUserRepo, mockPostRepo)

	ctx := context.Background()
	viewerID := primitive.NewObjectID()
	user := &model.User{
		ID:     primitive.NewObjectID(),
		Handle: "someone",
		Name:   "Someone",
	}

	savedIDs := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	savedThumbs := []model.PostThumb{{ID: savedIDs[0]}, {ID: savedIDs[1]}}
	gridThumbs := []model.PostThumb{{ID: primitive.NewObjectID()}}

	mockUserRepo.On("FindByHandle", ctx, "someone").Return(user, nil)
	mockPostRepo.On("CountPostsByWriter", ctx, user.ID).Return(1, nil)
	mockUserRepo.On("FollowCounts", ctx, user.ID).Return(3, 7, nil)
	mockUserRepo.On("IsFollowing", ctx, viewerID, user.ID).Return(true, nil)
	mockPostRepo.On("PostThumbsByWriter", ctx, user.ID).Return(gridThumbs, nil)
	mockUserRepo.On("SavedPostIDs", ctx, user.ID).Return(savedIDs, nil)
	mockPostRepo.On("PostThumbsByIDs", ctx, savedIDs).Return(savedThumbs, nil)

	profile, err := service.Profile(ctx, "someone", viewerID)
	assert.NoError(t, err)
	assert.Equal(t, "someone", profile.Handle)
	assert.Equal(t, 1, profile.TotalPost)
	assert.Equal(t, 3, profile.TotalFollow)
	assert.Equal(t, 7, profile.TotalFollower)
	assert.True(t, profile.IsFollow)

	// 收藏列表保持收藏顺序
	assert.Equal(t, savedIDs[0], profile.SavedPosts[0].ID)
	assert.Equal(t, savedIDs[1], profile.SavedPosts[1].ID)

	mockUserRepo.AssertExpectations(t)
	mockPostRepo.AssertExpectations(t)
}

// TestProfileAnonymous 测试匿名观察者跳过关注检查
func TestProfileAnonymous(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockPostRepo := new(MockPostRepository)
	service := NewFeedService(mockUserRepo, mockPostRepo)

	ctx := context.Background()
	user := &model.User{ID: primitive.NewObjectID(), Handle: "someone"}

	mockUserRepo.On("FindByHandle", ctx, "someone").Return(user, nil)
	mockPostRepo.On("CountPostsByWriter", ctx, user.ID).Return(0, nil)
	mockUserRepo.On("FollowCounts", ctx, user.ID).Return(0, 0, nil)
	mockPostRepo.On("PostThumbsByWriter", ctx, user.ID).Return([]model.PostThumb{}, nil)
	mockUserRepo.On("SavedPostIDs", ctx, user.ID).Return([]primitive.ObjectID{}, nil)
	mockPostRepo.On("PostThumbsByIDs", ctx, []primitive.ObjectID{}).Return([]model.PostThumb{}, nil)

	profile, err := service.Profile(ctx, "someone", primitive.NilObjectID)
	assert.NoError(t, err)
	assert.False(t, profile.IsFollow)
	mockUserRepo.AssertNotCalled(t, "IsFollowing", mock.Anything, mock.Anything, mock.Anything)
}

// TestProfileNotFound 测试handle不存在的主页
func TestProfileNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockPostRepo := new(MockPostRepository)
	service := NewFeedService(mockUserRepo, mockPostRepo)

	ctx := context.Background()
	mockUserRepo.On("FindByHandle", ctx, "ghost").Return(nil, nil)

	profile, err := service.Profile(ctx, "ghost", primitive.NilObjectID)
	assert.Nil(t, profile)
	assert.Equal(t, errors.ErrUserNotFound, errors.CodeOf(err))
	mockUserRepo.AssertExpectations(t)
}
