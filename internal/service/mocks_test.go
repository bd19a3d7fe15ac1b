package service

import (
	"context"
	"mime/multipart"
	"os"
	"testing"

	"instagram-clone-backend/internal/model"
	"instagram-clone-backend/internal/repository/interfaces"
	"instagram-clone-backend/internal/storage"
	"instagram-clone-backend/internal/util"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	util.Logger = zap.NewNop()
	os.Exit(m.Run())
}

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByHandle(ctx context.Context, handle string) (*model.User, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindSummariesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.UserSummary, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]model.UserSummary), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfileImage(ctx context.Context, id primitive.ObjectID, imageURL, imageName string) error {
	args := m.Called(ctx, id, imageURL, imageName)
	return args.Error(0)
}

func (m *MockUserRepository) IsEmailTaken(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) IsHandleTaken(ctx context.Context, handle string, excludeID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, handle, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ToggleFollow(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, followerID, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) IsFollowing(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, followerID, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FollowCounts(ctx context.Context, id primitive.ObjectID) (int, int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) ToggleSave(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) IsPostSaved(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) SavedPostIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

// 确保 MockUserRepository 实现了 UserRepository
var _ interfaces.UserRepository = (*MockUserRepository)(nil)

// MockPostRepository 是 PostRepository 接口的模拟实现
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreatePost(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) FindPostByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) UpdatePost(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) ListAllPosts(ctx context.Context) ([]*model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostRepository) CountPostsByWriter(ctx context.Context, writerID primitive.ObjectID) (int, error) {
	args := m.Called(ctx, writerID)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) PostThumbsByWriter(ctx context.Context, writerID primitive.ObjectID) ([]model.PostThumb, error) {
	args := m.Called(ctx, writerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PostThumb), args.Error(1)
}

func (m *MockPostRepository) PostThumbsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.PostThumb, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PostThumb), args.Error(1)
}

func (m *MockPostRepository) TogglePostLike(ctx context.Context, postID, viewerID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, postID, viewerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) IsPostLiked(ctx context.Context, postID, viewerID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, postID, viewerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockPostRepository) FindCommentByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockPostRepository) ListCommentsByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) ([]*model.Comment, error) {
	args := m.Called(ctx, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockPostRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) ToggleCommentLike(ctx context.Context, commentID, viewerID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, commentID, viewerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) IsCommentLiked(ctx context.Context, commentID, viewerID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, commentID, viewerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) CreateReply(ctx context.Context, reply *model.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *MockPostRepository) FindReplyByID(ctx context.Context, id primitive.ObjectID) (*model.Reply, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reply), args.Error(1)
}

func (m *MockPostRepository) ListRepliesByCommentIDs(ctx context.Context, commentIDs []primitive.ObjectID) ([]*model.Reply, error) {
	args := m.Called(ctx, commentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Reply), args.Error(1)
}

func (m *MockPostRepository) DeleteReply(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) ToggleReplyLike(ctx context.Context, replyID, viewerID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, replyID, viewerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) IsReplyLiked(ctx context.Context, replyID, viewerID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, replyID, viewerID)
	return args.Bool(0), args.Error(1)
}

// 确保 MockPostRepository 实现了 PostRepository
var _ interfaces.PostRepository = (*MockPostRepository)(nil)

// MockUploader 是 Uploader 接口的模拟实现
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadFile(file *multipart.FileHeader, objectName string) (string, error) {
	args := m.Called(file, objectName)
	return args.String(0), args.Error(1)
}

func (m *MockUploader) DeleteFile(objectName string) error {
	args := m.Called(objectName)
	return args.Error(0)
}

var _ storage.Uploader = (*MockUploader)(nil)
