package service

import (
	"context"
	"instagram-clone-backend/internal/errors"
	"instagram-clone-backend/internal/model"
	"instagram-clone-backend/internal/repository/interfaces"
	"instagram-clone-backend/internal/storage"
	"instagram-clone-backend/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PostService 处理帖子、评论和回复的业务逻辑
type PostService struct {
	postRepo interfaces.PostRepository
	storage  storage.Uploader
}

func NewPostService(postRepo interfaces.PostRepository, uploader storage.Uploader) *PostService {
	return &PostService{
		postRepo: postRepo,
		storage:  uploader,
	}
}

func (s *PostService) CreatePost(ctx context.Context, post *model.Post) error {
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return errors.Wrap(errors.ErrDatabase, "create post failed", err)
	}
	return nil
}

func (s *PostService) GetPostByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	post, err := s.postRepo.FindPostByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "find post failed", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "post not found")
	}
	return post, nil
}

// UpdatePost 只允许作者修改内容、话题标签和评论开关
func (s *PostService) UpdatePost(ctx context.Context, postID, writerID primitive.ObjectID, contents string, hashtags []string, commentIsAllowed bool) error {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.Writer != writerID {
		return errors.New(errors.ErrForbidden, "only the writer can edit this post")
	}

	post.Contents = contents
	post.Hashtags = hashtags
	post.CommentIsAllowed = commentIsAllowed
	if err := s.postRepo.UpdatePost(ctx, post); err != nil {
		return errors.Wrap(errors.ErrDatabase, "update post failed", err)
	}
	return nil
}

// DeletePost 级联删除帖子的评论和回复，并释放帖子图片
func (s *PostService) DeletePost(ctx context.Context, postID, writerID primitive.ObjectID) error {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.Writer != writerID {
		return errors.New(errors.ErrForbidden, "only the writer can delete this post")
	}

	if err := s.postRepo.DeletePost(ctx, postID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "delete post failed", err)
	}

	// 数据库已提交，媒体释放失败只记录日志
	if post.ImageName != "" {
		if err := s.storage.DeleteFile(post.ImageName); err != nil {
			util.Logger.Error("释放帖子图片失败",
				zap.Error(err),
				zap.String("post_id", postID.Hex()),
				zap.String("image", post.ImageName))
		}
	}
	return nil
}

// CreateComment 受帖子的 commentIsAllowed 开关限制
func (s *PostService) CreateComment(ctx context.Context, comment *model.Comment) error {
	post, err := s.GetPostByID(ctx, comment.PostID)
	if err != nil {
		return err
	}
	if !post.CommentIsAllowed {
		return errors.New(errors.ErrCommentNotAllowed, "comments are disabled for this post")
	}
	if err := s.postRepo.CreateComment(ctx, comment); err != nil {
		return errors.Wrap(errors.ErrDatabase, "create comment failed", err)
	}
	return nil
}

func (s *PostService) DeleteComment(ctx context.Context, commentID, writerID primitive.ObjectID) error {
	comment, err := s.postRepo.FindCommentByID(ctx, commentID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "find comment failed", err)
	}
	if comment == nil {
		return errors.New(errors.ErrCommentNotFound, "comment not found")
	}
	if comment.Writer != writerID {
		return errors.New(errors.ErrForbidden, "only the writer can delete this comment")
	}
	if err := s.postRepo.DeleteComment(ctx, commentID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "delete comment failed", err)
	}
	return nil
}

// CreateReply 要求父评论存在，postId 冗余自父评论
func (s *PostService) CreateReply(ctx context.Context, reply *model.Reply) error {
	comment, err := s.postRepo.FindCommentByID(ctx, reply.ParentID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "find comment failed", err)
	}
	if comment == nil {
		return errors.New(errors.ErrCommentNotFound, "comment not found")
	}

	reply.PostID = comment.PostID
	if err := s.postRepo.CreateReply(ctx, reply); err != nil {
		return errors.Wrap(errors.ErrDatabase, "create reply failed", err)
	}
	return nil
}

func (s *PostService) DeleteReply(ctx context.Context, replyID, writerID primitive.ObjectID) error {
	reply, err := s.postRepo.FindReplyByID(ctx, replyID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "find reply failed", err)
	}
	if reply == nil {
		return errors.New(errors.ErrCommentNotFound, "reply not found")
	}
	if reply.Writer != writerID {
		return errors.New(errors.ErrForbidden, "only the writer can delete this reply")
	}
	if err := s.postRepo.DeleteReply(ctx, replyID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "delete reply failed", err)
	}
	return nil
}

// PostServiceInterface 供处理器层与测试使用
type PostServiceInterface interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	UpdatePost(ctx context.Context, postID, writerID primitive.ObjectID, contents string, hashtags []string, commentIsAllowed bool) error
	DeletePost(ctx context.Context, postID, writerID primitive.ObjectID) error
	CreateComment(ctx context.Context, comment *model.Comment) error
	DeleteComment(ctx context.Context, commentID, writerID primitive.ObjectID) error
	CreateReply(ctx context.Context, reply *model.Reply) error
	DeleteReply(ctx context.Context, replyID, writerID primitive.ObjectID) error
}

// 确保 PostService 实现了 PostServiceInterface
var _ PostServiceInterface = (*PostService)(nil)
