package interfaces

import (
	"context"
	"instagram-clone-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostRepository 定义帖子、评论和回复的数据访问接口
type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	FindPostByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	// UpdatePost 只更新内容、话题标签和评论开关
	UpdatePost(ctx context.Context, post *model.Post) error
	// DeletePost 在一个事务中级联删除帖子、其评论及评论的回复
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	// ListAllPosts 按创建时间倒序（同时间按ID倒序）返回全部帖子
	ListAllPosts(ctx context.Context) ([]*model.Post, error)
	CountPostsByWriter(ctx context.Context, writerID primitive.ObjectID) (int, error)
	// PostThumbsByWriter 返回作者帖子的缩略投影，计数由集合基数派生
	PostThumbsByWriter(ctx context.Context, writerID primitive.ObjectID) ([]model.PostThumb, error)
	// PostThumbsByIDs 保持调用方给定的顺序返回
	PostThumbsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.PostThumb, error)

	TogglePostLike(ctx context.Context, postID, viewerID primitive.ObjectID) (added bool, err error)
	IsPostLiked(ctx context.Context, postID, viewerID primitive.ObjectID) (bool, error)

	CreateComment(ctx context.Context, comment *model.Comment) error
	FindCommentByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	ListCommentsByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) ([]*model.Comment, error)
	// DeleteComment 级联删除该评论的回复
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	ToggleCommentLike(ctx context.Context, commentID, viewerID primitive.ObjectID) (added bool, err error)
	IsCommentLiked(ctx context.Context, commentID, viewerID primitive.ObjectID) (bool, error)

	CreateReply(ctx context.Context, reply *model.Reply) error
	FindReplyByID(ctx context.Context, id primitive.ObjectID) (*model.Reply, error)
	ListRepliesByCommentIDs(ctx context.Context, commentIDs []primitive.ObjectID) ([]*model.Reply, error)
	DeleteReply(ctx context.Context, id primitive.ObjectID) error
	ToggleReplyLike(ctx context.Context, replyID, viewerID primitive.ObjectID) (added bool, err error)
	IsReplyLiked(ctx context.Context, replyID, viewerID primitive.ObjectID) (bool, error)
}
