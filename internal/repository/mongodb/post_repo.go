package mongodb

import (
	"context"
	"instagram-clone-backend/internal/model"
	"instagram-clone-backend/internal/repository/interfaces"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type postRepository struct {
	db       *mongo.Database
	posts    *mongo.Collection
	comments *mongo.Collection
	replies  *mongo.Collection
}

// NewPostRepository 创建基于 MongoDB 的帖子存储库
func NewPostRepository(db *mongo.Database) interfaces.PostRepository {
	return &postRepository{
		db:       db,
		posts:    db.Collection(postsCollection),
		comments: db.Collection(commentsCollection),
		replies:  db.Collection(repliesCollection),
	}
}

func (r *postRepository) CreatePost(ctx context.Context, post *model.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if post.LikeUsers == nil {
		post.LikeUsers = []primitive.ObjectID{}
	}
	if post.Hashtags == nil {
		post.Hashtags = []string{}
	}
	_, err := r.posts.InsertOne(ctx, post)
	return err
}

func (r *postRepository) FindPostByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) UpdatePost(ctx context.Context, post *model.Post) error {
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": post.ID}, bson.M{"$set": bson.M{
		"contents":         post.Contents,
		"hashtags":         post.Hashtags,
		"commentIsAllowed": post.CommentIsAllowed,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeletePost 在一个事务中删除帖子及其全部评论和回复，
// 回复通过冗余的 postId 直接过滤
func (r *postRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.posts.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, mongo.ErrNoDocuments
		}
		if _, err := r.comments.DeleteMany(sc, bson.M{"postId": id}); err != nil {
			return nil, err
		}
		if _, err := r.replies.DeleteMany(sc, bson.M{"postId": id}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (r *postRepository) ListAllPosts(ctx context.Context) ([]*model.Post, error) {
	// 创建时间倒序，同一时间按ID倒序保证稳定排序
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*model.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) CountPostsByWriter(ctx context.Context, writerID primitive.ObjectID) (int, error) {
	count, err := r.posts.CountDocuments(ctx, bson.M{"writer": writerID})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *postRepository) thumbs(ctx context.Context, match bson.M) ([]model.PostThumb, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         commentsCollection,
			"localField":   "_id",
			"foreignField": "postId",
			"as":           "comments",
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"imageUrl":     1,
			"likeCount":    bson.M{"$size": bson.M{"$ifNull": bson.A{"$likeUsers", bson.A{}}}},
			"commentCount": bson.M{"$size": "$comments"},
		}}},
	}
	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var thumbs []model.PostThumb
	if err := cursor.All(ctx, &thumbs); err != nil {
		return nil, err
	}
	return thumbs, nil
}

func (r *postRepository) PostThumbsByWriter(ctx context.Context, writerID primitive.ObjectID) ([]model.PostThumb, error) {
	return r.thumbs(ctx, bson.M{"writer": writerID})
}

// PostThumbsByIDs 按调用方给定的顺序返回，$in 不保证顺序，查询后重排
func (r *postRepository) PostThumbsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.PostThumb, error) {
	if len(ids) == 0 {
		return []model.PostThumb{}, nil
	}
	thumbs, err := r.thumbs(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]model.PostThumb, len(thumbs))
	for _, t := range thumbs {
		byID[t.ID] = t
	}
	ordered := make([]model.PostThumb, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

func (r *postRepository) TogglePostLike(ctx context.Context, postID, viewerID primitive.ObjectID) (bool, error) {
	return toggleMembership(ctx, r.posts, postID, "likeUsers", viewerID)
}

func (r *postRepository) IsPostLiked(ctx context.Context, postID, viewerID primitive.ObjectID) (bool, error) {
	return isMember(ctx, r.posts, postID, "likeUsers", viewerID)
}

func (r *postRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	if comment.Like == nil {
		comment.Like = []primitive.ObjectID{}
	}
	_, err := r.comments.InsertOne(ctx, comment)
	return err
}

func (r *postRepository) FindCommentByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	var comment model.Comment
	err := r.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *postRepository) ListCommentsByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) ([]*model.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.comments.Find(ctx, bson.M{"postId": bson.M{"$in": postIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []*model.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment 在一个事务中删除评论及其回复
func (r *postRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.comments.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, mongo.ErrNoDocuments
		}
		if _, err := r.replies.DeleteMany(sc, bson.M{"parentsId": id}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (r *postRepository) ToggleCommentLike(ctx context.Context, commentID, viewerID primitive.ObjectID) (bool, error) {
	return toggleMembership(ctx, r.comments, commentID, "like", viewerID)
}

func (r *postRepository) IsCommentLiked(ctx context.Context, commentID, viewerID primitive.ObjectID) (bool, error) {
	return isMember(ctx, r.comments, commentID, "like", viewerID)
}

func (r *postRepository) CreateReply(ctx context.Context, reply *model.Reply) error {
	if reply.ID.IsZero() {
		reply.ID = primitive.NewObjectID()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now()
	}
	if reply.Like == nil {
		reply.Like = []primitive.ObjectID{}
	}
	_, err := r.replies.InsertOne(ctx, reply)
	return err
}

func (r *postRepository) FindReplyByID(ctx context.Context, id primitive.ObjectID) (*model.Reply, error) {
	var reply model.Reply
	err := r.replies.FindOne(ctx, bson.M{"_id": id}).Decode(&reply)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *postRepository) ListRepliesByCommentIDs(ctx context.Context, commentIDs []primitive.ObjectID) ([]*model.Reply, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.replies.Find(ctx, bson.M{"parentsId": bson.M{"$in": commentIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var replies []*model.Reply
	if err := cursor.All(ctx, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

func (r *postRepository) DeleteReply(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.replies.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *postRepository) ToggleReplyLike(ctx context.Context, replyID, viewerID primitive.ObjectID) (bool, error) {
	return toggleMembership(ctx, r.replies, replyID, "like", viewerID)
}

func (r *postRepository) IsReplyLiked(ctx context.Context, replyID, viewerID primitive.ObjectID) (bool, error) {
	return isMember(ctx, r.replies, replyID, "like", viewerID)
}

var _ interfaces.PostRepository = (*postRepository)(nil)
