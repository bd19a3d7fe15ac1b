package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Writer           primitive.ObjectID   `bson:"writer" json:"writer"`
	Contents         string               `bson:"contents" json:"contents"`
	Hashtags         []string             `bson:"hashtags" json:"hashtags"`
	ImageURL         string               `bson:"imageUrl" json:"image_url"`
	ImageName        string               `bson:"imageName" json:"-"`
	LikeUsers        []primitive.ObjectID `bson:"likeUsers" json:"-"`
	CommentIsAllowed bool                 `bson:"commentIsAllowed" json:"comment_is_allowed"`
	CreatedAt        time.Time            `bson:"createdAt" json:"created_at"`
}

type Comment struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID   `bson:"postId" json:"post_id"`
	Writer    primitive.ObjectID   `bson:"writer" json:"writer"`
	Contents  string               `bson:"contents" json:"contents"`
	Like      []primitive.ObjectID `bson:"like" json:"-"`
	CreatedAt time.Time            `bson:"createdAt" json:"created_at"`
}

// Reply 的 postId 为冗余字段，便于按帖子直接过滤
type Reply struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ParentID  primitive.ObjectID   `bson:"parentsId" json:"parent_id"`
	PostID    primitive.ObjectID   `bson:"postId" json:"post_id"`
	Writer    primitive.ObjectID   `bson:"writer" json:"writer"`
	Contents  string               `bson:"contents" json:"contents"`
	Like      []primitive.ObjectID `bson:"like" json:"-"`
	CreatedAt time.Time            `bson:"createdAt" json:"created_at"`
}
