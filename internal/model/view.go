package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReplyView 是附加了作者摘要和观察者相关标记的回复视图
type ReplyView struct {
	ID        primitive.ObjectID `json:"id"`
	Writer    UserSummary        `json:"writer"`
	Contents  string             `json:"contents"`
	LikeCount int                `json:"like_count"`
	IsLike    bool               `json:"is_like"`
	CreatedAt time.Time          `json:"created_at"`
}

// CommentView 是附加了作者摘要、观察者相关标记和嵌套回复的评论视图
type CommentView struct {
	ID        primitive.ObjectID `json:"id"`
	Writer    UserSummary        `json:"writer"`
	Contents  string             `json:"contents"`
	LikeCount int                `json:"like_count"`
	IsLike    bool               `json:"is_like"`
	CreatedAt time.Time          `json:"created_at"`
	Replies   []ReplyView        `json:"replies,omitempty"`
}

// PostView 是信息流和帖子详情共用的聚合视图
type PostView struct {
	ID               primitive.ObjectID `json:"id"`
	Writer           UserSummary        `json:"writer"`
	Contents         string             `json:"contents"`
	Hashtags         []string           `json:"hashtags"`
	ImageURL         string             `json:"image_url"`
	CommentIsAllowed bool               `json:"comment_is_allowed"`
	LikeCount        int                `json:"like_count"`
	CommentCount     int                `json:"comment_count"`
	IsLike           bool               `json:"is_like"`
	CreatedAt        time.Time          `json:"created_at"`
	Comments         []CommentView      `json:"comments"`
}

// PostThumb 是个人主页帖子网格中的缩略视图，不重复帖子内容
type PostThumb struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	ImageURL     string             `bson:"imageUrl" json:"image_url"`
	LikeCount    int                `bson:"likeCount" json:"like_count"`
	CommentCount int                `bson:"commentCount" json:"comment_count"`
}

// ProfileView 是个人主页聚合视图
type ProfileView struct {
	ID            primitive.ObjectID `json:"id"`
	Handle        string             `json:"handle"`
	Name          string             `json:"name"`
	Website       string             `json:"website"`
	Introduction  string             `json:"introduction"`
	ProfileImage  string             `json:"profile_image"`
	TotalPost     int                `json:"total_post"`
	TotalFollow   int                `json:"total_follow"`
	TotalFollower int                `json:"total_follower"`
	IsFollow      bool               `json:"is_follow"`
	Posts         []PostThumb        `json:"posts"`
	SavedPosts    []PostThumb        `json:"saved_posts"`
}
