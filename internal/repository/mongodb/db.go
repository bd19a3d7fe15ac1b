package mongodb

import "errors"

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	commentsCollection = "comments"
	repliesCollection  = "replies"
)

// 连续重试后仍与并发切换冲突
var errToggleContention = errors.New("membership toggle contention")
