package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User 结构体表示用户模型
// following/followers 互为镜像：A 在 B 的 following 中当且仅当 B 在 A 的 followers 中
type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Handle           string               `bson:"handle" json:"handle"`
	Name             string               `bson:"name" json:"name"`
	Email            string               `bson:"email" json:"email"`
	PhoneNum         string               `bson:"phoneNum" json:"phone_num"`
	Gender           string               `bson:"gender" json:"gender"`
	Website          string               `bson:"website" json:"website"`
	Introduction     string               `bson:"introduction" json:"introduction"`
	Password         string               `bson:"password" json:"-"` // 密码哈希不应在JSON中暴露
	ProfileImage     string               `bson:"profileImage" json:"profile_image"`
	ProfileImageName string               `bson:"profileImageName" json:"-"`
	Following        []primitive.ObjectID `bson:"following" json:"-"`
	Followers        []primitive.ObjectID `bson:"followers" json:"-"`
	SavedPosts       []primitive.ObjectID `bson:"savedPosts" json:"-"` // 保持收藏顺序
	CreatedAt        time.Time            `bson:"createdAt" json:"created_at"`
}

// UserSummary 是嵌入在帖子/评论视图中的作者摘要，只包含可展示字段
type UserSummary struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Handle       string             `bson:"handle" json:"handle"`
	Name         string             `bson:"name" json:"name"`
	ProfileImage string             `bson:"profileImage" json:"profile_image"`
}

// Summary 返回用户的作者摘要投影
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Handle:       u.Handle,
		Name:         u.Name,
		ProfileImage: u.ProfileImage,
	}
}
