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

type userRepository struct {
	db    *mongo.Database
	users *mongo.Collection
}

// NewUserRepository 创建基于 MongoDB 的用户存储库
func NewUserRepository(db *mongo.Database) interfaces.UserRepository {
	return &userRepository{
		db:    db,
		users: db.Collection(usersCollection),
	}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	// 集合字段保证非 nil，便于后续 $size 聚合
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.SavedPosts == nil {
		user.SavedPosts = []primitive.ObjectID{}
	}
	_, err := r.users.InsertOne(ctx, user)
	return err
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) FindByHandle(ctx context.Context, handle string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"handle": handle})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) FindSummariesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.UserSummary, error) {
	summaries := make(map[primitive.ObjectID]model.UserSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	opts := options.Find().SetProjection(bson.M{
		"_id":          1,
		"handle":       1,
		"name":         1,
		"profileImage": 1,
	})
	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []model.UserSummary
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	for _, s := range results {
		summaries[s.ID] = s
	}
	return summaries, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"handle":       user.Handle,
		"name":         user.Name,
		"email":        user.Email,
		"phoneNum":     user.PhoneNum,
		"gender":       user.Gender,
		"website":      user.Website,
		"introduction": user.Introduction,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": passwordHash}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *userRepository) UpdateProfileImage(ctx context.Context, id primitive.ObjectID, imageURL, imageName string) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"profileImage":     imageURL,
		"profileImageName": imageName,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *userRepository) IsEmailTaken(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	count, err := r.users.CountDocuments(ctx, bson.M{"email": email, "_id": bson.M{"$ne": excludeID}})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) IsHandleTaken(ctx context.Context, handle string, excludeID primitive.ObjectID) (bool, error) {
	count, err := r.users.CountDocuments(ctx, bson.M{"handle": handle, "_id": bson.M{"$ne": excludeID}})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ToggleFollow 在一个事务中切换双向的关注镜像：
// target.followers 与 follower.following 要么同时更新，要么都不更新
func (r *userRepository) ToggleFollow(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error) {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return false, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for i := 0; i < maxToggleRetries; i++ {
			// 先尝试取消关注
			res, err := r.users.UpdateOne(sc,
				bson.M{"_id": targetID, "followers": followerID},
				bson.M{"$pull": bson.M{"followers": followerID}})
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 1 {
				if _, err := r.users.UpdateOne(sc,
					bson.M{"_id": followerID},
					bson.M{"$pull": bson.M{"following": targetID}}); err != nil {
					return nil, err
				}
				return false, nil
			}

			// 再尝试建立关注
			res, err = r.users.UpdateOne(sc,
				bson.M{"_id": targetID, "followers": bson.M{"$ne": followerID}},
				bson.M{"$addToSet": bson.M{"followers": followerID}})
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 1 {
				if _, err := r.users.UpdateOne(sc,
					bson.M{"_id": followerID},
					bson.M{"$addToSet": bson.M{"following": targetID}}); err != nil {
					return nil, err
				}
				return true, nil
			}

			count, err := r.users.CountDocuments(sc, bson.M{"_id": targetID})
			if err != nil {
				return nil, err
			}
			if count == 0 {
				return nil, mongo.ErrNoDocuments
			}
		}
		return nil, errToggleContention
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (r *userRepository) IsFollowing(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error) {
	return isMember(ctx, r.users, targetID, "followers", followerID)
}

func (r *userRepository) FollowCounts(ctx context.Context, id primitive.ObjectID) (int, int, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": id}}},
		bson.D{{Key: "$project", Value: bson.M{
			"totalFollow":   bson.M{"$size": bson.M{"$ifNull": bson.A{"$following", bson.A{}}}},
			"totalFollower": bson.M{"$size": bson.M{"$ifNull": bson.A{"$followers", bson.A{}}}},
		}}},
	}
	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalFollow   int `bson:"totalFollow"`
		TotalFollower int `bson:"totalFollower"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, mongo.ErrNoDocuments
	}
	return results[0].TotalFollow, results[0].TotalFollower, nil
}

// ToggleSave 使用 $push 追加以保持收藏顺序，移除时使用 $pull
func (r *userRepository) ToggleSave(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	for i := 0; i < maxToggleRetries; i++ {
		res, err := r.users.UpdateOne(ctx,
			bson.M{"_id": userID, "savedPosts": postID},
			bson.M{"$pull": bson.M{"savedPosts": postID}})
		if err != nil {
			return false, err
		}
		if res.MatchedCount == 1 {
			return false, nil
		}

		res, err = r.users.UpdateOne(ctx,
			bson.M{"_id": userID, "savedPosts": bson.M{"$ne": postID}},
			bson.M{"$push": bson.M{"savedPosts": postID}})
		if err != nil {
			return false, err
		}
		if res.MatchedCount == 1 {
			return true, nil
		}

		count, err := r.users.CountDocuments(ctx, bson.M{"_id": userID})
		if err != nil {
			return false, err
		}
		if count == 0 {
			return false, mongo.ErrNoDocuments
		}
	}
	return false, errToggleContention
}

func (r *userRepository) IsPostSaved(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	return isMember(ctx, r.users, userID, "savedPosts", postID)
}

func (r *userRepository) SavedPostIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var result struct {
		SavedPosts []primitive.ObjectID `bson:"savedPosts"`
	}
	opts := options.FindOne().SetProjection(bson.M{"savedPosts": 1})
	err := r.users.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, mongo.ErrNoDocuments
	}
	if err != nil {
		return nil, err
	}
	return result.SavedPosts, nil
}

var _ interfaces.UserRepository = (*userRepository)(nil)
