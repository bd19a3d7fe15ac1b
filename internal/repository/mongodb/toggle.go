package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// 同一观察者对同一目标的并发切换通过条件更新解决：
// 先尝试带成员存在条件的移除，再尝试带成员不存在条件的添加，
// 两者都未命中时要么目标文档不存在，要么与并发切换竞争，重试
const maxToggleRetries = 3

// toggleMembership 切换 memberID 在 owner 文档 field 集合中的成员关系。
// 返回 true 表示本次为添加，false 表示移除。
// owner 不存在时返回 mongo.ErrNoDocuments。
func toggleMembership(ctx context.Context, coll *mongo.Collection, ownerID primitive.ObjectID, field string, memberID primitive.ObjectID) (bool, error) {
	for i := 0; i < maxToggleRetries; i++ {
		res, err := coll.UpdateOne(ctx,
			bson.M{"_id": ownerID, field: memberID},
			bson.M{"$pull": bson.M{field: memberID}})
		if err != nil {
			return false, err
		}
		if res.MatchedCount == 1 {
			return false, nil
		}

		res, err = coll.UpdateOne(ctx,
			bson.M{"_id": ownerID, field: bson.M{"$ne": memberID}},
			bson.M{"$addToSet": bson.M{field: memberID}})
		if err != nil {
			return false, err
		}
		if res.MatchedCount == 1 {
			return true, nil
		}

		count, err := coll.CountDocuments(ctx, bson.M{"_id": ownerID})
		if err != nil {
			return false, err
		}
		if count == 0 {
			return false, mongo.ErrNoDocuments
		}
	}
	return false, errToggleContention
}

// isMember 测试成员关系，不加载整个集合
func isMember(ctx context.Context, coll *mongo.Collection, ownerID primitive.ObjectID, field string, memberID primitive.ObjectID) (bool, error) {
	count, err := coll.CountDocuments(ctx, bson.M{"_id": ownerID, field: memberID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
