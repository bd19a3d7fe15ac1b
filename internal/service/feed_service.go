package service

import (
	"context"
	"instagram-clone-backend/internal/errors"
	"instagram-clone-backend/internal/model"
	"instagram-clone-backend/internal/repository/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedService 负责三种查询形态的视图组装：
// 信息流列表、帖子详情（含评论与嵌套回复）、个人主页。
// 采用分层"取父集、按父ID批量取子集、贴合"的流水线，计数一律由集合基数派生
type FeedService struct {
	userRepo interfaces.UserRepository
	postRepo interfaces.PostRepository
}

func NewFeedService(userRepo interfaces.UserRepository, postRepo interfaces.PostRepository) *FeedService {
	return &FeedService{
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

// isViewerMember 在已读取的文档快照上测试成员关系，匿名观察者恒为 false
func isViewerMember(set []primitive.ObjectID, viewerID primitive.ObjectID) bool {
	if viewerID.IsZero() {
		return false
	}
	for _, id := range set {
		if id == viewerID {
			return true
		}
	}
	return false
}

// FeedList 返回全部帖子的聚合视图，按创建时间倒序
func (s *FeedService) FeedList(ctx context.Context, viewerID primitive.ObjectID) ([]model.PostView, error) {
	posts, err := s.postRepo.ListAllPosts(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "list posts failed", err)
	}

	postIDs := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	comments, err := s.postRepo.ListCommentsByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "list comments failed", err)
	}

	commentsByPost := make(map[primitive.ObjectID][]*model.Comment)
	for _, c := range comments {
		commentsByPost[c.PostID] = append(commentsByPost[c.PostID], c)
	}

	writerIDs := make([]primitive.ObjectID, 0, len(posts)+len(comments))
	for _, p := range posts {
		writerIDs = append(writerIDs, p.Writer)
	}
	for _, c := range comments {
		writerIDs = append(writerIDs, c.Writer)
	}
	summaries, err := s.userRepo.FindSummariesByIDs(ctx, writerIDs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "load writers failed", err)
	}

	views := make([]model.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, s.buildPostView(p, commentsByPost[p.ID], nil, summaries, viewerID))
	}
	return views, nil
}

// PostDetail 返回单个帖子的聚合视图，评论携带嵌套回复。
// 帖子不存在时立即返回 NotFound，绝不以空视图代替
func (s *FeedService) PostDetail(ctx context.Context, postID, viewerID primitive.ObjectID) (*model.PostView, error) {
	post, err := s.postRepo.FindPostByID(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "find post failed", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "post not found")
	}

	comments, err := s.postRepo.ListCommentsByPostIDs(ctx, []primitive.ObjectID{post.ID})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "list comments failed", err)
	}

	commentIDs := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
	}
	replies, err := s.postRepo.ListRepliesByCommentIDs(ctx, commentIDs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "list replies failed", err)
	}

	repliesByComment := make(map[primitive.ObjectID][]*model.Reply)
	for _, r := range replies {
		repliesByComment[r.ParentID] = append(repliesByComment[r.ParentID], r)
	}

	writerIDs := []primitive.ObjectID{post.Writer}
	for _, c := range comments {
		writerIDs = append(writerIDs, c.Writer)
	}
	for _, r := range replies {
		writerIDs = append(writerIDs, r.Writer)
	}
	summaries, err := s.userRepo.FindSummariesByIDs(ctx, writerIDs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "load writers failed", err)
	}

	view := s.buildPostView(post, comments, repliesByComment, summaries, viewerID)
	return &view, nil
}

func (s *FeedService) buildPostView(post *model.Post, comments []*model.Comment, repliesByComment map[primitive.ObjectID][]*model.Reply, summaries map[primitive.ObjectID]model.UserSummary, viewerID primitive.ObjectID) model.PostView {
	commentViews := make([]model.CommentView, 0, len(comments))
	for _, c := range comments {
		cv := model.CommentView{
			ID:        c.ID,
			Writer:    summaries[c.Writer],
			Contents:  c.Contents,
			LikeCount: len(c.Like),
			IsLike:    isViewerMember(c.Like, viewerID),
			CreatedAt: c.CreatedAt,
		}
		for _, r := range repliesByComment[c.ID] {
			cv.Replies = append(cv.Replies, model.ReplyView{
				ID:        r.ID,
				Writer:    summaries[r.Writer],
				Contents:  r.Contents,
				LikeCount: len(r.Like),
				IsLike:    isViewerMember(r.Like, viewerID),
				CreatedAt: r.CreatedAt,
			})
		}
		commentViews = append(commentViews, cv)
	}

	return model.PostView{
		ID:               post.ID,
		Writer:           summaries[post.Writer],
		Contents:         post.Contents,
		Hashtags:         post.Hashtags,
		ImageURL:         post.ImageURL,
		CommentIsAllowed: post.CommentIsAllowed,
		LikeCount:        len(post.LikeUsers),
		CommentCount:     len(comments),
		IsLike:           isViewerMember(post.LikeUsers, viewerID),
		CreatedAt:        post.CreatedAt,
		Comments:         commentViews,
	}
}

// Profile 返回个人主页聚合视图：资料字段、派生计数、观察者相对的关注标记、
// 帖子网格和按收藏顺序排列的收藏列表
func (s *FeedService) Profile(ctx context.Context, handle string, viewerID primitive.ObjectID) (*model.ProfileView, error) {
	user, err := s.userRepo.FindByHandle(ctx, handle)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "find user failed", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}

	totalPost, err := s.postRepo.CountPostsByWriter(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "count posts failed", err)
	}

	totalFollow, totalFollower, err := s.userRepo.FollowCounts(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "follow counts failed", err)
	}

	isFollow := false
	if !viewerID.IsZero() {
		isFollow, err = s.userRepo.IsFollowing(ctx, viewerID, user.ID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "follow check failed", err)
		}
	}

	posts, err := s.postRepo.PostThumbsByWriter(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "load post grid failed", err)
	}

	savedIDs, err := s.userRepo.SavedPostIDs(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "load saved posts failed", err)
	}
	savedPosts, err := s.postRepo.PostThumbsByIDs(ctx, savedIDs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "load saved posts failed", err)
	}

	return &model.ProfileView{
		ID:            user.ID,
		Handle:        user.Handle,
		Name:          user.Name,
		Website:       user.Website,
		Introduction:  user.Introduction,
		ProfileImage:  user.ProfileImage,
		TotalPost:     totalPost,
		TotalFollow:   totalFollow,
		TotalFollower: totalFollower,
		IsFollow:      isFollow,
		Posts:         posts,
		SavedPosts:    savedPosts,
	}, nil
}

// FeedServiceInterface 供处理器层与测试使用
type FeedServiceInterface interface {
	FeedList(ctx context.Context, viewerID primitive.ObjectID) ([]model.PostView, error)
	PostDetail(ctx context.Context, postID, viewerID primitive.ObjectID) (*model.PostView, error)
	Profile(ctx context.Context, handle string, viewerID primitive.ObjectID) (*model.ProfileView, error)
}

// 确保 FeedService 实现了 FeedServiceInterface
var _ FeedServiceInterface = (*FeedService)(nil)
