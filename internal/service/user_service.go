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
	"golang.org/x/crypto/bcrypt"
)

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo interfaces.UserRepository
	storage  storage.Uploader
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, uploader storage.Uploader) *UserService {
	return &UserService{
		userRepo: userRepo,
		storage:  uploader,
	}
}

// Register 注册新用户
func (s *UserService) Register(ctx context.Context, user *model.User) error {
	taken, err := s.userRepo.IsHandleTaken(ctx, user.Handle, primitive.NilObjectID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "handle check failed", err)
	}
	if taken {
		return errors.New(errors.ErrUserExists, "handle already exists")
	}

	taken, err = s.userRepo.IsEmailTaken(ctx, user.Email, primitive.NilObjectID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "email check failed", err)
	}
	if taken {
		return errors.New(errors.ErrEmailExists, "email already exists")
	}

	// 生成密码哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "hash password failed", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "create user failed", err)
	}
	return nil
}

// Login 用户登录
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "find user failed", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password")
	}
	return user, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "find user failed", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

// UpdateProfile 更新用户资料，handle 和邮箱不能被其他用户占用
func (s *UserService) UpdateProfile(ctx context.Context, user *model.User) error {
	if !util.IsValidHandle(user.Handle) {
		return errors.New(errors.ErrValidation, "handle may only contain lowercase letters, numbers, underscores and periods")
	}

	taken, err := s.userRepo.IsEmailTaken(ctx, user.Email, user.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "email check failed", err)
	}
	if taken {
		return errors.New(errors.ErrEmailExists, "email already exists")
	}

	taken, err = s.userRepo.IsHandleTaken(ctx, user.Handle, user.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "handle check failed", err)
	}
	if taken {
		return errors.New(errors.ErrUserExists, "handle already exists")
	}

	existing, err := s.GetUserByID(ctx, user.ID)
	if err != nil {
		return err
	}

	// 只更新允许修改的字段
	existing.Handle = user.Handle
	existing.Name = user.Name
	existing.Email = user.Email
	existing.PhoneNum = user.PhoneNum
	existing.Gender = user.Gender
	existing.Website = user.Website
	existing.Introduction = user.Introduction

	if err := s.userRepo.UpdateProfile(ctx, existing); err != nil {
		return errors.Wrap(errors.ErrDatabase, "update profile failed", err)
	}
	return nil
}

// ChangePassword 校验旧密码后更新为新密码
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, prevPassword, newPassword, newPasswordCheck string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	// 输入的旧密码与数据库中的哈希比较
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(prevPassword)); err != nil {
		return errors.New(errors.ErrUnauthorized, "previous password does not match")
	}

	if newPassword != newPasswordCheck {
		return errors.New(errors.ErrValidation, "new passwords do not match")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "hash password failed", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return errors.Wrap(errors.ErrDatabase, "update password failed", err)
	}

	util.Logger.Info("密码修改成功", zap.String("user_id", userID.Hex()))
	return nil
}

// SetProfileImage 更换头像，旧的存储对象在换绑前删除，避免残留
func (s *UserService) SetProfileImage(ctx context.Context, userID primitive.ObjectID, imageURL, imageName string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.ProfileImageName != "" {
		if err := s.storage.DeleteFile(user.ProfileImageName); err != nil {
			util.Logger.Error("删除旧头像失败",
				zap.Error(err),
				zap.String("user_id", userID.Hex()),
				zap.String("image", user.ProfileImageName))
		}
	}

	if err := s.userRepo.UpdateProfileImage(ctx, userID, imageURL, imageName); err != nil {
		return errors.Wrap(errors.ErrDatabase, "update profile image failed", err)
	}
	return nil
}

// DeleteProfileImage 删除头像并清空引用
func (s *UserService) DeleteProfileImage(ctx context.Context, userID primitive.ObjectID) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.ProfileImageName != "" {
		if err := s.storage.DeleteFile(user.ProfileImageName); err != nil {
			util.Logger.Error("删除头像失败",
				zap.Error(err),
				zap.String("user_id", userID.Hex()),
				zap.String("image", user.ProfileImageName))
		}
	}

	if err := s.userRepo.UpdateProfileImage(ctx, userID, "", ""); err != nil {
		return errors.Wrap(errors.ErrDatabase, "clear profile image failed", err)
	}
	return nil
}

// UserServiceInterface 供处理器层与测试使用
type UserServiceInterface interface {
	Register(ctx context.Context, user *model.User) error
	Login(ctx context.Context, email, password string) (*model.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	ChangePassword(ctx context.Context, userID primitive.ObjectID, prevPassword, newPassword, newPasswordCheck string) error
	SetProfileImage(ctx context.Context, userID primitive.ObjectID, imageURL, imageName string) error
	DeleteProfileImage(ctx context.Context, userID primitive.ObjectID) error
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)
