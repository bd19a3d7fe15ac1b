package user

import (
	"path/filepath"

	"instagram-clone-backend/internal/errors"
	"instagram-clone-backend/internal/model"
	"instagram-clone-backend/internal/service"
	"instagram-clone-backend/internal/storage"
	"instagram-clone-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AccountHandler 处理账户管理相关的HTTP请求
type AccountHandler struct {
	userService service.UserServiceInterface
	storage     storage.Uploader
}

func NewAccountHandler(userService service.UserServiceInterface, uploader storage.Uploader) *AccountHandler {
	return &AccountHandler{userService: userService, storage: uploader}
}

// currentUserID 从上下文中取出已认证的用户ID
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw.(string))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// GetAccountInfo 返回当前登录用户的账户信息
func (h *AccountHandler) GetAccountInfo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"handle":        user.Handle,
		"name":          user.Name,
		"email":         user.Email,
		"phone_num":     user.PhoneNum,
		"gender":        user.Gender,
		"website":       user.Website,
		"introduction":  user.Introduction,
		"profile_image": user.ProfileImage,
	}, "获取账户信息成功")
}

// UpdateProfile 更新当前用户的个人资料
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	var profileData struct {
		Handle       string `json:"handle" binding:"required,handle"`
		Name         string `json:"name"`
		Email        string `json:"email" binding:"required,email"`
		PhoneNum     string `json:"phone_num"`
		Gender       string `json:"gender"`
		Website      string `json:"website"`
		Introduction string `json:"introduction"`
	}

	if err := c.ShouldBindJSON(&profileData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	update := &model.User{
		ID:           userID,
		Handle:       profileData.Handle,
		Name:         profileData.Name,
		Email:        profileData.Email,
		PhoneNum:     profileData.PhoneNum,
		Gender:       profileData.Gender,
		Website:      profileData.Website,
		Introduction: profileData.Introduction,
	}

	if err := h.userService.UpdateProfile(c.Request.Context(), update); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "更新个人资料成功")
}

// ChangePassword 修改当前用户的密码
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	var passwordData struct {
		OldPassword     string `json:"old_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
		ConfirmPassword string `json:"confirm_password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&passwordData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), userID,
		passwordData.OldPassword, passwordData.NewPassword, passwordData.ConfirmPassword)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "修改密码成功")
}

// UploadProfileImage 上传并设置当前用户的头像
func (h *AccountHandler) UploadProfileImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "缺少头像文件", err))
		return
	}

	filename := util.GenerateUniqueFilename(file.Filename)
	objectName := filepath.Join("profiles", userID.Hex(), filename)

	url, err := h.storage.UploadFile(file, objectName)
	if err != nil {
		util.Logger.Error("上传头像失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrStorage, "上传头像失败", err))
		return
	}

	if err := h.userService.SetProfileImage(c.Request.Context(), userID, url, objectName); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"profile_image": url}, "上传头像成功")
}

// DeleteProfileImage 删除当前用户的头像
func (h *AccountHandler) DeleteProfileImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "未授权"))
		return
	}

	if err := h.userService.DeleteProfileImage(c.Request.Context(), userID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "删除头像成功")
}
