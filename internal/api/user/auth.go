package user

import (
	"instagram-clone-backend/internal/errors"
	"instagram-clone-backend/internal/model"
	"instagram-clone-backend/internal/service"
	"instagram-clone-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	userService service.UserServiceInterface
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var registerData struct {
		Handle   string `json:"handle" binding:"required,handle"`
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&registerData); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user := &model.User{
		Handle:   registerData.Handle,
		Name:     registerData.Name,
		Email:    registerData.Email,
		Password: registerData.Password,
	}

	if err := h.userService.Register(c.Request.Context(), user); err != nil {
		if appErr, ok := err.(*errors.AppError); ok && (appErr.Code == errors.ErrUserExists || appErr.Code == errors.ErrEmailExists) {
			util.Logger.Warn("注册失败，账号已存在", zap.String("handle", user.Handle))
			errors.HandleError(c, err)
			return
		}
		util.Logger.Error("注册失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user_id": user.ID.Hex(),
	}, "注册成功")
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.Login(c.Request.Context(), loginData.Email, loginData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	token, err := util.GenerateToken(user.ID.Hex())
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"token": token,
		"user":  user,
	}, "登录成功")
}
