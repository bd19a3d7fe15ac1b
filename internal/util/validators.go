package util

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// 允许小写字母、数字、下划线和句点，首尾必须是字母或数字
var handleRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_.]{3,27}[a-z0-9]$`)

// IsValidHandle 检查用户 handle 是否符合格式要求
func IsValidHandle(handle string) bool {
	return handleRegex.MatchString(handle)
}

// ValidateHandle 注册到 gin binding 的 handle 格式验证器
func ValidateHandle(fl validator.FieldLevel) bool {
	handle, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return IsValidHandle(handle)
}
