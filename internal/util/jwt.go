package util

import (
	"errors"
	"instagram-clone-backend/config"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// GenerateToken 为用户生成 JWT 令牌，user_id 为 ObjectID 的十六进制表示
func GenerateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateToken 验证令牌并返回其中的用户ID
func ValidateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("令牌为空")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["user_id"].(string)
		if !ok {
			return "", errors.New("无效的用户ID")
		}
		return userID, nil
	}

	return "", errors.New("无效的令牌")
}
