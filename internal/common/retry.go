package common

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsRetryable 判断是否可重试
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

// WithRetry 通用重试机制，重试间隔线性增长
func WithRetry(operation func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		time.Sleep(time.Second * time.Duration(i+1))
	}
	return err
}
