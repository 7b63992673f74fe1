package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/config"
)

func loginAttemptKey(ip string) string {
	return fmt.Sprintf("login:attempts:%s", ip)
}

func loginBlockKey(ip string) string {
	return fmt.Sprintf("login:block:%s", ip)
}

// IsLoginBlocked 判断来源 IP 是否处于登录封禁期
// 缓存未启用时直接放行
func IsLoginBlocked(ctx context.Context, ip string) (bool, error) {
	if !Enabled() || ip == "" {
		return false, nil
	}
	n, err := redisClient.Exists(ctx, namespacedKey(loginBlockKey(ip))).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordLoginFailure 记录一次登录失败，超过阈值则封禁来源 IP
// 返回是否已触发封禁
func RecordLoginFailure(ctx context.Context, ip string, cfg config.LoginRateLimitConfig) (bool, error) {
	if !Enabled() || ip == "" {
		return false, nil
	}
	window := time.Duration(cfg.WindowSeconds) * time.Second
	if window <= 0 {
		window = 5 * time.Minute
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	block := time.Duration(cfg.BlockSeconds) * time.Second
	if block <= 0 {
		block = 15 * time.Minute
	}

	key := namespacedKey(loginAttemptKey(ip))
	count, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := redisClient.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	if count < int64(maxAttempts) {
		return false, nil
	}
	if err := redisClient.Set(ctx, namespacedKey(loginBlockKey(ip)), "1", block).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// ClearLoginFailures 登录成功后清除失败计数
func ClearLoginFailures(ctx context.Context, ip string) error {
	if !Enabled() || ip == "" {
		return nil
	}
	return Del(ctx, loginAttemptKey(ip))
}
