package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func rateLimitKey(participantID, action string) string {
	return fmt.Sprintf("rate_limit:participant:%s:%s", participantID, action)
}

func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, participantID string, action string, limit time.Duration) (bool, error) {
	if rdb == nil || limit <= 0 {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, rateLimitKey(participantID, action), "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, participantID string, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, rateLimitKey(participantID, action)).Result()
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, participantID string, action string) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, rateLimitKey(participantID, action)).Result()
	return err
}
