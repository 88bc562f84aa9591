package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateVideoCache invalidates all video-related caches
func InvalidateVideoCache(ctx context.Context, cm *CacheManager, videoID uint) {
	SafeDelete(ctx, cm.Video,
		fmt.Sprintf("id:%d", videoID),
		fmt.Sprintf("details:%d", videoID))

	SafeInvalidatePattern(ctx, cm.Video, "list:*")
	SafeInvalidatePattern(ctx, cm.Video, "categories*")
	SafeInvalidatePattern(ctx, cm.Fast, fmt.Sprintf("videos:id:%d*", videoID))
	SafeInvalidatePattern(ctx, cm.Stats, "*")
}

// InvalidateTaskCache invalidates all task-related caches
func InvalidateTaskCache(ctx context.Context, cm *CacheManager, taskID uint) {
	SafeDelete(ctx, cm.Task, fmt.Sprintf("id:%d", taskID))
	SafeInvalidatePattern(ctx, cm.Task, "list:*")
	SafeInvalidatePattern(ctx, cm.Fast, fmt.Sprintf("tasks:id:%d*", taskID))
	SafeInvalidatePattern(ctx, cm.Stats, "*")
}
