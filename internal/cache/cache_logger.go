package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern invalidates a cache pattern, logging failures
// instead of surfacing them to the write path.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys, logging failures.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCourseCache drops every cache entry affected by a course
// write: the course itself, catalog pages, and the owning instructor's
// aggregates. instructorID may be 0 when unknown (deletes), which
// widens the instructor invalidation to all entries.
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID, instructorID uint) {
	SafeDelete(ctx, cm.Course, fmt.Sprintf("id:%d", courseID))
	SafeInvalidatePattern(ctx, cm.Course, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, "admin:*")

	if instructorID != 0 {
		SafeDelete(ctx, cm.Instructor, fmt.Sprintf("aggregates:%d", instructorID))
		SafeInvalidatePattern(ctx, cm.Instructor, fmt.Sprintf("id:%d*", instructorID))
	} else {
		SafeInvalidatePattern(ctx, cm.Instructor, "aggregates:*")
	}
	SafeInvalidatePattern(ctx, cm.Instructor, "list:*")
}
