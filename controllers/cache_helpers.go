package controllers

import (
	"context"
	"fmt"

	"Chirp/cache"
)

func feedCacheKey(page int) string {
	return fmt.Sprintf("feed:page:%d", page)
}

// invalidateFeedCache drops every cached feed page. Best effort: a cold or
// absent redis just means the next read hits the database.
func invalidateFeedCache() {
	_ = cache.DeleteByPrefix(context.Background(), "feed:page:")
}
