package cache

import (
	"fmt"
	"time"
)

const (
	CategoryCountsKey = "categories:counts"
	HomeFeedKey       = "home:feed"
	ArticleKeyPrefix  = "article:"
)

const (
	CategoryCountsTTL = 5 * time.Minute
	HomeFeedTTL       = time.Minute
	ArticleTTL        = 10 * time.Minute
)

// ArticleKey is the cache key of a single article with its comments.
func ArticleKey(articleID uint) string {
	return fmt.Sprintf("%s%d", ArticleKeyPrefix, articleID)
}

// ArticleWriteKeys lists every key an article write can make stale.
func ArticleWriteKeys(articleID uint) []string {
	return []string{ArticleKey(articleID), CategoryCountsKey, HomeFeedKey}
}

// CommentWriteKeys lists every key a comment write can make stale.
func CommentWriteKeys(articleID uint) []string {
	return []string{ArticleKey(articleID), HomeFeedKey}
}

// CategoryWriteKeys lists the fixed keys a category write can make stale.
// Cached articles embed category names and are dropped by prefix.
func CategoryWriteKeys() []string {
	return []string{CategoryCountsKey, HomeFeedKey}
}
