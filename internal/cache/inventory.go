package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	ArticleKeyPrefix = "article:%s"
	ProfileKeyPrefix = "profile:%s"
)

const (
	UserTTL    = 5 * time.Minute
	ArticleTTL = 30 * time.Minute
	ProfileTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ArticleKey(slug string) string {
	return fmt.Sprintf(ArticleKeyPrefix, slug)
}

func ProfileKey(username string) string {
	return fmt.Sprintf(ProfileKeyPrefix, username)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateArticle(ctx context.Context, slug string) {
	Invalidate(ctx, ArticleKey(slug))
}

func InvalidateProfile(ctx context.Context, username string) {
	Invalidate(ctx, ProfileKey(username))
}
