package cron

import (
	"context"
	"fmt"
)

const (
	JobPrefetchNews          = "prefetch_news"
	JobCleanupTokenBlacklist = "cleanup_token_blacklist"
)

// NewsPrefetcher refreshes every cached news feed
type NewsPrefetcher interface {
	Prefetch(ctx context.Context) (int, error)
}

// TokenCleaner drops blacklist entries of tokens that expired anyway
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// RegisterNewsPrefetch schedules the daily news refresh at 05:00
func (m *CronManager) RegisterNewsPrefetch(news NewsPrefetcher) {
	m.register(JobPrefetchNews, "0 0 5 * * *", func(ctx context.Context) (string, map[string]interface{}, error) {
		refreshed, err := news.Prefetch(ctx)
		meta := map[string]interface{}{"refreshed": refreshed}
		if err != nil {
			return "", meta, fmt.Errorf("news prefetch incomplete after %d feeds: %w", refreshed, err)
		}
		return fmt.Sprintf("Refreshed %d news feeds", refreshed), meta, nil
	})
}

// RegisterTokenCleanup schedules the daily blacklist cleanup at 03:00
func (m *CronManager) RegisterTokenCleanup(tokens TokenCleaner) {
	m.register(JobCleanupTokenBlacklist, "0 0 3 * * *", func(ctx context.Context) (string, map[string]interface{}, error) {
		deleted, err := tokens.CleanupExpiredTokens(ctx)
		if err != nil {
			return "", nil, fmt.Errorf("failed to cleanup token blacklist: %w", err)
		}
		return fmt.Sprintf("Removed %d expired blacklist entries", deleted), map[string]interface{}{"deleted": deleted}, nil
	})
}
