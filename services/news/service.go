package news

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sahilchouksey/skills-lab/utils/logger"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnknownRegion   = errors.New("unknown news region")
	ErrUnknownCategory = errors.New("unknown news category")
	errAllFailed       = errors.New("every news provider failed")
)

const (
	DefaultCacheVersion = "v7"
	DefaultCacheTTL     = 24 * time.Hour
)

// Feed is what Get returns for one (region, category)
type Feed struct {
	Region    string     `json:"region"`
	Category  string     `json:"category"`
	Items     []Item     `json:"items"`
	Cached    bool       `json:"cached"`
	Stale     bool       `json:"stale"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
}

type Config struct {
	CacheVersion string
	CacheTTL     time.Duration
}

// Service aggregates the providers of each region behind a time-boxed cache
type Service struct {
	providers map[string][]Provider
	vocab     *Vocabulary
	cache     Cache
	version   string
	ttl       time.Duration
	log       *logger.Logger
	now       func() time.Time
}

// NewService wires providers per region. cache may be nil, in which case
// every call fetches.
func NewService(vocab *Vocabulary, providers map[string][]Provider, c Cache, cfg Config, log *logger.Logger) *Service {
	if cfg.CacheVersion == "" {
		cfg.CacheVersion = DefaultCacheVersion
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		providers: providers,
		vocab:     vocab,
		cache:     c,
		version:   cfg.CacheVersion,
		ttl:       cfg.CacheTTL,
		log:       log.With("component", "news"),
		now:       time.Now,
	}
}

// Categories lists the selectable categories in display order
func (s *Service) Categories() []CategoryVocabulary {
	out := make([]CategoryVocabulary, len(s.vocab.Categories))
	copy(out, s.vocab.Categories)
	return out
}

// Regions lists the configured regions
func (s *Service) Regions() []string {
	return []string{RegionFinland, RegionGlobal}
}

func (s *Service) normalize(region, category string) (string, string, error) {
	if _, ok := s.providers[region]; !ok {
		return "", "", ErrUnknownRegion
	}
	if category == "" {
		category = CategoryAll
	}
	if category != CategoryAll {
		if _, ok := s.vocab.Category(category); !ok {
			return "", "", ErrUnknownCategory
		}
	}
	return region, category, nil
}

// Get returns the feed for region and category. A cached entry younger than
// the TTL is served as is. Otherwise the providers are queried; when they
// fail or return nothing the stale entry is served instead.
func (s *Service) Get(ctx context.Context, region, category string) (*Feed, error) {
	return s.get(ctx, region, category, false)
}

// Refresh is Get without the freshness check
func (s *Service) Refresh(ctx context.Context, region, category string) (*Feed, error) {
	return s.get(ctx, region, category, true)
}

func (s *Service) get(ctx context.Context, region, category string, force bool) (*Feed, error) {
	region, category, err := s.normalize(region, category)
	if err != nil {
		return nil, err
	}
	key := CacheKey(s.version, region, category)

	cached := s.load(ctx, key)
	if !force && cached != nil && s.now().Sub(cached.FetchedAt) < s.ttl {
		return feedFrom(region, category, cached, true, false), nil
	}

	items, err := s.fetch(ctx, region, category)
	if err != nil || len(items) == 0 {
		if cached != nil {
			s.log.Warn("serving stale news", "key", key, "age", s.now().Sub(cached.FetchedAt).String(), "error", err)
			return feedFrom(region, category, cached, true, true), nil
		}
		if err != nil {
			s.log.Warn("news unavailable", "key", key, "error", err)
		}
		return &Feed{Region: region, Category: category, Items: []Item{}}, nil
	}

	entry := Entry{Items: items, FetchedAt: s.now()}
	if s.cache != nil {
		if err := s.cache.Store(ctx, key, entry); err != nil {
			s.log.Warn("failed to cache news", "key", key, "error", err)
		}
	}
	return feedFrom(region, category, &entry, false, false), nil
}

func (s *Service) load(ctx context.Context, key string) *Entry {
	if s.cache == nil {
		return nil
	}
	entry, err := s.cache.Load(ctx, key)
	if err != nil {
		s.log.Warn("failed to read news cache", "key", key, "error", err)
		return nil
	}
	return entry
}

func feedFrom(region, category string, e *Entry, cached, stale bool) *Feed {
	at := e.FetchedAt
	items := e.Items
	if items == nil {
		items = []Item{}
	}
	return &Feed{Region: region, Category: category, Items: items, Cached: cached, Stale: stale, FetchedAt: &at}
}

// fetch queries every provider of the region concurrently. A failing
// provider counts as empty; only when all of them fail is an error returned.
func (s *Service) fetch(ctx context.Context, region, category string) ([]Item, error) {
	providers := s.providers[region]
	if len(providers) == 0 {
		return nil, nil
	}

	results := make([][]Item, len(providers))
	var (
		mu     sync.Mutex
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			items, err := p.Fetch(gctx, region, category)
			if err != nil {
				s.log.Warn("news provider failed", "provider", p.Name(), "region", region, "category", category, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	if failed == len(providers) {
		return nil, errAllFailed
	}
	return Merge(results...), nil
}

// Prefetch refreshes every (region, category) pair and reports how many
// were fetched anew
func (s *Service) Prefetch(ctx context.Context) (int, error) {
	keys := append([]string{CategoryAll}, categoryKeys(s.vocab)...)
	refreshed := 0
	var errs []error
	for _, region := range s.Regions() {
		for _, category := range keys {
			if err := ctx.Err(); err != nil {
				return refreshed, err
			}
			feed, err := s.Refresh(ctx, region, category)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s/%s: %w", region, category, err))
				continue
			}
			if !feed.Cached {
				refreshed++
			}
		}
	}
	return refreshed, errors.Join(errs...)
}

func categoryKeys(v *Vocabulary) []string {
	keys := make([]string, len(v.Categories))
	for i, c := range v.Categories {
		keys[i] = c.Key
	}
	return keys
}
