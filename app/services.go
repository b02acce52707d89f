package app

import (
	"fmt"
	"time"

	"github.com/sahilchouksey/skills-lab/config"
	"github.com/sahilchouksey/skills-lab/database"
	"github.com/sahilchouksey/skills-lab/router"
	"github.com/sahilchouksey/skills-lab/services"
	"github.com/sahilchouksey/skills-lab/services/inference"
	"github.com/sahilchouksey/skills-lab/services/news"
	"github.com/sahilchouksey/skills-lab/services/syllabus"
	"github.com/sahilchouksey/skills-lab/services/tools"
	"github.com/sahilchouksey/skills-lab/utils/auth"
	"github.com/sahilchouksey/skills-lab/utils/cache"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
)

// NewSyllabusGenerator returns a generator backed by the configured text
// model, or a fallback-only generator when AI is off or has no key
func NewSyllabusGenerator(env *config.EnvironmentVariable, log *logger.Logger) *syllabus.Generator {
	if !env.AI_ENABLED || env.AI_API_KEY == "" {
		log.Warn("text generation disabled, serving fallback curricula", "ai_enabled", env.AI_ENABLED)
		return syllabus.NewGenerator(nil, log)
	}
	client := inference.NewClient(inference.Config{
		APIKey:  env.AI_API_KEY,
		BaseURL: env.AI_BASE_URL,
		Model:   env.AI_MODEL,
	})
	log.Info("text generation enabled", "model", client.Model())
	return syllabus.NewGenerator(client, log)
}

// NewNewsService wires the news providers per region. redis may be nil, in
// which case nothing is cached.
func NewNewsService(env *config.EnvironmentVariable, redis *cache.RedisCache, log *logger.Logger) *news.Service {
	vocab := news.DefaultVocabulary()
	newsAPI := news.NewNewsAPI(env.NEWS_API_KEY, "", vocab)

	providers := map[string][]news.Provider{
		news.RegionFinland: {
			newsAPI,
			news.NewGNews(env.GNEWS_API_KEY, "", vocab),
			news.NewNewsData(env.NEWSDATA_API_KEY, "", vocab),
		},
		news.RegionGlobal: {newsAPI},
	}

	var c news.Cache
	if redis != nil {
		c = news.NewRedisCache(redis)
	}
	return news.NewService(vocab, providers, c, news.Config{
		CacheVersion: env.NEWS_CACHE_VERSION,
		CacheTTL:     env.NEWS_CACHE_TTL,
	}, log)
}

// NewDependencies builds every service the HTTP routes use
func NewDependencies(env *config.EnvironmentVariable, store *database.GORMStore, redis *cache.RedisCache, log *logger.Logger) (*router.Dependencies, error) {
	if env.JWT_SECRET == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	catalog, err := tools.Load()
	if err != nil {
		return nil, err
	}

	db := store.DB()
	achievements := services.NewAchievementService(db, log)
	progress := services.NewProgressService(db, log,
		services.WithAchievements(achievements),
		services.WithSequentialGating(env.PROGRESS_SEQUENTIAL_GATING),
	)
	generator := NewSyllabusGenerator(env, log)

	var throttle *middleware.SignInThrottle
	if redis != nil {
		throttle = middleware.NewSignInThrottle(redis)
	}

	return &router.Dependencies{
		Store: store,
		DB:    db,
		Log:   log,
		JWT: auth.NewJWTManager(auth.JWTConfig{
			Secret:        env.JWT_SECRET,
			Expiry:        24 * time.Hour,
			RefreshExpiry: 7 * 24 * time.Hour,
			Issuer:        env.JWT_ISSUER,
		}),
		Verifier:     auth.NewGoogleVerifier(env.GOOGLE_CLIENT_ID),
		Throttle:     throttle,
		Profiles:     services.NewProfileService(db, env.IsAdminEmail, log),
		Categories:   services.NewCategoryService(db, log),
		Courses:      services.NewCourseService(db, generator, progress, log),
		Progress:     progress,
		Achievements: achievements,
		Syllabus:     generator,
		News:         NewNewsService(env, redis, log),
		Tools:        catalog,
	}, nil
}
