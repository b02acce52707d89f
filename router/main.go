package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/database"
	"github.com/sahilchouksey/skills-lab/handlers"
	achievement_handlers "github.com/sahilchouksey/skills-lab/handlers/achievement"
	admin_handlers "github.com/sahilchouksey/skills-lab/handlers/admin"
	auth_handlers "github.com/sahilchouksey/skills-lab/handlers/auth"
	category_handlers "github.com/sahilchouksey/skills-lab/handlers/category"
	course_handlers "github.com/sahilchouksey/skills-lab/handlers/course"
	news_handlers "github.com/sahilchouksey/skills-lab/handlers/news"
	progress_handlers "github.com/sahilchouksey/skills-lab/handlers/progress"
	syllabus_handlers "github.com/sahilchouksey/skills-lab/handlers/syllabus"
	tools_handlers "github.com/sahilchouksey/skills-lab/handlers/tools"
	"github.com/sahilchouksey/skills-lab/services"
	"github.com/sahilchouksey/skills-lab/services/news"
	"github.com/sahilchouksey/skills-lab/services/syllabus"
	"github.com/sahilchouksey/skills-lab/services/tools"
	"github.com/sahilchouksey/skills-lab/utils"
	"github.com/sahilchouksey/skills-lab/utils/auth"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
	"gorm.io/gorm"
)

// Dependencies is everything the routes need, built once at startup
type Dependencies struct {
	Store    database.Storage
	DB       *gorm.DB
	Log      *logger.Logger
	JWT      *auth.JWTManager
	Verifier auth.IdentityVerifier
	// Throttle may be nil when Redis is unavailable
	Throttle *middleware.SignInThrottle

	Profiles     *services.ProfileService
	Categories   *services.CategoryService
	Courses      *services.CourseService
	Progress     *services.ProgressService
	Achievements *services.AchievementService
	Syllabus     *syllabus.Generator
	News         *news.Service
	Tools        *tools.Catalog
}

func SetupRoutes(app *fiber.App, d *Dependencies) {
	authMiddleware := middleware.NewAuthMiddleware(d.JWT, d.DB)

	authHandler := auth_handlers.NewAuthHandler(d.Verifier, d.Profiles, d.Categories, d.JWT, d.Throttle, d.Log)
	adminHandler := admin_handlers.NewAdminHandler(d.Profiles, d.Log)
	categoryHandler := category_handlers.NewCategoryHandler(d.Categories, d.Log)
	courseHandler := course_handlers.NewCourseHandler(d.Courses, d.Progress, d.Log)
	progressHandler := progress_handlers.NewProgressHandler(d.Progress, d.Log)
	syllabusHandler := syllabus_handlers.NewSyllabusHandler(d.Syllabus, d.Categories, d.Courses, d.Log)
	achievementHandler := achievement_handlers.NewAchievementHandler(d.Achievements, d.Log)
	newsHandler := news_handlers.NewNewsHandler(d.News, d.Log)
	toolsHandler := tools_handlers.NewToolsHandler(d.Tools)

	// Health check
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, d.Store))

	api := app.Group("/api/v1")
	api.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, d.Store))

	// Session (public sign-in, authenticated sign-out)
	authGroup := api.Group("/auth")
	authGroup.Post("/session", d.Throttle.Check(), authHandler.SignIn)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Profile is reachable while approval is pending
	profile := api.Group("/profile", authMiddleware.Required())
	profile.Get("/", authHandler.GetProfile)
	profile.Put("/preferences", authHandler.UpdatePreferences)

	// Everything below needs an approved profile
	required, approved := authMiddleware.Required(), authMiddleware.RequireApproved()

	categories := api.Group("/categories", required, approved)
	categories.Get("/", categoryHandler.ListCategories)
	categories.Post("/", categoryHandler.CreateCategory)
	categories.Put("/:id", categoryHandler.RenameCategory)
	categories.Delete("/:id", categoryHandler.DeleteCategory)

	api.Post("/syllabus/preview", required, approved, syllabusHandler.Preview)

	courses := api.Group("/courses", required, approved)
	courses.Post("/generate", courseHandler.GenerateCourse)
	courses.Get("/", courseHandler.ListCourses)
	courses.Get("/:id", courseHandler.GetCourse)
	courses.Post("/:id/progress", courseHandler.StartProgress)
	courses.Get("/:id/progress", courseHandler.GetProgress)

	progress := api.Group("/progress", required, approved)
	progress.Get("/", progressHandler.ListProgress)
	progress.Get("/:id", progressHandler.GetProgress)
	progress.Post("/:id/topics/:topic_id/complete", progressHandler.CompleteTopic)

	achievements := api.Group("/achievements", required, approved)
	achievements.Get("/", achievementHandler.ListAchievements)
	achievements.Get("/completed", achievementHandler.CompletedCourses)
	api.Get("/dashboard/stats", required, approved, achievementHandler.DashboardStats)

	newsGroup := api.Group("/news", required, approved)
	newsGroup.Get("/", newsHandler.GetNews)
	newsGroup.Get("/categories", newsHandler.ListCategories)
	api.Get("/tools", required, approved, toolsHandler.GetTools)

	// Admin
	admin := api.Group("/admin", required, authMiddleware.RequireAdmin())
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id/status", adminHandler.UpdateUserStatus)
}
