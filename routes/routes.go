package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sasch040/salesacademy-sub000/cms"
	"github.com/sasch040/salesacademy-sub000/config"
	"github.com/sasch040/salesacademy-sub000/controllers"
	"github.com/sasch040/salesacademy-sub000/middleware"
	"github.com/sasch040/salesacademy-sub000/progress"
)

func SetupRoutes(app *fiber.App, store *cms.Client, svc *progress.Service, cfg *config.Config, logger *zap.Logger) {
	api := app.Group("/api")

	// Public routes: login, and the branding lookup the login page needs.
	authController := controllers.NewAuthController(store, logger)
	api.Post("/auth/login", authController.Login)

	materialsController := controllers.NewMaterialsController(store, logger)
	api.Get("/logos", materialsController.Logos)

	authMiddleware := middleware.AuthMiddleware(logger)

	// Progress routes
	progressController := controllers.NewProgressController(svc, logger)
	progressGroup := api.Group("/progress", authMiddleware)
	progressGroup.Get("/", progressController.List)
	progressGroup.Post("/", progressController.Upsert)
	progressGroup.Get("/:id", progressController.Get)
	progressGroup.Put("/:id", progressController.Update)
	progressGroup.Delete("/:id", progressController.Delete)

	// Course player routes
	coursesController := controllers.NewCoursesController(store, cfg, logger)
	api.Get("/courses", authMiddleware, coursesController.ListCourses)
	api.Get("/courses/:id", authMiddleware, coursesController.GetCourse)
	api.Get("/quiz-sets/:id", authMiddleware, coursesController.GetQuizSet)

	// Sales materials library
	api.Get("/sales-materials", authMiddleware, materialsController.List)
}
