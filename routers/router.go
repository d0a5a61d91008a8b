package routers

import (
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/controllers"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/middlewares"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/session"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes mounts the browser-facing API. limiterStorage backs the login
// throttle and may be nil.
func SetupRoutes(app *fiber.App, h *controllers.Handlers, store *session.Store, limiterStorage fiber.Storage) {
	app.Get("/health", h.Health)

	app.Use(middlewares.Session(store))

	courseOwners := middlewares.RequireRoles(models.CourseOwners...)
	userManagers := middlewares.RequireRoles(models.UserManagers...)

	//Auth
	auth := app.Group("/auth")
	auth.Post("/login", middlewares.LoginRateLimiter(limiterStorage), h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", middlewares.Protected(), h.Me)
	auth.Get("/google", h.GoogleLogin)
	auth.Get("/azure", h.AzureLogin)
	auth.Get("/callback", h.AuthCallback)

	app.Get("/navigation", h.Navigation)

	courses := app.Group("/courses", middlewares.Protected())
	courses.Get("/", h.ListCourses)
	courses.Post("/", courseOwners, h.CreateCourse)
	courses.Get("/own", courseOwners, h.OwnCourses)
	courses.Get("/:id", h.GetCourse)
	courses.Patch("/:id", courseOwners, h.UpdateCourse)
	courses.Delete("/:id", courseOwners, h.DeleteCourse)
	courses.Get("/:id/manage", courseOwners, h.ManageCourse)
	courses.Get("/:id/questions", courseOwners, h.GetQuestions)
	courses.Put("/:id/questions", courseOwners, h.ReplaceQuestions)

	examGroup := courses.Group("/:id/exam")
	examGroup.Get("/", h.LoadExam)
	examGroup.Put("/answers/:question", h.SelectAnswer)
	examGroup.Post("/reset", h.ResetExam)
	examGroup.Post("/submit", h.SubmitExam)
	examGroup.Post("/close", h.CloseExam)
	examGroup.Get("/certificate", h.DownloadCertificate)

	users := app.Group("/users", middlewares.Protected(), userManagers)
	users.Get("/", h.GetAllUsers)
	users.Post("/", h.AddUser)
	users.Put("/:id/role", h.UpdateUserRole)
	users.Delete("/:id", h.DeleteUser)

	activities := app.Group("/activities", middlewares.Protected())
	activities.Get("/", userManagers, h.ListActivities)
	activities.Get("/export", userManagers, h.ExportActivities)
	activities.Post("/", h.LogActivity)

	admin := app.Group("/admin", middlewares.Protected(), middlewares.RequireRoles(models.RoleSuperAdmin))
	admin.Post("/backup", h.TriggerBackup)

	app.Use(middlewares.NotFound)
}
