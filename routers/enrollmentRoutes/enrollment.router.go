package enrollmentRoutes

import (
	controllers "lms/controllers/enrollment"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes wires enrollment management and reporting routes
func SetupEnrollmentRoutes(app *fiber.App) {
	group := app.Group("/enrollment", middleware.JWTMiddleware)

	// Admin: trainer assignment and oversight
	group.Post("/assign-trainer", middleware.RequireRole(models.RoleAdmin), validators.AssignTrainer(), controllers.AssignTrainer)
	group.Get("/pending-assignments", middleware.RequireRole(models.RoleAdmin), controllers.GetPendingAssignments)
	group.Get("/available-trainers", middleware.RequireRole(models.RoleAdmin), controllers.GetAvailableTrainers)
	group.Get("/trainer-report", middleware.RequireRole(models.RoleAdmin), controllers.GetTrainerReport)
	group.Get("/payments", middleware.RequireRole(models.RoleAdmin), controllers.GetAllPayments)
	group.Get("/list", middleware.RequireRole(models.RoleAdmin), controllers.GetAllEnrollments)

	// Trainer: assigned students
	group.Get("/trainer/students", middleware.RequireRole(models.RoleTrainer), controllers.GetTrainerStudents)

	// Student: own enrollments and trainer info
	group.Get("/student/enrollments", controllers.GetStudentEnrollments)
	group.Get("/student/enrollment/:id/trainer", controllers.GetStudentTrainer)

	// Stage progress (trainer or admin)
	group.Put("/:id/progress", middleware.RequireRole(models.RoleTrainer, models.RoleAdmin), validators.UpdateProgress(), controllers.UpdateProgress)

	// Single enrollment detail (admin); keep after the specific routes
	group.Get("/:id", middleware.RequireRole(models.RoleAdmin), controllers.GetEnrollmentByID)
}
