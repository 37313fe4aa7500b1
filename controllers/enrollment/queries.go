package controllers

import (
	"encoding/json"
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/enrollment"
	"math"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetTrainerStudents returns the acting trainer's assigned enrollments.
func GetTrainerStudents(c *fiber.Ctx) error {
	trainer, ok := c.Locals("actingUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []models.Enrollment
	if err := database.Database.Db.
		Where("trainer_id = ?", trainer.ID).
		Preload("Student").Preload("Course").Preload("SelectedOption").
		Order("assigned_at desc").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assigned students!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assigned students retrieved!", fiber.Map{
		"count":       len(enrollments),
		"enrollments": enrollments,
	})
}

// GetStudentEnrollments returns the acting student's enrollments with course
// and trainer details.
func GetStudentEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []models.Enrollment
	if err := database.Database.Db.
		Where("student_id = ?", userID).
		Preload("Course").Preload("SelectedOption").Preload("Trainer").
		Order("created_at desc").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	if len(enrollments) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No enrollments found for this student.", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}

// GetStudentTrainer returns trainer info for one enrollment owned by the
// acting student.
func GetStudentTrainer(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID, err := c.ParamsInt("id")
	if err != nil || enrollmentID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment ID!", nil)
	}

	var enrollment models.Enrollment
	if err := database.Database.Db.
		Where("id = ? AND student_id = ?", enrollmentID, userID).
		Preload("Trainer").Preload("Course").
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found or access denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trainer information retrieved!", fiber.Map{
		"enrollment": enrollment,
		"trainer":    enrollment.Trainer,
	})
}

// GetAllEnrollments lists every enrollment (Admin only).
func GetAllEnrollments(c *fiber.Ctx) error {
	var enrollments []models.Enrollment
	if err := database.Database.Db.
		Preload("Student").Preload("Course").Preload("SelectedOption").Preload("Trainer").
		Order("created_at desc").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}

// GetEnrollmentByID returns a single enrollment with its relations (Admin only).
func GetEnrollmentByID(c *fiber.Ctx) error {
	enrollmentID, err := c.ParamsInt("id")
	if err != nil || enrollmentID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment ID!", nil)
	}

	var enrollment models.Enrollment
	if err := database.Database.Db.
		Preload("Student").Preload("Course").Preload("SelectedOption").Preload("Trainer").
		First(&enrollment, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", enrollment)
}

// UpdateProgress updates completion/feedback of a single course stage.
func UpdateProgress(c *fiber.Ctx) error {
	enrollmentID, err := c.ParamsInt("id")
	if err != nil || enrollmentID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment ID!", nil)
	}

	reqData, ok := c.Locals("validatedUpdateProgress").(*validators.UpdateProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.First(&enrollment, enrollmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	var stages []models.CourseStage
	if len(enrollment.CourseStages) > 0 {
		if err := json.Unmarshal(enrollment.CourseStages, &stages); err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Corrupt stage data!", nil)
		}
	}

	found := false
	for i := range stages {
		if stages[i].ID == reqData.StageID {
			stages[i].Completed = reqData.Completed
			stages[i].Feedback = reqData.Feedback
			found = true
		}
	}
	if !found {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Stage not found!", nil)
	}

	updated, err := json.Marshal(stages)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	if err := db.Model(&enrollment).Update("course_stages", datatypes.JSON(updated)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated!", fiber.Map{
		"stages": stages,
	})
}

// GetAllPayments returns a paginated payment report built from enrollments
// (Admin only).
func GetAllPayments(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	offset := (page - 1) * limit
	db := database.Database.Db

	var total int64
	db.Model(&models.Enrollment{}).Count(&total)

	var enrollments []models.Enrollment
	if err := db.
		Preload("Student").
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error fetching payments!", nil)
	}

	var totalAmount float64
	db.Model(&models.Enrollment{}).Select("COALESCE(SUM(amount), 0)").Scan(&totalAmount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", fiber.Map{
		"pagination": fiber.Map{
			"totalCount":  total,
			"currentPage": page,
			"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
			"limit":       limit,
		},
		"totals": fiber.Map{
			"totalAmount": totalAmount,
		},
		"data": enrollments,
	})
}

// GetTrainerReport returns per-trainer handled-student counts (Admin only).
func GetTrainerReport(c *fiber.Ctx) error {
	db := database.Database.Db

	var trainers []models.User
	if err := db.Where("role = ? AND is_deleted = false", models.RoleTrainer).
		Find(&trainers).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch trainer report!", nil)
	}

	type countRow struct {
		TrainerID uint
		Students  int64
	}
	var counts []countRow
	db.Model(&models.Enrollment{}).
		Select("trainer_id, COUNT(DISTINCT student_id) AS students").
		Where("trainer_id IS NOT NULL").
		Group("trainer_id").
		Scan(&counts)

	countMap := make(map[uint]int64, len(counts))
	for _, row := range counts {
		countMap[row.TrainerID] = row.Students
	}

	type trainerReport struct {
		TrainerID       uint   `json:"trainerId"`
		TrainerName     string `json:"trainerName"`
		TrainerEmail    string `json:"trainerEmail"`
		StudentsHandled int64  `json:"studentsHandled"`
	}

	reports := make([]trainerReport, 0, len(trainers))
	for _, trainer := range trainers {
		reports = append(reports, trainerReport{
			TrainerID:       trainer.ID,
			TrainerName:     trainer.Name,
			TrainerEmail:    trainer.Email,
			StudentsHandled: countMap[trainer.ID],
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trainer report fetched successfully!", fiber.Map{
		"count": len(reports),
		"data":  reports,
	})
}
