package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/enrollment"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AssignTrainer attaches a trainer to an enrollment. The transition is only
// valid from "enrolled"; an already-assigned or terminal enrollment answers
// 409 instead of being silently overwritten. Notifications are dispatched
// after the transition commits and never roll it back.
func AssignTrainer(c *fiber.Ctx) error {
	admin, ok := c.Locals("actingUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedAssignTrainer").(*validators.AssignTrainerRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Preload("Student").Preload("Course").
		First(&enrollment, reqData.EnrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollment!", nil)
	}

	var trainer models.User
	if err := db.Where("id = ? AND role = ? AND is_deleted = false",
		reqData.TrainerID, models.RoleTrainer).First(&trainer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trainer not found or has an invalid role!", nil)
	}

	now := time.Now()

	// The status predicate makes the transition atomic: a concurrent assign
	// that committed first leaves zero rows here instead of being overwritten.
	result := db.Model(&models.Enrollment{}).
		Where("id = ? AND status = ?", enrollment.ID, models.EnrollmentStatusEnrolled).
		Updates(map[string]interface{}{
			"trainer_id":  trainer.ID,
			"status":      models.EnrollmentStatusTrainerAssigned,
			"assigned_at": now,
		})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign trainer!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Enrollment already has a trainer or is closed!", nil)
	}

	enrollment.TrainerID = &trainer.ID
	enrollment.Status = models.EnrollmentStatusTrainerAssigned
	enrollment.AssignedAt = &now

	dispatchAssignmentNotifications(db, admin.ID, &enrollment, &trainer)

	specialist := trainer.Specialist
	if specialist == "" {
		specialist = "General"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trainer "+trainer.Name+" assigned successfully!", fiber.Map{
		"enrollment": enrollment,
		"trainer": fiber.Map{
			"id":         trainer.ID,
			"name":       trainer.Name,
			"email":      trainer.Email,
			"specialist": specialist,
		},
	})
}

// GetPendingAssignments lists enrollments still waiting for a trainer, oldest
// first (Admin only).
func GetPendingAssignments(c *fiber.Ctx) error {
	db := database.Database.Db

	var pending []models.Enrollment
	if err := db.
		Where("trainer_id IS NULL AND status = ?", models.EnrollmentStatusEnrolled).
		Preload("Student").Preload("Course").Preload("SelectedOption").
		Order("created_at asc").
		Find(&pending).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending assignments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending trainer assignments retrieved!", fiber.Map{
		"count":       len(pending),
		"enrollments": pending,
	})
}

// GetAvailableTrainers lists active trainers with their current workload
// (Admin only).
func GetAvailableTrainers(c *fiber.Ctx) error {
	db := database.Database.Db

	var trainers []models.User
	if err := db.Where("role = ? AND active = true AND is_deleted = false", models.RoleTrainer).
		Find(&trainers).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch trainers!", nil)
	}

	type trainerStats struct {
		ID                uint   `json:"id"`
		Name              string `json:"name"`
		Email             string `json:"email"`
		Specialist        string `json:"specialist"`
		ActiveEnrollments int64  `json:"activeEnrollments"`
	}

	stats := make([]trainerStats, 0, len(trainers))
	for _, trainer := range trainers {
		var active int64
		db.Model(&models.Enrollment{}).
			Where("trainer_id = ?", trainer.ID).
			Where(models.ActiveEnrollmentFilter).
			Count(&active)

		specialist := trainer.Specialist
		if specialist == "" {
			specialist = "General"
		}

		stats = append(stats, trainerStats{
			ID:                trainer.ID,
			Name:              trainer.Name,
			Email:             trainer.Email,
			Specialist:        specialist,
			ActiveEnrollments: active,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Available trainers retrieved successfully!", fiber.Map{
		"count":    len(stats),
		"trainers": stats,
	})
}
