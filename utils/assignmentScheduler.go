package utils

import (
	"fmt"
	"lms/database"
	"lms/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeAssignmentScheduler sets up the pending-assignment reminder job
func InitializeAssignmentScheduler() {
	log.Println("[ASSIGNMENT-SCHEDULER] Initializing assignment scheduler...")

	c := cron.New()

	// Run daily at 9 AM to flag enrollments still waiting for a trainer
	c.AddFunc("0 9 * * *", func() {
		log.Println("[ASSIGNMENT-SCHEDULER] Running daily pending assignment check...")
		ProcessStalePendingAssignments()
	})

	c.Start()
	log.Println("[ASSIGNMENT-SCHEDULER] Assignment scheduler started - runs daily at 9 AM")
}

// ProcessStalePendingAssignments notifies admins about enrollments that have
// been unassigned for more than 48 hours.
func ProcessStalePendingAssignments() {
	db := database.Database.Db
	cutoff := time.Now().Add(-48 * time.Hour)

	var stale []models.Enrollment
	if err := db.
		Where("trainer_id IS NULL AND status = ? AND created_at < ?", models.EnrollmentStatusEnrolled, cutoff).
		Preload("Course").
		Order("created_at asc").
		Find(&stale).Error; err != nil {
		log.Printf("[ASSIGNMENT-SCHEDULER] Error fetching stale enrollments: %v", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	log.Printf("[ASSIGNMENT-SCHEDULER] Found %d enrollments pending trainer assignment for over 48h", len(stale))

	var admins []models.User
	if err := db.Where("role = ? AND is_deleted = false", models.RoleAdmin).Find(&admins).Error; err != nil {
		log.Printf("[ASSIGNMENT-SCHEDULER] Error fetching admins: %v", err)
		return
	}

	for _, enrollment := range stale {
		content := fmt.Sprintf(
			"Enrollment #%d (%s, course %q) has been waiting for a trainer since %s.",
			enrollment.ID, enrollment.StudentName, enrollment.Course.Title,
			enrollment.CreatedAt.Format("January 2, 2006"),
		)

		for _, admin := range admins {
			message := models.Message{
				SenderID:    admin.ID,
				ReceiverID:  admin.ID,
				Content:     content,
				MessageType: models.MessageTypeSystem,
			}
			if err := db.Create(&message).Error; err != nil {
				log.Printf("[ASSIGNMENT-SCHEDULER] Could not create reminder for admin %d: %v", admin.ID, err)
			}
		}
	}
}
