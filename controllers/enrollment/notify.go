package controllers

import (
	"fmt"
	"lms/models"
	"lms/socket"
	"lms/utils"
	"log"

	"gorm.io/gorm"
)

// createSystemMessage persists one notification row. Failures are logged and
// swallowed so a broken notification never affects the state change that
// triggered it.
func createSystemMessage(db *gorm.DB, senderID, receiverID uint, content string) {
	message := models.Message{
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Content:     content,
		MessageType: models.MessageTypeSystem,
	}
	if err := db.Create(&message).Error; err != nil {
		log.Printf("[NOTIFY] Could not create message for user %d: %v", receiverID, err)
	}
}

// dispatchAssignmentNotifications notifies student and trainer about a
// committed assignment. Each channel (message row, realtime push, email) is
// isolated: any one of them failing must not abort the others.
func dispatchAssignmentNotifications(db *gorm.DB, adminID uint, enrollment *models.Enrollment, trainer *models.User) {
	studentName := enrollment.StudentName
	if studentName == "" {
		studentName = "Student"
	}
	courseTitle := enrollment.Course.Title
	if courseTitle == "" {
		courseTitle = "the course"
	}

	createSystemMessage(db, adminID, enrollment.StudentID, fmt.Sprintf(
		"Hello %s! Your trainer %s has been assigned for the course %q. You can now start scheduling classes.",
		studentName, trainer.Name, courseTitle,
	))

	createSystemMessage(db, adminID, trainer.ID, fmt.Sprintf(
		"You have been assigned a new student: %s for the course %q. Please reach out to them to begin their training journey.",
		studentName, courseTitle,
	))

	// Realtime pushes are at-most-once; absent connections are fine.
	socket.PushIfConnected(enrollment.StudentID, map[string]interface{}{
		"type":        "trainer_assigned",
		"trainerId":   trainer.ID,
		"trainerName": trainer.Name,
	})
	socket.PushIfConnected(trainer.ID, map[string]interface{}{
		"type":        "student_assigned",
		"studentId":   enrollment.StudentID,
		"studentName": studentName,
	})

	go utils.SendTrainerAssignedEmail(enrollment.StudentEmail, studentName, trainer.Name, courseTitle)
	go utils.SendStudentAssignedEmail(trainer.Email, trainer.Name, studentName, courseTitle)
}
