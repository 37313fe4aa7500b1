package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnrollmentStatus values. An enrollment moves
// enrolled -> trainer_assigned -> {in_progress -> completed} | cancelled.
// cancelled and completed are terminal.
const (
	EnrollmentStatusEnrolled        = "enrolled"
	EnrollmentStatusTrainerAssigned = "trainer_assigned"
	EnrollmentStatusInProgress      = "in_progress"
	EnrollmentStatusCompleted       = "completed"
	EnrollmentStatusCancelled       = "cancelled"
)

// ActiveEnrollmentFilter is the SQL predicate for non-terminal enrollments.
const ActiveEnrollmentFilter = "status NOT IN ('cancelled','completed')"

// Enrollment is created by the verified payment callback and later picked up
// by trainer assignment. The partial unique index over (student_id, course_id)
// guarantees at most one non-terminal enrollment per student/course pair even
// under concurrent duplicate callback deliveries.
type Enrollment struct {
	gorm.Model
	StudentID        uint   `json:"studentId" gorm:"not null;uniqueIndex:idx_active_enrollment,where:status <> 'cancelled' AND status <> 'completed'"`
	CourseID         uint   `json:"courseId" gorm:"not null;uniqueIndex:idx_active_enrollment,where:status <> 'cancelled' AND status <> 'completed'"`
	SelectedOptionID *uint  `json:"selectedOptionId"`
	TrainerID        *uint  `json:"trainerId" gorm:"index"`
	StudentName      string `json:"studentName"`
	StudentEmail     string `json:"studentEmail"`

	Amount                float64        `json:"amount"`
	PaymentMethod         string         `json:"paymentMethod" gorm:"type:varchar(50);default:'payaid'"`
	ExternalTransactionID string         `json:"externalTransactionId" gorm:"type:varchar(100);index"`
	ExternalResponse      datatypes.JSON `json:"externalResponse"` // verified callback payload, kept for audit

	CourseStages datatypes.JSON `json:"courseStages"`
	Status       string         `json:"status" gorm:"type:varchar(30);default:'enrolled';index"`
	AssignedAt   *time.Time     `json:"assignedAt"`

	Student        User               `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course         Course             `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	SelectedOption *CoursePriceOption `gorm:"foreignKey:SelectedOptionID" json:"selectedOption,omitempty"`
	Trainer        *User              `gorm:"foreignKey:TrainerID" json:"trainer,omitempty"`
}

// IsTerminal reports whether the enrollment can no longer change state.
func (e *Enrollment) IsTerminal() bool {
	return e.Status == EnrollmentStatusCancelled || e.Status == EnrollmentStatusCompleted
}
