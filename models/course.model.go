package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	gorm.Model
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Stages      datatypes.JSON `json:"stages"` // stage template copied into each enrollment
	Status      string         `json:"status" gorm:"default:'ACTIVE'"`
	IsDeleted   bool           `gorm:"default:false"`
}

// CourseStage is one entry of a course's stage template. Enrollments carry
// their own copy so per-student completion and feedback can be tracked.
type CourseStage struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Feedback  string `json:"feedback"`
}
