package models

import "gorm.io/gorm"

// CoursePriceOption is an optional pricing tier a student can pick when
// paying for a course (e.g. number of sessions per week).
type CoursePriceOption struct {
	gorm.Model
	CourseID  uint    `json:"course_id" gorm:"index;not null"`
	Label     string  `json:"label"`
	Price     float64 `json:"price"`
	IsDeleted bool    `gorm:"default:false"`

	Course Course `gorm:"foreignKey:CourseID" json:"-"`
}
