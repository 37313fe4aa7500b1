package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent = "STUDENT"
	RoleTrainer = "TRAINER"
	RoleAdmin   = "ADMIN"
)

type User struct {
	gorm.Model
	ProfileImage string     `gorm:"default:''"`
	Name         string     `gorm:"default:''"`
	Email        string     `gorm:"unique;not null"`
	Mobile       string     `gorm:"default:''"`
	Role         string     `gorm:"default:'STUDENT'"` // STUDENT, TRAINER, ADMIN
	Password     string     `gorm:"not null"`
	Specialist   string     `gorm:"default:''"` // trainer specialization label
	Active       bool       `gorm:"default:true"`
	LastLogin    *time.Time `json:"last_login"`
	IsDeleted    bool       `gorm:"default:false"`
}
