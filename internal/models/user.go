package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;default:student;index"`

	// Profile info
	Phone           *string    `json:"phone,omitempty" gorm:"size:30"`
	DOB             *time.Time `json:"dob,omitempty"`
	AvatarURL       *string    `json:"avatarUrl,omitempty" gorm:"size:500"`
	Expertise       *string    `json:"expertise,omitempty" gorm:"size:200"`
	Headline        *string    `json:"headline,omitempty" gorm:"size:200"`
	Bio             *string    `json:"bio,omitempty" gorm:"type:text"`
	LinkedIn        *string    `json:"linkedin,omitempty" gorm:"size:500"`
	Website         *string    `json:"website,omitempty" gorm:"size:500"`
	ExperienceYears int        `json:"experienceYears" gorm:"default:0"`

	// Denormalized counters shown on instructor cards. Courses and
	// Students are recomputed from the catalog on read paths that need
	// accurate numbers; the stored values are display defaults only.
	Rating   float64 `json:"rating" gorm:"default:0"`
	Students int     `json:"students" gorm:"default:0"`
	Courses  int     `json:"courses" gorm:"default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
