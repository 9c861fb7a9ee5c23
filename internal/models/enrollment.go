package models

import (
	"time"
)

type EnrollmentStatus string

const (
	// EnrollmentPaid is the only status the platform produces today.
	// The column exists so revenue queries can filter consistently once
	// a real payment flow lands.
	EnrollmentPaid EnrollmentStatus = "paid"
)

type Enrollment struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"studentId" gorm:"not null;uniqueIndex:idx_student_course"`
	CourseID  uint `json:"courseId" gorm:"not null;uniqueIndex:idx_student_course;index"`

	// Amount is the course price at enrollment time.
	Amount float64          `json:"amount" gorm:"not null"`
	Status EnrollmentStatus `json:"status" gorm:"not null;default:paid;size:20"`

	EnrolledAt time.Time `json:"enrolledAt" gorm:"not null;index"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Relations
	Student User   `json:"student" gorm:"foreignKey:StudentID"`
	Course  Course `json:"course" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
