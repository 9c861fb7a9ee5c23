package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	SourceService = "marketplace-service"
	EventVersion  = "1.0"
)

// Event types published by the marketplace.
const (
	TypeUserRegistered    = "user.registered"
	TypeCourseCreated     = "course.created"
	TypeCourseDeleted     = "course.deleted"
	TypeEnrollmentCreated = "enrollment.created"
	TypeEnrollmentDeleted = "enrollment.deleted"
)

// Event is the envelope every domain event is published in.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    SourceService,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ===== EVENT PAYLOADS =====

type UserRegisteredEvent struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type CourseEvent struct {
	CourseID     uint    `json:"course_id"`
	Title        string  `json:"title"`
	InstructorID uint    `json:"instructor_id"`
	Price        float64 `json:"price"`
}

type EnrollmentEvent struct {
	EnrollmentID uint    `json:"enrollment_id"`
	StudentID    uint    `json:"student_id"`
	CourseID     uint    `json:"course_id"`
	Amount       float64 `json:"amount"`
}
