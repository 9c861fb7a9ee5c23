package models

import (
	"time"

	"gorm.io/datatypes"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

func (l CourseLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// ScheduleEntry is a single live-session or assignment slot. Schedules
// are stored wholesale as JSONB; updates replace the full list.
type ScheduleEntry struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Course struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Title       string      `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string      `json:"description" gorm:"not null;type:text" validate:"required"`
	Category    string      `json:"category" gorm:"not null;size:100;index" validate:"required,max=100"`
	Level       CourseLevel `json:"level" gorm:"not null;size:20;index" validate:"required,oneof=Beginner Intermediate Advanced"`
	Price       float64     `json:"price" gorm:"not null;default:0" validate:"min=0"`
	Rating      float64     `json:"rating" gorm:"default:0"`

	// Denormalized enrollment counter, kept in lockstep with the
	// enrollments table inside the enroll/unenroll transaction.
	Enrollments int `json:"enrollments" gorm:"default:0"`

	InstructorID uint   `json:"instructorId" gorm:"not null;index"`
	Thumbnail    string `json:"thumbnail" gorm:"size:500;default:''"`

	ZoomLink          string         `json:"zoomLink" gorm:"size:500;default:''"`
	ClassroomLink     string         `json:"classroomLink" gorm:"size:500;default:''"`
	ZoomSchedule      datatypes.JSON `json:"zoomSchedule" gorm:"type:jsonb"`
	ClassroomSchedule datatypes.JSON `json:"classroomSchedule" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Instructor User     `json:"instructor" gorm:"foreignKey:InstructorID"`
	Lessons    []Lesson `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
}

type Lesson struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CourseID uint   `json:"courseId" gorm:"not null;index"`
	Title    string `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	VideoURL string `json:"videoUrl" gorm:"not null;size:500" validate:"required"`
	Duration string `json:"duration" gorm:"size:20"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Course) TableName() string {
	return "courses"
}

func (Lesson) TableName() string {
	return "lessons"
}
