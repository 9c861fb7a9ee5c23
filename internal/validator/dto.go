package validator

import (
	"time"

	"github.com/studenthub/marketplace-service/internal/models"
)

// RegisterRequest represents the request structure for account registration
type RegisterRequest struct {
	Name       string          `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email      string          `json:"email" form:"email" validate:"required,email"`
	Password   string          `json:"password" form:"password" validate:"required,min=6,max=72"`
	Role       models.UserRole `json:"role" form:"role" validate:"required,user_role"`
	InviteCode string          `json:"inviteCode" form:"inviteCode" validate:"omitempty,max=100"`

	// Instructor-only profile fields collected at signup
	Expertise       *string `json:"expertise" form:"expertise" validate:"omitempty,max=200"`
	ExperienceYears *int    `json:"experience" form:"experience" validate:"omitempty,gte=0,lte=80"`
	Headline        *string `json:"headline" form:"headline" validate:"omitempty,max=200"`
	Bio             *string `json:"bio" form:"bio" validate:"omitempty,max=2000"`
}

// LoginRequest represents the request structure for signing in
type LoginRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required"`
	Role     models.UserRole `json:"role" validate:"omitempty,user_role"`
}

// UpdateProfileRequest represents the request structure for profile edits
type UpdateProfileRequest struct {
	Name            *string    `json:"name" form:"name" validate:"omitempty,min=2,max=100"`
	Email           *string    `json:"email" form:"email" validate:"omitempty,email"`
	Phone           *string    `json:"phone" form:"phone" validate:"omitempty,max=30"`
	DOB             *time.Time `json:"dob" form:"dob"`
	Expertise       *string    `json:"expertise" form:"expertise" validate:"omitempty,max=200"`
	ExperienceYears *int       `json:"experience" form:"experience" validate:"omitempty,gte=0,lte=80"`
	Headline        *string    `json:"headline" form:"headline" validate:"omitempty,max=200"`
	Bio             *string    `json:"bio" form:"bio" validate:"omitempty,max=2000"`
	LinkedIn        *string    `json:"linkedin" form:"linkedin" validate:"omitempty,url"`
	Website         *string    `json:"website" form:"website" validate:"omitempty,url"`
}

// ChangePasswordRequest represents the request structure for password changes
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

// ScheduleEntryRequest represents one live-session slot attached to a course
type ScheduleEntryRequest struct {
	Title string    `json:"title" validate:"required,max=200"`
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

// LessonRequest represents recorded lesson metadata on a course
type LessonRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	VideoURL string `json:"videoUrl" validate:"required,url"`
	Duration string `json:"duration" validate:"omitempty,max=20"`
}

// CourseCreateRequest represents the request structure for creating courses
type CourseCreateRequest struct {
	Title             string                 `json:"title" form:"title" validate:"required,min=3,max=200"`
	Description       string                 `json:"description" form:"description" validate:"required,max=5000"`
	Category          string                 `json:"category" form:"category" validate:"required,max=100"`
	Level             models.CourseLevel     `json:"level" form:"level" validate:"required,course_level"`
	Price             float64                `json:"price" form:"price" validate:"course_price"`
	ZoomLink          *string                `json:"zoomLink" form:"zoomLink" validate:"omitempty,url"`
	ClassroomLink     *string                `json:"classroomLink" form:"classroomLink" validate:"omitempty,url"`
	ZoomSchedule      []ScheduleEntryRequest `json:"zoomSchedule" validate:"omitempty,dive"`
	ClassroomSchedule []ScheduleEntryRequest `json:"classroomSchedule" validate:"omitempty,dive"`
	Lessons           []LessonRequest        `json:"lessons" validate:"omitempty,dive"`
}

// CourseUpdateRequest represents the request structure for updating courses
type CourseUpdateRequest struct {
	Title             *string                `json:"title" form:"title" validate:"omitempty,min=3,max=200"`
	Description       *string                `json:"description" form:"description" validate:"omitempty,max=5000"`
	Category          *string                `json:"category" form:"category" validate:"omitempty,max=100"`
	Level             *models.CourseLevel    `json:"level" form:"level" validate:"omitempty,course_level"`
	Price             *float64               `json:"price" form:"price" validate:"omitempty,course_price"`
	ZoomLink          *string                `json:"zoomLink" form:"zoomLink" validate:"omitempty,url"`
	ClassroomLink     *string                `json:"classroomLink" form:"classroomLink" validate:"omitempty,url"`
	ZoomSchedule      []ScheduleEntryRequest `json:"zoomSchedule" validate:"omitempty,dive"`
	ClassroomSchedule []ScheduleEntryRequest `json:"classroomSchedule" validate:"omitempty,dive"`
	Lessons           []LessonRequest        `json:"lessons" validate:"omitempty,dive"`
}

// AdminUserUpdateRequest represents the request structure for admin user edits
type AdminUserUpdateRequest struct {
	Name  *string          `json:"name" validate:"omitempty,min=2,max=100"`
	Email *string          `json:"email" validate:"omitempty,email"`
	Role  *models.UserRole `json:"role" validate:"omitempty,user_role"`
}

// SettingsUpdateRequest represents the request structure for platform settings
type SettingsUpdateRequest struct {
	PlatformName    *string       `json:"platformName" validate:"omitempty,min=1,max=100"`
	MaintenanceMode *bool         `json:"maintenanceMode"`
	Theme           *models.Theme `json:"theme" validate:"omitempty,theme"`
	SMTPHost        *string       `json:"smtpHost" validate:"omitempty,max=255"`
	SMTPPort        *string       `json:"smtpPort" validate:"omitempty,max=10"`
	EmailFrom       *string       `json:"emailFrom" validate:"omitempty,email"`
	Notifications   *bool         `json:"notifications"`
	SocialFacebook  *string       `json:"facebook" validate:"omitempty,url"`
	SocialTwitter   *string       `json:"twitter" validate:"omitempty,url"`
	SocialInstagram *string       `json:"instagram" validate:"omitempty,url"`
	SocialLinkedIn  *string       `json:"linkedin" validate:"omitempty,url"`
}

// SubscribeRequest represents the request structure for newsletter signup
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}
