package validator

import (
	"strings"

	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateRegister validates registration business rules
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if strings.TrimSpace(req.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "must not be blank",
			Rule:    "not_blank",
		})
	}

	return errors
}

// ValidateCourseCreate validates course creation business rules
func (bv *BusinessValidator) ValidateCourseCreate(req *CourseCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, validateSchedules(req.ZoomSchedule, "zoomSchedule")...)
	errors = append(errors, validateSchedules(req.ClassroomSchedule, "classroomSchedule")...)

	return errors
}

// ValidateCourseUpdate validates course update business rules
func (bv *BusinessValidator) ValidateCourseUpdate(req *CourseUpdateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, validateSchedules(req.ZoomSchedule, "zoomSchedule")...)
	errors = append(errors, validateSchedules(req.ClassroomSchedule, "classroomSchedule")...)

	return errors
}

// validateSchedules checks that every live-session slot ends after it starts.
func validateSchedules(entries []ScheduleEntryRequest, field string) ValidationErrors {
	var errors ValidationErrors
	for _, entry := range entries {
		if !entry.End.After(entry.Start) {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: "session end must be after its start",
				Value:   entry.Title,
				Rule:    "schedule_window",
			})
		}
	}
	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})

	bv.validate.RegisterValidation("course_level", func(fl validator.FieldLevel) bool {
		return models.CourseLevel(fl.Field().String()).Valid()
	})

	bv.validate.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		theme := models.Theme(fl.Field().String())
		return theme == models.ThemeLight || theme == models.ThemeDark
	})

	bv.validate.RegisterValidation("course_price", func(fl validator.FieldLevel) bool {
		return fl.Field().Float() >= 0
	})
}
