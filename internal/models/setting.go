package models

import (
	"time"
)

const SettingsRowID uint = 1

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Setting is the platform-wide configuration singleton. Exactly one row
// (ID = SettingsRowID) exists; it is created lazily on first access.
type Setting struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	PlatformName    string `json:"platformName" gorm:"size:100;default:StudentHub"`
	MaintenanceMode bool   `json:"maintenanceMode" gorm:"default:false"`
	Theme           Theme  `json:"theme" gorm:"size:10;default:light" validate:"omitempty,oneof=light dark"`

	SMTPHost      string `json:"smtpHost" gorm:"size:255;default:''"`
	SMTPPort      string `json:"smtpPort" gorm:"size:10;default:''"`
	EmailFrom     string `json:"emailFrom" gorm:"size:255;default:''" validate:"omitempty,email"`
	Notifications bool   `json:"notifications" gorm:"default:true"`

	SocialFacebook  string `json:"-" gorm:"size:500;default:''"`
	SocialTwitter   string `json:"-" gorm:"size:500;default:''"`
	SocialInstagram string `json:"-" gorm:"size:500;default:''"`
	SocialLinkedIn  string `json:"-" gorm:"size:500;default:''"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Subscribers []Subscriber `json:"subscribers,omitempty" gorm:"foreignKey:SettingID"`
}

// SocialLinks is the JSON shape the SPA expects for the social block.
type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	LinkedIn  string `json:"linkedin"`
}

func (s *Setting) Social() SocialLinks {
	return SocialLinks{
		Facebook:  s.SocialFacebook,
		Twitter:   s.SocialTwitter,
		Instagram: s.SocialInstagram,
		LinkedIn:  s.SocialLinkedIn,
	}
}

type Subscriber struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SettingID uint   `json:"-" gorm:"not null;index"`
	Email     string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Setting) TableName() string {
	return "settings"
}

func (Subscriber) TableName() string {
	return "subscribers"
}
