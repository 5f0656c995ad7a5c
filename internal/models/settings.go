package models

import (
	"errors"
)

// NotificationSettings toggles per-channel notifications.
type NotificationSettings struct {
	Email       bool `json:"email" bson:"email"`
	Browser     bool `json:"browser" bson:"browser"`
	Maintenance bool `json:"maintenance" bson:"maintenance"`
	Documents   bool `json:"documents" bson:"documents"`
}

// DisplaySettings holds presentation preferences.
type DisplaySettings struct {
	Theme    string `json:"theme" bson:"theme"` // "light", "dark" or "system"
	Language string `json:"language" bson:"language"`
	Timezone string `json:"timezone" bson:"timezone"`
}

// SystemSettings holds session behavior, both values in minutes.
type SystemSettings struct {
	AutoLogout     int `json:"auto_logout" bson:"auto_logout"`
	SessionTimeout int `json:"session_timeout" bson:"session_timeout"`
}

// Settings is the persisted user configuration blob.
type Settings struct {
	Notifications NotificationSettings `json:"notifications" bson:"notifications"`
	Display       DisplaySettings      `json:"display" bson:"display"`
	System        SystemSettings       `json:"system" bson:"system"`
}

// DefaultSettings returns the configuration used when nothing is persisted.
func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{
			Email:       true,
			Browser:     true,
			Maintenance: true,
			Documents:   true,
		},
		Display: DisplaySettings{
			Theme:    "light",
			Language: "en",
			Timezone: "UTC",
		},
		System: SystemSettings{
			AutoLogout:     30,
			SessionTimeout: 60,
		},
	}
}

// Validate checks the settings against their allowed ranges.
func (s *Settings) Validate() error {
	switch s.Display.Theme {
	case "light", "dark", "system":
	default:
		return errors.New("theme must be light, dark or system")
	}
	if s.System.AutoLogout < 1 || s.System.AutoLogout > 120 {
		return errors.New("auto logout must be between 1 and 120 minutes")
	}
	if s.System.SessionTimeout < 1 || s.System.SessionTimeout > 240 {
		return errors.New("session timeout must be between 1 and 240 minutes")
	}
	return nil
}
