package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, s.Validate())
	assert.True(t, s.Notifications.Email)
	assert.Equal(t, "light", s.Display.Theme)
	assert.Equal(t, 30, s.System.AutoLogout)
	assert.Equal(t, 60, s.System.SessionTimeout)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults valid", func(s *Settings) {}, false},
		{"dark theme valid", func(s *Settings) { s.Display.Theme = "dark" }, false},
		{"system theme valid", func(s *Settings) { s.Display.Theme = "system" }, false},
		{"bad theme", func(s *Settings) { s.Display.Theme = "neon" }, true},
		{"auto logout too low", func(s *Settings) { s.System.AutoLogout = 0 }, true},
		{"auto logout too high", func(s *Settings) { s.System.AutoLogout = 121 }, true},
		{"auto logout boundary", func(s *Settings) { s.System.AutoLogout = 120 }, false},
		{"session timeout too low", func(s *Settings) { s.System.SessionTimeout = 0 }, true},
		{"session timeout too high", func(s *Settings) { s.System.SessionTimeout = 241 }, true},
		{"session timeout boundary", func(s *Settings) { s.System.SessionTimeout = 240 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
