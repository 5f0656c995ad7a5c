package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/harborops/portfleet/internal/models"
)

// MockSettingsStore is a mock implementation of SettingsStore
type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) SaveSettings(ctx context.Context, settings models.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsStore) LoadSettings(ctx context.Context) (models.Settings, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Settings), args.Bool(1), args.Error(2)
}

func TestSettingsHandler_Get(t *testing.T) {
	t.Run("defaults when nothing persisted", func(t *testing.T) {
		store := new(MockSettingsStore)
		store.On("LoadSettings", mock.Anything).Return(models.Settings{}, false, nil)
		handler := NewSettingsHandler(store)

		req := httptest.NewRequest("GET", "/api/settings", nil)
		w := httptest.NewRecorder()

		handler.Settings(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var settings models.Settings
		if err := json.Unmarshal(w.Body.Bytes(), &settings); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.Equal(t, models.DefaultSettings(), settings)
		store.AssertExpectations(t)
	})

	t.Run("persisted settings returned as-is", func(t *testing.T) {
		saved := models.DefaultSettings()
		saved.Display.Theme = "dark"
		store := new(MockSettingsStore)
		store.On("LoadSettings", mock.Anything).Return(saved, true, nil)
		handler := NewSettingsHandler(store)

		req := httptest.NewRequest("GET", "/api/settings", nil)
		w := httptest.NewRecorder()

		handler.Settings(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var settings models.Settings
		if err := json.Unmarshal(w.Body.Bytes(), &settings); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.Equal(t, "dark", settings.Display.Theme)
		store.AssertExpectations(t)
	})
}

func TestSettingsHandler_Save(t *testing.T) {
	t.Run("valid settings persisted", func(t *testing.T) {
		store := new(MockSettingsStore)
		store.On("SaveSettings", mock.Anything, mock.AnythingOfType("models.Settings")).Return(nil)
		handler := NewSettingsHandler(store)

		settings := models.DefaultSettings()
		settings.System.AutoLogout = 15
		body, _ := json.Marshal(settings)
		req := httptest.NewRequest("PUT", "/api/settings", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Settings(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("invalid theme rejected", func(t *testing.T) {
		store := new(MockSettingsStore)
		handler := NewSettingsHandler(store)

		settings := models.DefaultSettings()
		settings.Display.Theme = "sepia"
		body, _ := json.Marshal(settings)
		req := httptest.NewRequest("PUT", "/api/settings", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Settings(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		store.AssertNotCalled(t, "SaveSettings", mock.Anything, mock.Anything)
	})

	t.Run("out of range timeout rejected", func(t *testing.T) {
		store := new(MockSettingsStore)
		handler := NewSettingsHandler(store)

		settings := models.DefaultSettings()
		settings.System.SessionTimeout = 500
		body, _ := json.Marshal(settings)
		req := httptest.NewRequest("PUT", "/api/settings", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Settings(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
