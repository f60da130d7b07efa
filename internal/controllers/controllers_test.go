package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"healthassistant/internal/generation"
	"healthassistant/internal/knowledge"
	"healthassistant/internal/models"
	"healthassistant/internal/services"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestPostMessage(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	given := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockMessageHandler)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "reply with server time",
			body: `{"user_id":"U1","text":"I had noodles"}`,
			setupMock: func(m *MockMessageHandler) {
				m.On("HandleMessage", mock.Anything, "U1", "I had noodles", fixed).
					Return(&models.ReplyPayload{UserID: "U1", Intent: models.IntentDiet, Text: "saved"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "Reply generated successfully",
		},
		{
			name: "reply with client timestamp",
			body: `{"user_id":"U1","text":"slept 8h","timestamp":"2024-05-01T08:30:00Z"}`,
			setupMock: func(m *MockMessageHandler) {
				m.On("HandleMessage", mock.Anything, "U1", "slept 8h", mock.MatchedBy(func(ts time.Time) bool {
					return ts.Equal(given)
				})).Return(&models.ReplyPayload{UserID: "U1", Intent: models.IntentSleep}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "Reply generated successfully",
		},
		{
			name:           "missing text",
			body:           `{"user_id":"U1"}`,
			setupMock:      func(m *MockMessageHandler) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request data",
		},
		{
			name:           "malformed json",
			body:           `{"user_id":`,
			setupMock:      func(m *MockMessageHandler) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request data",
		},
		{
			name: "blank user",
			body: `{"user_id":" ","text":"hi"}`,
			setupMock: func(m *MockMessageHandler) {
				m.On("HandleMessage", mock.Anything, " ", "hi", fixed).Return(nil, services.ErrMissingUser)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request data",
		},
		{
			name: "handler failure",
			body: `{"user_id":"U1","text":"hi"}`,
			setupMock: func(m *MockMessageHandler) {
				m.On("HandleMessage", mock.Anything, "U1", "hi", fixed).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Failed to handle message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := new(MockMessageHandler)
			tt.setupMock(handler)
			controller := NewMessageController(handler)
			controller.now = func() time.Time { return fixed }

			router := setupTestRouter()
			router.POST("/messages", controller.PostMessage)

			req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, decode(t, w)["message"], tt.expectedMsg)
			handler.AssertExpectations(t)
		})
	}
}

func TestGetWeeklyReport(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2024, 5, 3, 9, 0, 0, 0, loc)

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockWeeklyReporter)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "defaults to today",
			url:  "/reports/weekly/U1",
			setupMock: func(m *MockWeeklyReporter) {
				m.On("WeeklyReport", mock.Anything, "U1", now).
					Return(&models.WeeklyReport{UserID: "U1", From: "2024-04-27", To: "2024-05-03"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "Weekly report generated successfully",
		},
		{
			name: "explicit end date",
			url:  "/reports/weekly/U1?to=2024-05-01",
			setupMock: func(m *MockWeeklyReporter) {
				m.On("WeeklyReport", mock.Anything, "U1", time.Date(2024, 5, 1, 0, 0, 0, 0, loc)).
					Return(&models.WeeklyReport{UserID: "U1", To: "2024-05-01"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "Weekly report generated successfully",
		},
		{
			name:           "bad date",
			url:            "/reports/weekly/U1?to=05/01/2024",
			setupMock:      func(m *MockWeeklyReporter) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid date",
		},
		{
			name: "store failure",
			url:  "/reports/weekly/U1",
			setupMock: func(m *MockWeeklyReporter) {
				m.On("WeeklyReport", mock.Anything, "U1", now).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Failed to generate report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := new(MockWeeklyReporter)
			tt.setupMock(reporter)
			controller := NewReportController(reporter, loc)
			controller.now = func() time.Time { return now }

			router := setupTestRouter()
			router.GET("/reports/weekly/:user_id", controller.GetWeeklyReport)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, decode(t, w)["message"], tt.expectedMsg)
			reporter.AssertExpectations(t)
		})
	}
}

func TestGetUserProfile(t *testing.T) {
	tdee := 2008.5

	tests := []struct {
		name           string
		setupMock      func(*MockProfileManager)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "successful retrieval",
			setupMock: func(m *MockProfileManager) {
				m.On("Get", mock.Anything, "U1").Return(&services.ProfileView{
					Profile:  &models.UserProfile{UserID: "U1"},
					Complete: true,
					TDEE:     &tdee,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "User profile retrieved successfully",
		},
		{
			name: "profile not found",
			setupMock: func(m *MockProfileManager) {
				m.On("Get", mock.Anything, "U1").Return(nil, services.ErrProfileNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Profile not found",
		},
		{
			name: "store failure",
			setupMock: func(m *MockProfileManager) {
				m.On("Get", mock.Anything, "U1").Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Failed to retrieve profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := new(MockProfileManager)
			tt.setupMock(profiles)
			controller := NewUserProfileController(profiles)

			router := setupTestRouter()
			router.GET("/profile/:user_id", controller.GetUserProfile)

			req := httptest.NewRequest(http.MethodGet, "/profile/U1", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			response := decode(t, w)
			assert.Contains(t, response["message"], tt.expectedMsg)
			if tt.expectedStatus == http.StatusOK {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, 2008.5, data["tdee_kcal"])
			}
			profiles.AssertExpectations(t)
		})
	}
}

func TestUpdateUserProfile(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockProfileManager)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "successful update",
			body: `{"weight_kg":62.5}`,
			setupMock: func(m *MockProfileManager) {
				m.On("Update", mock.Anything, "U1", mock.MatchedBy(func(p *generation.ProfileOutput) bool {
					return p.WeightKG != nil && *p.WeightKG == 62.5 && p.HeightCM == nil
				})).Return(&services.ProfileView{Profile: &models.UserProfile{UserID: "U1"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "Profile updated successfully",
		},
		{
			name: "implausible value",
			body: `{"height_cm":900}`,
			setupMock: func(m *MockProfileManager) {
				m.On("Update", mock.Anything, "U1", mock.Anything).
					Return(nil, fmt.Errorf("%w: height_cm out of range", services.ErrInvalidProfile))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request data",
		},
		{
			name:           "malformed json",
			body:           `{"age":"old"}`,
			setupMock:      func(m *MockProfileManager) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request data",
		},
		{
			name: "store failure",
			body: `{"age":30}`,
			setupMock: func(m *MockProfileManager) {
				m.On("Update", mock.Anything, "U1", mock.Anything).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Failed to update profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := new(MockProfileManager)
			tt.setupMock(profiles)
			controller := NewUserProfileController(profiles)

			router := setupTestRouter()
			router.PUT("/profile/:user_id", controller.UpdateUserProfile)

			req := httptest.NewRequest(http.MethodPut, "/profile/U1", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, decode(t, w)["message"], tt.expectedMsg)
			profiles.AssertExpectations(t)
		})
	}
}

func TestKnowledgeEndpoints(t *testing.T) {
	source := new(MockKnowledgeSource)
	source.On("Version", knowledge.CategorySleep).Return("2024.1", nil)
	source.On("Version", knowledge.CategoryDiet).Return("2024.2", nil)
	source.On("Version", knowledge.CategoryChronic).Return("", knowledge.ErrKnowledgeMissing)
	source.On("Document", knowledge.CategoryDiet).Return(map[string]string{"version": "2024.2"}, nil)
	source.On("Document", knowledge.Category("unknown")).Return(nil, knowledge.ErrKnowledgeMissing)

	controller := NewKnowledgeController(source)
	router := setupTestRouter()
	router.GET("/knowledge", controller.ListKnowledge)
	router.GET("/knowledge/:category", controller.GetKnowledge)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/knowledge", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "2024.1", data["sleep"])
	assert.Equal(t, "2024.2", data["diet"])
	assert.NotContains(t, data, "chronic")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/knowledge/diet", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/knowledge/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode(t, w)["message"], "Knowledge document not found")

	source.AssertExpectations(t)
}
