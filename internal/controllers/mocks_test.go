package controllers

import (
	"context"
	"healthassistant/internal/generation"
	"healthassistant/internal/knowledge"
	"healthassistant/internal/models"
	"healthassistant/internal/services"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockMessageHandler struct {
	mock.Mock
}

func (m *MockMessageHandler) HandleMessage(ctx context.Context, userID, text string, ts time.Time) (*models.ReplyPayload, error) {
	args := m.Called(ctx, userID, text, ts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReplyPayload), args.Error(1)
}

type MockWeeklyReporter struct {
	mock.Mock
}

func (m *MockWeeklyReporter) WeeklyReport(ctx context.Context, userID string, to time.Time) (*models.WeeklyReport, error) {
	args := m.Called(ctx, userID, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeeklyReport), args.Error(1)
}

type MockProfileManager struct {
	mock.Mock
}

func (m *MockProfileManager) Get(ctx context.Context, userID string) (*services.ProfileView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ProfileView), args.Error(1)
}

func (m *MockProfileManager) Update(ctx context.Context, userID string, patch *generation.ProfileOutput) (*services.ProfileView, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ProfileView), args.Error(1)
}

type MockKnowledgeSource struct {
	mock.Mock
}

func (m *MockKnowledgeSource) Document(category knowledge.Category) (any, error) {
	args := m.Called(category)
	return args.Get(0), args.Error(1)
}

func (m *MockKnowledgeSource) Version(category knowledge.Category) (string, error) {
	args := m.Called(category)
	return args.String(0), args.Error(1)
}
