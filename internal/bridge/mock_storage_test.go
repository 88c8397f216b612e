package bridge_test

import (
	"reviewwidget/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify/mock implementation of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) LoadState(widgetID string) (*models.WidgetState, error) {
	args := m.Called(widgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WidgetState), args.Error(1)
}

func (m *MockStorage) SaveField(widgetID, key string, value any) error {
	args := m.Called(widgetID, key, value)
	return args.Error(0)
}

func (m *MockStorage) PublishEvent(event models.WidgetEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockStorage) LockWidget(widgetID string) (func(), error) {
	args := m.Called(widgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}

func (m *MockStorage) SaveSession(session *models.CompanionSession) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockStorage) GetSession(handle string) (*models.CompanionSession, error) {
	args := m.Called(handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompanionSession), args.Error(1)
}

func (m *MockStorage) DeleteSession(handle string) error {
	args := m.Called(handle)
	return args.Error(0)
}

func (m *MockStorage) SubscribeToWidgetEvents() *redis.PubSub {
	args := m.Called()
	return args.Get(0).(*redis.PubSub)
}
