package bridge_test

import (
	"reviewwidget/backend/internal/bridge"
	"reviewwidget/backend/internal/models"
	"reviewwidget/backend/internal/storage"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockResultHandler struct {
	mock.Mock
}

func (m *MockResultHandler) HandleCompanionResult(session *models.CompanionSession, msg models.InboundMessage) error {
	args := m.Called(session, msg)
	return args.Error(0)
}

func createTestHub(s *MockStorage) *bridge.ManagerService {
	return bridge.NewManagerService(s, zap.NewNop().Sugar())
}

func TestManager_RequestCompanion(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock)
	storageMock.On("SaveSession", mock.AnythingOfType("*models.CompanionSession")).Return(nil).Once()

	actor := &models.Identity{ID: "user_A"}
	msg := models.OutboundMessage{Type: models.MessageChangeView, Payload: models.ViewAddReview}
	session, err := hub.RequestCompanion("w1", actor, true, msg)

	require.NoError(t, err)
	assert.NotEmpty(t, session.Handle)
	assert.Equal(t, "w1", session.WidgetID)
	assert.Equal(t, actor, session.Actor)
	assert.True(t, session.Visible)
	assert.Equal(t, msg, session.Pending)
	storageMock.AssertExpectations(t)
}

func TestManager_RegisterCompanionDeliversPendingMessage(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock)
	pending := models.OutboundMessage{Type: models.MessageChangeView, Payload: models.ViewAddReview}
	storageMock.On("GetSession", "h1").Return(&models.CompanionSession{Handle: "h1", WidgetID: "w1", Pending: pending}, nil)

	client := newMockCompanion("h1", "w1")
	go hub.Run()

	hub.RegisterCh <- client

	select {
	case msg := <-client.RecvChannel:
		assert.Equal(t, pending, msg)
	case <-time.After(time.Second):
		t.Fatal("companion did not receive the pending message")
	}
}

func TestManager_RegisterCompanionWithoutSessionIsClosed(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock)
	storageMock.On("GetSession", "stale").Return(nil, storage.ErrSessionNotFound)

	client := newMockCompanion("stale", "w1")
	go hub.Run()

	hub.RegisterCh <- client
	assert.Eventually(t, client.IsClosed, time.Second, 10*time.Millisecond)
}

func TestManager_UnregisterCompanionAbandonsSession(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock)
	storageMock.On("GetSession", "h1").Return(&models.CompanionSession{Handle: "h1"}, nil)
	deleted := make(chan struct{}, 1)
	storageMock.On("DeleteSession", "h1").Return(nil).Once().Run(func(mock.Arguments) {
		deleted <- struct{}{}
	})

	client := newMockCompanion("h1", "w1")
	go hub.Run()

	hub.RegisterCh <- client
	hub.UnregisterCh <- client

	select {
	case <-deleted:
	case <-time.After(time.Second):
		t.Fatal("abandoned session was not deleted")
	}
	assert.True(t, client.IsClosed())
}

func TestManager_IncomingMessageIsAppliedOnce(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock)
	handler := new(MockResultHandler)
	hub.SetResultHandler(handler)

	session := &models.CompanionSession{
		Handle:   "h1",
		WidgetID: "w1",
		Visible:  true,
		Pending:  models.OutboundMessage{Type: models.MessageChangeView, Payload: models.ViewEditReview, Review: &models.ReviewDraft{ID: "r1"}},
	}
	msg := models.InboundMessage{Type: models.MessageDeleteReview, Payload: models.ReviewInput{ID: "r1"}}

	storageMock.On("GetSession", "h1").Return(session, nil).Once()
	storageMock.On("GetSession", "h1").Return(nil, storage.ErrSessionNotFound)
	storageMock.On("DeleteSession", "h1").Return(nil)
	applied := make(chan struct{}, 2)
	handler.On("HandleCompanionResult", session, msg).Return(nil).Run(func(mock.Arguments) {
		applied <- struct{}{}
	})

	go hub.Run()

	hub.IncomingCh <- bridge.Incoming{Handle: "h1", Message: msg}
	hub.IncomingCh <- bridge.Incoming{Handle: "h1", Message: msg}

	select {
	case <-applied:
	case <-time.After(time.Second):
		t.Fatal("result handler was not called")
	}
	time.Sleep(100 * time.Millisecond)
	handler.AssertNumberOfCalls(t, "HandleCompanionResult", 1)
}

func TestManager_CloseSessionDisconnectsCompanion(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock)
	storageMock.On("GetSession", "h1").Return(&models.CompanionSession{Handle: "h1"}, nil)
	storageMock.On("DeleteSession", "h1").Return(nil)

	client := newMockCompanion("h1", "w1")
	go hub.Run()
	hub.RegisterCh <- client
	<-client.RecvChannel

	require.NoError(t, hub.CloseSession("h1"))

	assert.Eventually(t, client.IsClosed, time.Second, 10*time.Millisecond)
}

func TestManager_FanOut(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock)

	ann := newMockViewer("v1", "w1", &models.Identity{ID: "user_A"})
	bob := newMockViewer("v2", "w1", &models.Identity{ID: "user_B"})
	stranger := newMockViewer("v3", "w2", &models.Identity{ID: "user_A"})
	anonymous := newMockViewer("v4", "w1", nil)
	hub.Clients["v1"] = ann
	hub.Clients["v2"] = bob
	hub.Clients["v3"] = stranger
	hub.Clients["v4"] = anonymous

	go hub.Run()

	changed := models.OutboundMessage{Type: models.MessageStateChanged, Payload: []string{"reviews"}}
	hub.PubSubCh <- models.WidgetEvent{WidgetID: "w1", Message: changed}

	notice := models.OutboundMessage{Type: models.MessageNotify, Payload: "Reviews can only be shown by Ann."}
	hub.PubSubCh <- models.WidgetEvent{WidgetID: "w1", RecipientID: "user_B", Message: notice}
	time.Sleep(100 * time.Millisecond)

	assert.Len(t, ann.RecvChannel, 1)
	assert.Len(t, anonymous.RecvChannel, 1)
	assert.Len(t, stranger.RecvChannel, 0)
	require.Len(t, bob.RecvChannel, 2)
	assert.Equal(t, changed, <-bob.RecvChannel)
	assert.Equal(t, notice, <-bob.RecvChannel)
}

func TestManager_MessageOutsideTheSessionRequestIsDropped(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock)
	handler := new(MockResultHandler)
	hub.SetResultHandler(handler)

	addForm := &models.CompanionSession{
		Handle:   "h1",
		WidgetID: "w1",
		Visible:  true,
		Pending:  models.OutboundMessage{Type: models.MessageChangeView, Payload: models.ViewAddReview},
	}
	storageMock.On("GetSession", "h1").Return(addForm, nil)

	go hub.Run()

	hub.IncomingCh <- bridge.Incoming{Handle: "h1", Message: models.InboundMessage{
		Type:    models.MessageDeleteReview,
		Payload: models.ReviewInput{ID: "someone-elses"},
	}}
	time.Sleep(100 * time.Millisecond)

	handler.AssertNotCalled(t, "HandleCompanionResult", mock.Anything, mock.Anything)
	storageMock.AssertNotCalled(t, "DeleteSession", "h1")
}
