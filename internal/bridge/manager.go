package bridge

import (
	"errors"
	"reviewwidget/backend/internal/models"
	"reviewwidget/backend/internal/storage"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResultHandler applies the one message a companion session sends back.
type ResultHandler interface {
	HandleCompanionResult(session *models.CompanionSession, msg models.InboundMessage) error
}

// Incoming is a decoded companion message together with the session it arrived on.
type Incoming struct {
	Handle  string
	Message models.InboundMessage
}

// ManagerService is the hub between the widget and its connected surfaces.
// Clients is owned by Run; nothing else touches it while Run is active.
type ManagerService struct {
	Clients map[string]Client

	// Channels
	IncomingCh   chan Incoming
	RegisterCh   chan Client
	UnregisterCh chan Client
	CloseCh      chan string
	PubSubCh     chan models.WidgetEvent

	Storage       storage.Storage
	ResultHandler ResultHandler

	log *zap.SugaredLogger
}

func NewManagerService(s storage.Storage, log *zap.SugaredLogger) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		IncomingCh:   make(chan Incoming),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		CloseCh:      make(chan string, 64),
		PubSubCh:     make(chan models.WidgetEvent),
		Storage:      s,
		log:          log,
	}
}

func (m *ManagerService) SetResultHandler(h ResultHandler) {
	m.ResultHandler = h
}

// RequestCompanion opens a session whose surface will receive msg once it connects.
// It returns immediately; the result arrives later through the ResultHandler.
func (m *ManagerService) RequestCompanion(widgetID string, actor *models.Identity, visible bool, msg models.OutboundMessage) (*models.CompanionSession, error) {
	session := &models.CompanionSession{
		Handle:    uuid.New().String(),
		WidgetID:  widgetID,
		Actor:     actor,
		Visible:   visible,
		Pending:   msg,
		CreatedAt: time.Now(),
	}
	if err := m.Storage.SaveSession(session); err != nil {
		return nil, err
	}
	m.log.Debugw("Companion session opened", "session", session.Handle, "widget", widgetID, "type", msg.Type)
	return session, nil
}

// CloseSession forgets the session and disconnects its surface if connected here.
func (m *ManagerService) CloseSession(handle string) error {
	err := m.Storage.DeleteSession(handle)
	m.CloseCh <- handle
	return err
}

// Run is the hub's dispatch loop.
func (m *ManagerService) Run() {
	m.log.Info("Companion hub started.")
	for {
		select {
		case client := <-m.RegisterCh:
			m.register(client)

		case client := <-m.UnregisterCh:
			m.unregister(client)

		case in := <-m.IncomingCh:
			// The session is resolved here so a disconnect queued behind this message
			// cannot drop it; the handler runs apart because it calls back into CloseSession.
			if session, ok := m.lookupSession(in); ok {
				go m.applyResult(session, in.Message)
			}

		case handle := <-m.CloseCh:
			if client, ok := m.Clients[handle]; ok {
				delete(m.Clients, handle)
				client.Close()
			}

		case ev := <-m.PubSubCh:
			m.fanOut(ev)
		}
	}
}

func (m *ManagerService) register(client Client) {
	if client.GetKind() == ViewerClient {
		m.Clients[client.GetHandle()] = client
		m.log.Debugw("Viewer registered", "widget", client.GetWidgetID(), "conn", client.GetHandle())
		return
	}

	session, err := m.Storage.GetSession(client.GetHandle())
	if err != nil {
		m.log.Infow("Rejecting companion without a live session", "session", client.GetHandle(), "error", err)
		client.Close()
		return
	}

	m.Clients[client.GetHandle()] = client
	select {
	case client.GetSendChannel() <- session.Pending:
	default:
		m.log.Warnw("Companion send buffer full", "session", client.GetHandle())
	}
}

func (m *ManagerService) unregister(client Client) {
	current, ok := m.Clients[client.GetHandle()]
	if !ok || current != client {
		return
	}
	delete(m.Clients, client.GetHandle())
	client.Close()

	if client.GetKind() == CompanionClient {
		// A surface that goes away without posting abandons its request.
		if err := m.Storage.DeleteSession(client.GetHandle()); err != nil {
			m.log.Warnw("Failed to drop abandoned session", "session", client.GetHandle(), "error", err)
		}
	}
}

func (m *ManagerService) lookupSession(in Incoming) (*models.CompanionSession, bool) {
	session, err := m.Storage.GetSession(in.Handle)
	if errors.Is(err, storage.ErrSessionNotFound) {
		m.log.Debugw("Ignoring message for closed session", "session", in.Handle, "type", in.Message.Type)
		return nil, false
	}
	if err != nil {
		m.log.Errorw("Failed to load companion session", "session", in.Handle, "error", err)
		return nil, false
	}
	if !session.Accepts(in.Message) {
		m.log.Infow("Dropping message the session was not opened for", "session", in.Handle, "type", in.Message.Type)
		return nil, false
	}
	// A session accepts a single message; later ones find it gone.
	if err := m.Storage.DeleteSession(in.Handle); err != nil {
		m.log.Warnw("Failed to consume companion session", "session", in.Handle, "error", err)
	}
	return session, true
}

func (m *ManagerService) applyResult(session *models.CompanionSession, msg models.InboundMessage) {
	if m.ResultHandler == nil {
		m.log.Warnw("No result handler configured", "session", session.Handle)
		return
	}
	if err := m.ResultHandler.HandleCompanionResult(session, msg); err != nil {
		m.log.Errorw("Failed to apply companion result", "session", session.Handle, "type", msg.Type, "error", err)
	}
}

func (m *ManagerService) fanOut(ev models.WidgetEvent) {
	for handle, client := range m.Clients {
		if client.GetKind() != ViewerClient || client.GetWidgetID() != ev.WidgetID {
			continue
		}
		if ev.RecipientID != "" {
			if id := client.GetIdentity(); id == nil || id.ID != ev.RecipientID {
				continue
			}
		}
		select {
		case client.GetSendChannel() <- ev.Message:
		default:
			// Slow viewer: drop it rather than stall the hub.
			delete(m.Clients, handle)
			client.Close()
		}
	}
}
