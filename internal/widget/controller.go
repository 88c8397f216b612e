package widget

import (
	"errors"
	"fmt"
	"reflect"
	"reviewwidget/backend/internal/localization"
	"reviewwidget/backend/internal/models"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRefusedCompanionMessage is returned for messages that do not answer the session's request.
var ErrRefusedCompanionMessage = errors.New("companion message does not match its session")

// StateStore persists widget state field by field and fans out widget events.
type StateStore interface {
	LoadState(widgetID string) (*models.WidgetState, error)
	SaveField(widgetID, key string, value any) error
	PublishEvent(event models.WidgetEvent) error
	LockWidget(widgetID string) (unlock func(), err error)
}

// Companion opens and closes companion sessions.
type Companion interface {
	RequestCompanion(widgetID string, actor *models.Identity, visible bool, msg models.OutboundMessage) (*models.CompanionSession, error)
	CloseSession(handle string) error
}

// Result describes what dispatching one event did.
// Changed lists the persisted keys that were written, in write order.
type Result struct {
	State         *models.WidgetState      `json:"-"`
	Changed       []string                 `json:"changed,omitempty"`
	Session       *models.CompanionSession `json:"session,omitempty"`
	Notifications []string                 `json:"notifications,omitempty"`
	Terminated    bool                     `json:"terminated"`
}

type command struct {
	widgetID string
	event    Event
	reply    chan commandReply
}

type commandReply struct {
	result *Result
	err    error
}

// Controller owns the widget state transitions.
// Events are applied one at a time by Run, so no two transitions overlap.
type Controller struct {
	Store     StateStore
	Companion Companion
	Localizer *localization.Localizer

	NewID func() string
	Now   func() time.Time

	log       *zap.SugaredLogger
	commandCh chan command
}

// NewController wires a Controller with uuid review ids and the wall clock.
func NewController(store StateStore, companion Companion, loc *localization.Localizer, log *zap.SugaredLogger) *Controller {
	return &Controller{
		Store:     store,
		Companion: companion,
		Localizer: loc,
		NewID:     func() string { return uuid.New().String() },
		Now:       time.Now,
		log:       log,
		commandCh: make(chan command),
	}
}

// Run applies dispatched events until Stop is called.
func (c *Controller) Run() {
	c.log.Info("Widget controller started.")
	for cmd := range c.commandCh {
		res, err := c.apply(cmd.widgetID, cmd.event)
		cmd.reply <- commandReply{result: res, err: err}
	}
	c.log.Info("Widget controller stopped.")
}

// Stop ends Run. Dispatch must not be called afterwards.
func (c *Controller) Stop() {
	close(c.commandCh)
}

// Dispatch applies ev to the widget and waits for the outcome.
func (c *Controller) Dispatch(widgetID string, ev Event) (*Result, error) {
	reply := make(chan commandReply, 1)
	c.commandCh <- command{widgetID: widgetID, event: ev, reply: reply}
	r := <-reply
	return r.result, r.err
}

// HandleCompanionResult applies the single message a companion session sent back.
func (c *Controller) HandleCompanionResult(session *models.CompanionSession, msg models.InboundMessage) error {
	ev, ok := FromCompanion(session, msg)
	if !ok {
		c.log.Infow("Refusing companion message", "session", session.Handle, "widget", session.WidgetID, "type", msg.Type)
		return fmt.Errorf("%w: %q", ErrRefusedCompanionMessage, msg.Type)
	}
	_, err := c.Dispatch(session.WidgetID, ev)
	return err
}

// Render loads the widget and builds its view for viewer.
func (c *Controller) Render(widgetID string, viewer *models.Identity) (*View, error) {
	state, err := c.Store.LoadState(widgetID)
	if err != nil {
		return nil, fmt.Errorf("load widget %s: %w", widgetID, err)
	}
	return Render(state, viewer, c.Localizer), nil
}

func (c *Controller) apply(widgetID string, ev Event) (*Result, error) {
	// Run serializes this process; the store lock serializes every instance.
	unlock, err := c.Store.LockWidget(widgetID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	state, err := c.Store.LoadState(widgetID)
	if err != nil {
		return nil, fmt.Errorf("load widget %s: %w", widgetID, err)
	}

	if added, ok := ev.(ReviewAdded); ok {
		if added.Actor == nil {
			c.log.Infow("Dropping review without a known identity", "widget", widgetID)
		}
		if added.ID == "" {
			added.ID = c.NewID()
		}
		if added.Timestamp == 0 {
			added.Timestamp = c.Now().UnixMilli()
		}
		ev = added
	}

	next, intents := Apply(state, ev)
	res := &Result{State: next}

	res.Changed, err = c.persist(widgetID, state, next)
	if err != nil {
		return nil, err
	}
	if len(res.Changed) > 0 {
		c.publish(models.WidgetEvent{
			WidgetID: widgetID,
			Message:  models.OutboundMessage{Type: models.MessageStateChanged, Payload: res.Changed},
		})
	}

	for _, intent := range intents {
		if err := c.execute(widgetID, ev, next, intent, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// persist writes every field that differs between prev and next, one field at a time.
func (c *Controller) persist(widgetID string, prev, next *models.WidgetState) ([]string, error) {
	before := prev.Fields()
	var changed []string
	for i, f := range next.Fields() {
		if reflect.DeepEqual(before[i].Value, f.Value) {
			continue
		}
		if err := c.Store.SaveField(widgetID, f.Key, f.Value); err != nil {
			return changed, fmt.Errorf("save %s of widget %s: %w", f.Key, widgetID, err)
		}
		changed = append(changed, f.Key)
	}
	return changed, nil
}

func (c *Controller) execute(widgetID string, ev Event, state *models.WidgetState, intent Intent, res *Result) error {
	switch in := intent.(type) {
	case OpenCompanion:
		msg := models.OutboundMessage{Type: models.MessageChangeView, Payload: in.View, Review: in.Prefill}
		session, err := c.Companion.RequestCompanion(widgetID, ev.actor(), true, msg)
		if err != nil {
			return fmt.Errorf("open companion for widget %s: %w", widgetID, err)
		}
		res.Session = session

	case Download:
		msg := models.OutboundMessage{Type: models.MessageDownloadData, Payload: in.Reviews}
		session, err := c.Companion.RequestCompanion(widgetID, ev.actor(), false, msg)
		if err != nil {
			return fmt.Errorf("open download for widget %s: %w", widgetID, err)
		}
		res.Session = session

	case Notify:
		text := c.Localizer.GetString(state.Lang, in.Key)
		if in.Subject != "" {
			text = fmt.Sprintf("%s %s.", text, in.Subject)
		}
		res.Notifications = append(res.Notifications, text)
		if in.Recipient != nil {
			c.publish(models.WidgetEvent{
				WidgetID:    widgetID,
				RecipientID: in.Recipient.ID,
				Message:     models.OutboundMessage{Type: models.MessageNotify, Payload: text},
			})
		}

	case CloseSession:
		res.Terminated = true
		if ce, ok := ev.(companionEvent); ok && ce.sessionHandle() != "" {
			if err := c.Companion.CloseSession(ce.sessionHandle()); err != nil {
				c.log.Warnw("Failed to close companion session", "session", ce.sessionHandle(), "error", err)
			}
		}
	}
	return nil
}

func (c *Controller) publish(event models.WidgetEvent) {
	if err := c.Store.PublishEvent(event); err != nil {
		c.log.Errorw("Failed to publish widget event", "widget", event.WidgetID, "type", event.Message.Type, "error", err)
	}
}
