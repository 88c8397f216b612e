package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reviewwidget/backend/internal/config"
	"reviewwidget/backend/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrSessionNotFound is returned for unknown or expired companion sessions.
	ErrSessionNotFound = errors.New("companion session not found")
	// ErrWidgetBusy is returned when another instance holds a widget's lock past WidgetLockWait.
	ErrWidgetBusy = errors.New("widget is locked by another instance")
)

// unlockScript deletes the lock only while it still carries the caller's token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type Storage interface {
	LoadState(widgetID string) (*models.WidgetState, error)
	SaveField(widgetID, key string, value any) error
	PublishEvent(event models.WidgetEvent) error
	LockWidget(widgetID string) (unlock func(), err error)

	SaveSession(session *models.CompanionSession) error
	GetSession(handle string) (*models.CompanionSession, error)
	DeleteSession(handle string) error

	SubscribeToWidgetEvents() *redis.PubSub
}

// Service keeps synced widget fields in PostgreSQL and companion sessions in Redis.
type Service struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Ctx        context.Context
	SessionTTL time.Duration

	log *zap.SugaredLogger
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client, sessionTTL time.Duration, log *zap.SugaredLogger) *Service {
	if sessionTTL <= 0 {
		sessionTTL = config.DefaultSessionTTL
	}
	return &Service{
		DB:         db,
		Redis:      rdb,
		Ctx:        context.Background(),
		SessionTTL: sessionTTL,
		log:        log,
	}
}

// Migrate creates the synced field table.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(&models.SyncedField{})
}

// LoadState reads every stored field of a widget on top of the default state.
// A widget that was never written loads as models.DefaultState.
func (s *Service) LoadState(widgetID string) (*models.WidgetState, error) {
	var fields []models.SyncedField
	if err := s.DB.Where("widget_id = ?", widgetID).Find(&fields).Error; err != nil {
		s.log.Errorw("Failed to load widget fields", "widget", widgetID, "error", err)
		return nil, err
	}
	return DecodeState(widgetID, fields, s.log)
}

// DecodeState applies stored fields to the default state. Unknown keys are skipped.
func DecodeState(widgetID string, fields []models.SyncedField, log *zap.SugaredLogger) (*models.WidgetState, error) {
	state := models.DefaultState(widgetID)
	known := make(map[string]bool, len(models.FieldOrder))
	for _, k := range models.FieldOrder {
		known[k] = true
	}

	for _, f := range fields {
		if !known[f.Key] {
			log.Warnw("Skipping unknown widget field", "widget", widgetID, "key", f.Key)
			continue
		}
		if err := state.SetField(f.Key, []byte(f.Value)); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// SaveField upserts one field. Each call is its own statement, so writes are atomic per field only.
func (s *Service) SaveField(widgetID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode field %q: %w", key, err)
	}

	field := models.SyncedField{WidgetID: widgetID, Key: key, Value: string(raw)}
	err = s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "widget_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&field).Error
	if err != nil {
		s.log.Errorw("Failed to save widget field", "widget", widgetID, "key", key, "error", err)
		return err
	}
	return nil
}

// PublishEvent publishes a widget event to every server instance over Redis Pub/Sub.
func (s *Service) PublishEvent(event models.WidgetEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := s.Redis.Publish(s.Ctx, config.WidgetEventsChannel, string(msgBytes)).Err(); err != nil {
		return err
	}

	return nil
}

func (s *Service) SubscribeToWidgetEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.WidgetEventsChannel)
}

// SaveSession stores a companion session until it is closed or SessionTTL passes.
func (s *Service) SaveSession(session *models.CompanionSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.Redis.Set(s.Ctx, sessionKey(session.Handle), data, s.SessionTTL).Err()
}

// GetSession returns ErrSessionNotFound when the handle is unknown or expired.
func (s *Service) GetSession(handle string) (*models.CompanionSession, error) {
	data, err := s.Redis.Get(s.Ctx, sessionKey(handle)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session models.CompanionSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", handle, err)
	}
	return &session, nil
}

// DeleteSession removes a session; deleting an unknown handle is not an error.
func (s *Service) DeleteSession(handle string) error {
	return s.Redis.Del(s.Ctx, sessionKey(handle)).Err()
}

// LockWidget takes the widget's write lock in Redis so load, apply and persist
// never interleave across server instances. The lock expires after WidgetLockTTL
// if its holder dies.
func (s *Service) LockWidget(widgetID string) (func(), error) {
	key := config.WidgetLockPrefix + widgetID
	token := uuid.New().String()
	deadline := time.Now().Add(config.WidgetLockWait)

	for {
		ok, err := s.Redis.SetNX(s.Ctx, key, token, config.WidgetLockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("lock widget %s: %w", widgetID, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrWidgetBusy, widgetID)
		}
		time.Sleep(config.WidgetLockRetryWait)
	}

	return func() {
		if err := unlockScript.Run(s.Ctx, s.Redis, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			s.log.Warnw("Failed to release widget lock", "widget", widgetID, "error", err)
		}
	}, nil
}

func sessionKey(handle string) string {
	return config.SessionKeyPrefix + handle
}
