package bridge

import (
	"encoding/json"
	"reviewwidget/backend/internal/models"
)

// StartPubSubListener forwards widget events published by any server instance into the hub.
func (m *ManagerService) StartPubSubListener() {
	go func() {
		pubsub := m.Storage.SubscribeToWidgetEvents()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var ev models.WidgetEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				m.log.Errorw("Error unmarshalling widget event", "error", err)
				continue
			}
			m.PubSubCh <- ev
		}
	}()
}
