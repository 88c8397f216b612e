package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"reviewwidget/backend/internal/config"
	"reviewwidget/backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnknownMessage = errors.New("unknown companion message type")
	ErrInvalidPayload = errors.New("invalid companion payload")
)

var (
	validate = validator.New()
	textRule = fmt.Sprintf("max=%d", config.MaxReviewTextLength)
)

type envelope struct {
	Type    models.MessageType `json:"type"`
	Payload json.RawMessage    `json:"payload"`
}

// DecodeInbound parses and validates one message posted by a companion surface.
func DecodeInbound(data []byte) (models.InboundMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return models.InboundMessage{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	msg := models.InboundMessage{Type: env.Type}
	switch env.Type {
	case models.MessageAddReview, models.MessageEditReview, models.MessageDeleteReview:
	default:
		return msg, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}

	if len(env.Payload) == 0 {
		return msg, fmt.Errorf("%w: missing payload", ErrInvalidPayload)
	}
	if err := json.Unmarshal(env.Payload, &msg.Payload); err != nil {
		return msg, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var err error
	switch env.Type {
	case models.MessageAddReview:
		err = validateReview(msg.Payload)
	case models.MessageEditReview:
		if err = validate.Var(msg.Payload.ID, "required"); err == nil {
			err = validateReview(msg.Payload)
		}
	case models.MessageDeleteReview:
		err = validate.Var(msg.Payload.ID, "required")
	}
	if err != nil {
		return msg, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return msg, nil
}

func validateReview(in models.ReviewInput) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	return validate.Var(in.Text, textRule)
}
