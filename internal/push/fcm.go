package push

import (
	"context"
	"encoding/base64"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/nurpe/wasteops-admin/internal/model"
)

type TokenLookup interface {
	GetFCMToken(ctx context.Context, userID uuid.UUID) (*string, error)
}

type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMPusher mirrors recorded notifications to the recipient's mobile device.
type FCMPusher struct {
	client messageSender
	tokens TokenLookup
	log    zerolog.Logger
}

// NewFCMPusher builds a pusher from a service account file or, when the file
// is empty, from base64 encoded credentials.
func NewFCMPusher(ctx context.Context, credentialsFile, credentialsBase64 string, tokens TokenLookup, log zerolog.Logger) (*FCMPusher, error) {
	var opt option.ClientOption
	switch {
	case credentialsFile != "":
		opt = option.WithCredentialsFile(credentialsFile)
	case credentialsBase64 != "":
		credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
		if err != nil {
			return nil, fmt.Errorf("decode firebase credentials: %w", err)
		}
		opt = option.WithCredentialsJSON(credentialsJSON)
	default:
		return nil, fmt.Errorf("firebase credentials are not configured")
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	return newFCMPusher(client, tokens, log), nil
}

func newFCMPusher(client messageSender, tokens TokenLookup, log zerolog.Logger) *FCMPusher {
	return &FCMPusher{
		client: client,
		tokens: tokens,
		log:    log.With().Str("component", "fcm_pusher").Logger(),
	}
}

func (p *FCMPusher) Push(ctx context.Context, notification model.Notification) error {
	token, err := p.tokens.GetFCMToken(ctx, notification.UserID)
	if err != nil {
		return fmt.Errorf("lookup fcm token: %w", err)
	}
	if token == nil {
		return nil
	}

	data := map[string]string{
		"type":            string(notification.Type),
		"notification_id": notification.ID.String(),
	}
	if notification.RelatedEntityType != nil {
		data["related_entity_type"] = *notification.RelatedEntityType
	}
	if notification.RelatedEntityID != nil {
		data["related_entity_id"] = *notification.RelatedEntityID
	}

	message := &messaging.Message{
		Token: *token,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Message,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	response, err := p.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("send fcm message: %w", err)
	}
	p.log.Debug().Str("message_id", response).Str("user_id", notification.UserID.String()).Msg("fcm notification sent")
	return nil
}
