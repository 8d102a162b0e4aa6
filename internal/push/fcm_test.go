package push

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/wasteops-admin/internal/model"
)

type fakeSender struct {
	messages []*messaging.Message
	err      error
}

func (f *fakeSender) Send(_ context.Context, message *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.messages = append(f.messages, message)
	return "projects/test/messages/1", nil
}

type fakeTokens map[uuid.UUID]string

func (f fakeTokens) GetFCMToken(_ context.Context, userID uuid.UUID) (*string, error) {
	token, ok := f[userID]
	if !ok {
		return nil, nil
	}
	return &token, nil
}

func TestFCMPusher_SendsToRegisteredDevice(t *testing.T) {
	userID := uuid.New()
	sender := &fakeSender{}
	pusher := newFCMPusher(sender, fakeTokens{userID: "device-token"}, zerolog.Nop())

	entityType := string(model.EntityReport)
	entityID := uuid.NewString()
	err := pusher.Push(context.Background(), model.Notification{
		ID:                uuid.New(),
		UserID:            userID,
		Title:             "New Report Submitted",
		Message:           "A new overflow report has been submitted",
		Type:              model.NotificationAlert,
		RelatedEntityType: &entityType,
		RelatedEntityID:   &entityID,
	})
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	message := sender.messages[0]
	assert.Equal(t, "device-token", message.Token)
	assert.Equal(t, "New Report Submitted", message.Notification.Title)
	assert.Equal(t, "alert", message.Data["type"])
	assert.Equal(t, entityID, message.Data["related_entity_id"])
}

func TestFCMPusher_SkipsUsersWithoutToken(t *testing.T) {
	sender := &fakeSender{}
	pusher := newFCMPusher(sender, fakeTokens{}, zerolog.Nop())

	require.NoError(t, pusher.Push(context.Background(), model.Notification{UserID: uuid.New()}))
	assert.Empty(t, sender.messages)
}

func TestFCMPusher_WrapsSendError(t *testing.T) {
	userID := uuid.New()
	pusher := newFCMPusher(&fakeSender{err: errors.New("unavailable")}, fakeTokens{userID: "t"}, zerolog.Nop())

	err := pusher.Push(context.Background(), model.Notification{UserID: userID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send fcm message")
}

func TestNewFCMPusher_RequiresCredentials(t *testing.T) {
	_, err := NewFCMPusher(context.Background(), "", "", fakeTokens{}, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewFCMPusher(context.Background(), "", "%%%not-base64", fakeTokens{}, zerolog.Nop())
	assert.Error(t, err)
}
