package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/wasteops-admin/internal/model"
)

type recordingPusher struct {
	mu     sync.Mutex
	pushed []model.Notification
	err    error
}

func (p *recordingPusher) Push(_ context.Context, n model.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushed = append(p.pushed, n)
	return p.err
}

func intentFor(userID uuid.UUID) model.NotificationIntent {
	return model.NotificationIntent{
		UserID:            userID,
		Title:             "Report Status Updated",
		Message:           "Your report has been updated to: resolved",
		Type:              model.NotificationInfo,
		RelatedEntityType: model.EntityReport,
		RelatedEntityID:   uuid.NewString(),
	}
}

func TestDispatcher_RecordsAndPushes(t *testing.T) {
	store := &memNotifications{}
	pusher := &recordingPusher{err: errors.New("offline")}
	d := NewDispatcher(store, zerolog.Nop(), 8, pusher)
	d.Start()

	accepted := d.Dispatch(intentFor(uuid.New()), intentFor(uuid.New()))
	d.Close()

	assert.Equal(t, 2, accepted)
	assert.Equal(t, 2, store.count())
	assert.Equal(t, int64(2), d.Delivered())
	assert.Zero(t, d.Failed())
	require.Len(t, pusher.pushed, 2)

	record := store.items[0]
	require.NotNil(t, record.RelatedEntityType)
	assert.Equal(t, "report", *record.RelatedEntityType)
	assert.False(t, record.IsRead)
}

func TestDispatcher_StoreFailureIsAbsorbed(t *testing.T) {
	store := &memNotifications{fail: errors.New("insert failed")}
	pusher := &recordingPusher{}
	d := NewDispatcher(store, zerolog.Nop(), 8, pusher)
	d.Start()

	assert.Equal(t, 1, d.Dispatch(intentFor(uuid.New())))
	d.Close()

	assert.Zero(t, d.Delivered())
	assert.Equal(t, int64(1), d.Failed())
	assert.Empty(t, pusher.pushed)
}

func TestDispatcher_FullQueueDrops(t *testing.T) {
	store := &memNotifications{}
	d := NewDispatcher(store, zerolog.Nop(), 1)

	// Not started: the single slot fills and the rest are dropped.
	accepted := d.Dispatch(intentFor(uuid.New()), intentFor(uuid.New()), intentFor(uuid.New()))
	assert.Equal(t, 1, accepted)
	assert.Equal(t, int64(2), d.Failed())

	d.Start()
	d.Close()
	assert.Equal(t, 1, store.count())
}

func TestDispatcher_ClosedDrops(t *testing.T) {
	d := NewDispatcher(&memNotifications{}, zerolog.Nop(), 4)
	d.Start()
	d.Close()
	d.Close()

	assert.Zero(t, d.Dispatch(intentFor(uuid.New())))
	assert.Equal(t, int64(1), d.Failed())
}
