package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/wasteops-admin/internal/model"
)

type NotificationWriter interface {
	CreateNotification(ctx context.Context, notification model.Notification) (*model.Notification, error)
}

// Pusher delivers an already recorded notification over a live channel.
type Pusher interface {
	Push(ctx context.Context, notification model.Notification) error
}

// Notifier accepts side-effect intents. It returns how many were accepted for
// delivery and never reports delivery failures to the caller.
type Notifier interface {
	Dispatch(intents ...model.NotificationIntent) int
}

const (
	defaultQueueSize     = 256
	defaultDeliveryLimit = 5 * time.Second
)

// Dispatcher records notification intents on a background worker so that a
// slow or failing store never affects the request that produced them.
type Dispatcher struct {
	store   NotificationWriter
	pushers []Pusher
	log     zerolog.Logger
	timeout time.Duration

	queue  chan model.NotificationIntent
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	delivered atomic.Int64
	failed    atomic.Int64
}

func NewDispatcher(store NotificationWriter, log zerolog.Logger, queueSize int, pushers ...Pusher) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Dispatcher{
		store:   store,
		pushers: pushers,
		log:     log.With().Str("component", "notification_dispatcher").Logger(),
		timeout: defaultDeliveryLimit,
		queue:   make(chan model.NotificationIntent, queueSize),
	}
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for intent := range d.queue {
			d.deliver(intent)
		}
	}()
}

func (d *Dispatcher) Dispatch(intents ...model.NotificationIntent) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	accepted := 0
	for _, intent := range intents {
		if d.closed {
			d.drop(intent, "dispatcher closed")
			continue
		}
		select {
		case d.queue <- intent:
			accepted++
		default:
			d.drop(intent, "queue full")
		}
	}
	return accepted
}

// Close stops accepting intents and waits until queued ones are delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) Delivered() int64 {
	return d.delivered.Load()
}

func (d *Dispatcher) Failed() int64 {
	return d.failed.Load()
}

func (d *Dispatcher) drop(intent model.NotificationIntent, reason string) {
	d.failed.Add(1)
	d.log.Warn().
		Str("reason", reason).
		Str("user_id", intent.UserID.String()).
		Str("entity", string(intent.RelatedEntityType)).
		Str("entity_id", intent.RelatedEntityID).
		Msg("notification dropped")
}

func (d *Dispatcher) deliver(intent model.NotificationIntent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	entityType := string(intent.RelatedEntityType)
	entityID := intent.RelatedEntityID
	record := model.Notification{
		UserID:  intent.UserID,
		Title:   intent.Title,
		Message: intent.Message,
		Type:    intent.Type,
	}
	if entityType != "" {
		record.RelatedEntityType = &entityType
	}
	if entityID != "" {
		record.RelatedEntityID = &entityID
	}

	saved, err := d.store.CreateNotification(ctx, record)
	if err != nil {
		d.failed.Add(1)
		d.log.Error().Err(err).
			Str("user_id", intent.UserID.String()).
			Str("title", intent.Title).
			Msg("failed to record notification")
		return
	}
	d.delivered.Add(1)

	for _, pusher := range d.pushers {
		if err := pusher.Push(ctx, *saved); err != nil {
			d.log.Warn().Err(err).
				Str("notification_id", saved.ID.String()).
				Msg("notification push failed")
		}
	}
}
