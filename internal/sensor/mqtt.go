package sensor

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/nurpe/wasteops-admin/internal/config"
)

const (
	subscribeQoS  = 1
	handleTimeout = 5 * time.Second
)

// Subscriber feeds fill-level readings from the broker into the handler.
type Subscriber struct {
	client  mqtt.Client
	topic   string
	handler *Handler
	log     zerolog.Logger
}

func NewSubscriber(cfg config.MQTTConfig, handler *Handler, log zerolog.Logger) (*Subscriber, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	sub := &Subscriber{
		topic:   cfg.Topic,
		handler: handler,
		log:     log.With().Str("component", "mqtt_subscriber").Logger(),
	}
	// Resubscribe after every reconnect since the session is clean.
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		if err := sub.subscribe(client); err != nil {
			sub.log.Error().Err(err).Msg("mqtt subscribe failed")
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		sub.log.Warn().Err(err).Msg("mqtt connection lost")
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	sub.client = client
	return sub, nil
}

func (s *Subscriber) subscribe(client mqtt.Client) error {
	token := client.Subscribe(s.topic, subscribeQoS, s.onMessage)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", s.topic, token.Error())
	}
	s.log.Info().Str("topic", s.topic).Msg("subscribed to sensor readings")
	return nil
}

func (s *Subscriber) onMessage(_ mqtt.Client, msg mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()
	if err := s.handler.Handle(ctx, msg.Topic(), msg.Payload()); err != nil {
		s.log.Warn().Err(err).Str("topic", msg.Topic()).Msg("sensor message rejected")
	}
}

func (s *Subscriber) Close() {
	s.client.Disconnect(250)
}
