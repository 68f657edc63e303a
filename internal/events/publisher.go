// Package events publishes tool activity and the device inventory to an
// MQTT broker so other home-automation components can follow along.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-logr/logr"
)

const (
	qos            = 1
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

var (
	// ErrNotConnected is returned when publishing while the broker is unreachable.
	ErrNotConnected = errors.New("events: mqtt client not connected")

	// ErrPublishFailed is returned when the broker did not confirm a publish.
	ErrPublishFailed = errors.New("events: publish failed")
)

// Sink receives events. Implementations must be safe for concurrent use.
type Sink interface {
	Publish(ctx context.Context, e Event) error
	PublishInventory(ctx context.Context, inv Inventory) error
}

// Nop drops everything. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

func (Nop) PublishInventory(context.Context, Inventory) error { return nil }

// Options configure the MQTT publisher
type Options struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// Topics returns the topic names derived from a prefix
type Topics struct {
	Prefix string
}

func (t Topics) Command() string   { return t.Prefix + "/events/command" }
func (t Topics) Scene() string     { return t.Prefix + "/events/scene" }
func (t Topics) Inventory() string { return t.Prefix + "/inventory" }

// For returns the event topic of a kind
func (t Topics) For(k Kind) string {
	if k == KindScene {
		return t.Scene()
	}
	return t.Command()
}

// MQTT publishes events to a broker
type MQTT struct {
	client mqtt.Client
	topics Topics
	log    logr.Logger
}

func newMQTT(client mqtt.Client, prefix string, log logr.Logger) *MQTT {
	return &MQTT{client: client, topics: Topics{Prefix: prefix}, log: log}
}

// Connect dials the broker and returns a ready publisher
func Connect(opts Options, log logr.Logger) (*MQTT, error) {
	co := mqtt.NewClientOptions()
	co.AddBroker(opts.Broker)
	co.SetClientID(opts.ClientID)
	if opts.Username != "" {
		co.SetUsername(opts.Username)
		co.SetPassword(opts.Password)
	}
	co.SetKeepAlive(60 * time.Second)
	co.SetPingTimeout(10 * time.Second)
	co.SetAutoReconnect(true)
	co.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Error(err, "connection lost")
	})
	co.SetOnConnectHandler(func(_ mqtt.Client) {
		log.Info("connected to MQTT broker", "broker", opts.Broker)
	})

	p := newMQTT(mqtt.NewClient(co), opts.TopicPrefix, log)
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("failed to connect to MQTT broker: timeout after %v", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}
	return p, nil
}

// Publish sends one event to its kind's topic
func (p *MQTT) Publish(_ context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.publish(p.topics.For(e.Kind), payload, false)
}

// PublishInventory replaces the retained inventory message
func (p *MQTT) PublishInventory(_ context.Context, inv Inventory) error {
	payload, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	return p.publish(p.topics.Inventory(), payload, true)
}

func (p *MQTT) publish(topic string, payload []byte, retained bool) error {
	if !p.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	p.log.V(1).Info("published", "topic", topic, "bytes", len(payload))
	return nil
}

// Close disconnects from the broker, waiting briefly for in-flight messages
func (p *MQTT) Close() {
	p.client.Disconnect(250)
}
