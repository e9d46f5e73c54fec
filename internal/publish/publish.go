// Package publish delivers result documents to a message broker so a
// calling process can consume them without reading stdout.
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/ironsheep/symbol-detect/internal/result"
)

// ErrPublish is returned when a document cannot be delivered.
var ErrPublish = errors.New("publish error")

// DefaultTopic is the MQTT topic documents are published to.
const DefaultTopic = "symbol-detect/results"

// Publisher delivers result documents.
type Publisher interface {
	Publish(doc *result.Document) error
	Close()
}

// Options configures an MQTT connection.
type Options struct {
	// Broker is the broker URL, e.g. "tcp://localhost:1883".
	Broker string

	// Topic defaults to DefaultTopic.
	Topic string

	// ClientID defaults to a random UUID.
	ClientID string

	ConnectTimeout time.Duration
	PublishTimeout time.Duration
}

// MQTTPublisher publishes documents at QoS 1 on a single topic.
type MQTTPublisher struct {
	client  mqtt.Client
	topic   string
	timeout time.Duration
}

// newClient is replaced in tests.
var newClient = mqtt.NewClient

// NewMQTTPublisher connects to the broker and returns a publisher bound to
// opts.Topic. Failures wrap ErrPublish.
func NewMQTTPublisher(opts Options) (*MQTTPublisher, error) {
	if opts.Broker == "" {
		return nil, fmt.Errorf("%w: no broker configured", ErrPublish)
	}
	if opts.Topic == "" {
		opts.Topic = DefaultTopic
	}
	if opts.ClientID == "" {
		opts.ClientID = "symbol-detect-" + uuid.New().String()
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = 10 * time.Second
	}

	clientOpts := mqtt.NewClientOptions().AddBroker(opts.Broker).SetClientID(opts.ClientID)
	clientOpts.SetConnectTimeout(opts.ConnectTimeout)
	clientOpts.SetAutoReconnect(false)

	client := newClient(clientOpts)
	token := client.Connect()
	if !token.WaitTimeout(opts.ConnectTimeout) {
		return nil, fmt.Errorf("%w: timed out connecting to %s", ErrPublish, opts.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: failed to connect to %s: %v", ErrPublish, opts.Broker, err)
	}
	log.Printf("Connected to MQTT broker %s as %s", opts.Broker, opts.ClientID)

	return &MQTTPublisher{
		client:  client,
		topic:   opts.Topic,
		timeout: opts.PublishTimeout,
	}, nil
}

// Publish sends doc as JSON and waits for the broker's acknowledgement.
func (p *MQTTPublisher) Publish(doc *result.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal document: %v", ErrPublish, err)
	}

	token := p.client.Publish(p.topic, 1, false, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("%w: timed out publishing to %s", ErrPublish, p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: failed to publish to %s: %v", ErrPublish, p.topic, err)
	}
	return nil
}

// Close disconnects, allowing in-flight messages a short grace period.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
