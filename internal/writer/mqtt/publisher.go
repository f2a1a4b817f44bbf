// internal/writer/mqtt/publisher.go

// Package mqtt publishes each measurement as a JSON telemetry document.
package mqtt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/loopholelabs/logging/types"

	"github.com/tamzrod/vibration-monitor/internal/poller"
)

const (
	appID          = "vibration-monitor"
	deviceIDLen    = 16
	deviceTopicVar = "{device}"
	disconnectMs   = 250
)

var ErrNotConnected = errors.New("mqtt: not connected")

type Config struct {
	Broker   string
	ClientID string // defaults to appID plus a random suffix
	DeviceID string // defaults to a hashed machine id
	Topic    string // {device} is replaced with DeviceID
	QoS      byte
	Username string
	Password string
	Timeout  time.Duration
}

// client is the slice of paho.Client the publisher uses.
type client interface {
	Connect() paho.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	IsConnectionOpen() bool
	Disconnect(quiesce uint)
}

// Publisher implements writer.Writer over MQTT.
type Publisher struct {
	cli     client
	topic   string
	qos     byte
	timeout time.Duration
	log     types.Logger
}

// New builds a publisher and starts connecting. The broker being down at
// startup is not fatal: paho keeps retrying in the background.
func New(cfg Config, log types.Logger) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt: broker required")
	}

	deviceID, err := resolveDeviceID(cfg.DeviceID)
	if err != nil {
		return nil, err
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = appID + "-" + uuid.NewString()[:8]
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(60 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetOnConnectHandler(func(paho.Client) {
			if log != nil {
				log.Info().Str("broker", cfg.Broker).Msg("mqtt connected")
			}
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			if log != nil {
				log.Warn().Err(err).Str("broker", cfg.Broker).Msg("mqtt connection lost")
			}
		})

	p := newPublisher(paho.NewClient(opts), cfg, deviceID, log)

	tok := p.cli.Connect()
	if !tok.WaitTimeout(p.timeout) {
		if log != nil {
			log.Warn().Str("broker", cfg.Broker).Msg("mqtt broker not reachable yet, retrying in background")
		}
	} else if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect %s: %w", cfg.Broker, err)
	}

	if log != nil {
		log.Info().
			Str("client_id", clientID).
			Str("topic", p.topic).
			Msg("mqtt telemetry enabled")
	}
	return p, nil
}

func newPublisher(cli client, cfg Config, deviceID string, log types.Logger) *Publisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Publisher{
		cli:     cli,
		topic:   strings.ReplaceAll(cfg.Topic, deviceTopicVar, deviceID),
		qos:     cfg.QoS,
		timeout: timeout,
		log:     log,
	}
}

func resolveDeviceID(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		return "", fmt.Errorf("mqtt: machine id: %w", err)
	}
	if len(id) > deviceIDLen {
		id = id[:deviceIDLen]
	}
	return id, nil
}

// Topic is the resolved publish topic.
func (p *Publisher) Topic() string {
	return p.topic
}

// Connected reports broker connectivity.
func (p *Publisher) Connected() bool {
	return p.cli.IsConnectionOpen()
}

// Write publishes the telemetry document of a successful poll.
// Failed polls publish nothing.
func (p *Publisher) Write(res poller.PollResult) error {
	if !res.OK() {
		return nil
	}
	if !p.cli.IsConnectionOpen() {
		return ErrNotConnected
	}

	payload, err := res.Measurement.MarshalTelemetry()
	if err != nil {
		return fmt.Errorf("mqtt: encode telemetry: %w", err)
	}

	tok := p.cli.Publish(p.topic, p.qos, false, payload)
	if !tok.WaitTimeout(p.timeout) {
		return fmt.Errorf("mqtt: publish %s: timed out after %s", p.topic, p.timeout)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt: publish %s: %w", p.topic, err)
	}
	return nil
}

// Close disconnects, letting in-flight work finish briefly.
func (p *Publisher) Close() error {
	p.cli.Disconnect(disconnectMs)
	return nil
}
