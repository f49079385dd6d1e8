package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/sweeney/stopwatch/internal/stopwatch"
)

const (
	bufferCapacity = 256
	publishTimeout = 5 * time.Second
)

// RealPublisher publishes to an actual MQTT broker. Messages published
// while disconnected are buffered and replayed on (re)connect.
type RealPublisher struct {
	client paho.Client

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher starts connecting to broker in the background and
// returns immediately; the client retries until the broker is reachable.
func NewRealPublisher(broker, clientID string) *RealPublisher {
	p := &RealPublisher{buf: newRingBuffer(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetBinaryWill(TopicSystem, WillPayload(), 1, true).
		SetOnConnectHandler(func(paho.Client) {
			log.Infof("mqtt: connected to %s", broker)
			p.flush()
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warnf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

func newPublisherWithClient(client paho.Client) *RealPublisher {
	return &RealPublisher{client: client, buf: newRingBuffer(bufferCapacity)}
}

// Publish sends a stopwatch event. QoS 0 (at-most-once), not retained.
func (p *RealPublisher) Publish(event stopwatch.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	return p.send(bufferedMsg{topic: Topic, payload: payload})
}

// PublishSystem sends a system lifecycle event. QoS 1 (at-least-once).
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

// IsConnected reports whether the connection to the broker is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Pending returns the number of messages waiting for a connection.
func (p *RealPublisher) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.len()
}

// Close disconnects from the broker. Messages still buffered are lost.
func (p *RealPublisher) Close() error {
	if n := p.Pending(); n > 0 {
		log.Warnf("mqtt: closing with %d undelivered messages", n)
	}
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}

// send publishes msg, or buffers it while disconnected. A backlog left from
// a previous disconnect is replayed first so messages keep their order.
func (p *RealPublisher) send(msg bufferedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.client.IsConnectionOpen() {
		p.buf.push(msg)
		log.Debugf("mqtt: disconnected, buffered message for %s (%d pending)", msg.topic, p.buf.len())
		return nil
	}
	if p.buf.len() > 0 {
		if err := p.flushLocked(); err != nil {
			p.buf.push(msg)
			return nil
		}
	}
	return p.publishLocked(msg)
}

func (p *RealPublisher) publishLocked(msg bufferedMsg) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.topic, err)
	}
	return nil
}

// flush replays buffered messages in order.
func (p *RealPublisher) flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushLocked()
}

// flushLocked replays the buffer. On the first failure the rest go back
// into the buffer for the next connect and the error is returned.
func (p *RealPublisher) flushLocked() error {
	msgs := p.buf.drainAll()
	if len(msgs) == 0 {
		return nil
	}
	log.Infof("mqtt: replaying %d buffered messages", len(msgs))

	for i, msg := range msgs {
		if err := p.publishLocked(msg); err != nil {
			log.Warnf("mqtt: replay stopped: %v", err)
			for _, rest := range msgs[i:] {
				p.buf.push(rest)
			}
			return err
		}
	}
	return nil
}
