package services

import (
	"context"
	"encoding/json"
	"fmt"
	"healthassistant/internal/models"
	"log"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

const (
	TurnsExchange     = "health.turns"
	turnQueueCapacity = 100
)

// ReplyPublisher announces completed turns to downstream consumers.
type ReplyPublisher interface {
	Publish(ctx context.Context, reply *models.ReplyPayload) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *models.ReplyPayload) error { return nil }

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// turnEvent is a reply already encoded at Publish time, so the worker never
// reads a payload the caller still owns.
type turnEvent struct {
	turnID string
	key    string
	body   []byte
}

// AMQPPublisher queues replies and publishes them from a background worker
// onto a topic exchange with routing key "turn.<intent>".
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string

	queue    chan turnEvent
	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.RWMutex
	running  bool
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		TurnsExchange, // name
		"topic",       // kind
		true,          // durable
		false,         // auto-deleted
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	p := newAMQPPublisher(ch, TurnsExchange)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch amqpChannel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{
		channel:  ch,
		exchange: exchange,
		queue:    make(chan turnEvent, turnQueueCapacity),
		stopChan: make(chan struct{}),
	}
}

// ========== WORKER LIFECYCLE ==========

func (p *AMQPPublisher) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true

	p.wg.Add(1)
	go p.worker()
	log.Printf("AMQPPublisher: publishing turns to exchange %s", p.exchange)
}

// Stop drains queued replies and closes the channel and connection.
func (p *AMQPPublisher) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopChan)
	p.wg.Wait()

	if err := p.channel.Close(); err != nil {
		log.Printf("AMQPPublisher: failed to close channel: %v", err)
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// Publish encodes the reply and enqueues it. It never blocks on the broker; a
// full queue drops the event and reports it.
func (p *AMQPPublisher) Publish(_ context.Context, reply *models.ReplyPayload) error {
	body, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("failed to marshal turn %s: %w", reply.TurnID, err)
	}
	event := turnEvent{turnID: reply.TurnID, key: RoutingKey(reply.Intent), body: body}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running {
		return fmt.Errorf("publisher is not running")
	}

	select {
	case p.queue <- event:
		return nil
	default:
		return fmt.Errorf("turn queue full, dropped turn %s", reply.TurnID)
	}
}

func (p *AMQPPublisher) worker() {
	defer p.wg.Done()
	for {
		select {
		case event := <-p.queue:
			p.send(event)
		case <-p.stopChan:
			for {
				select {
				case event := <-p.queue:
					p.send(event)
				default:
					return
				}
			}
		}
	}
}

func (p *AMQPPublisher) send(event turnEvent) {
	err := p.channel.Publish(
		p.exchange,
		event.key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.turnID,
			Timestamp:    time.Now(),
			Body:         event.body,
		},
	)
	if err != nil {
		log.Printf("AMQPPublisher: failed to publish turn %s: %v", event.turnID, err)
	}
}

func RoutingKey(intent models.Intent) string {
	return "turn." + string(intent)
}
