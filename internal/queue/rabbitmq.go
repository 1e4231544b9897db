package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/outreach-engine/internal/domains/contacts"
	"github.com/sangkips/outreach-engine/internal/domains/templates"
)

const (
	ContactImportsQueue   = "contact_imports"
	RenderJobsQueue       = "render_jobs"
	RenderedMessagesQueue = "rendered_messages"
)

type RabbitMQ struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// NewRabbitMQ connects and declares the contact_imports, render_jobs and
// rendered_messages queues.
func NewRabbitMQ(url string) (*RabbitMQ, error) {
	var conn *amqp091.Connection
	var err error

	// Retry connection up to 10 times with 2 second delay
	for i := 0; i < 10; i++ {
		conn, err = amqp091.Dial(url)
		if err == nil {
			break
		}
		log.Warn().Err(err).Msgf("failed to connect to RabbitMQ, retrying in 2s (%d/10)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to connect to RabbitMQ after retries")
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		log.Error().Err(err).Msg("failed to open channel")
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, name := range []string{ContactImportsQueue, RenderJobsQueue, RenderedMessagesQueue} {
		_, err := channel.QueueDeclare(
			name,  // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			channel.Close()
			conn.Close()
			log.Error().Err(err).Str("queue", name).Msg("failed to declare queue")
			return nil, fmt.Errorf("failed to declare queue %s: %w", name, err)
		}
	}

	// One unacked render job per worker at a time.
	if err := channel.Qos(1, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	log.Info().Msg("connected to RabbitMQ and declared outreach queues")

	return &RabbitMQ{
		conn:    conn,
		channel: channel,
	}, nil
}

// PublishContactImport publishes a mapped contact batch for persistence.
func (r *RabbitMQ) PublishContactImport(ctx context.Context, batch contacts.ImportBatch) error {
	return r.publish(ctx, ContactImportsQueue, batch.ImportID, batch)
}

// PublishRenderJob publishes a render job for the render worker.
func (r *RabbitMQ) PublishRenderJob(ctx context.Context, job templates.RenderJob) error {
	return r.publish(ctx, RenderJobsQueue, job.JobID, job)
}

// PublishRendered publishes a rendered message for the delivery transport.
func (r *RabbitMQ) PublishRendered(ctx context.Context, msg templates.RenderedMessage) error {
	return r.publish(ctx, RenderedMessagesQueue, msg.JobID, msg)
}

func (r *RabbitMQ) publish(ctx context.Context, queueName, messageID string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(ctx,
		"",        // exchange
		queueName, // routing key (queue name)
		false,     // mandatory
		false,     // immediate
		amqp091.Publishing{
			DeliveryMode: amqp091.Persistent,
			ContentType:  "application/json",
			MessageId:    messageID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		log.Error().Err(err).Str("queue", queueName).Str("message_id", messageID).Msg("failed to publish message")
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Debug().Str("queue", queueName).Str("message_id", messageID).Msg("published message to queue")
	return nil
}

// ConsumeRenderJobs returns a channel of deliveries for the render_jobs queue
func (r *RabbitMQ) ConsumeRenderJobs() (<-chan amqp091.Delivery, error) {
	msgs, err := r.channel.Consume(
		RenderJobsQueue, // queue
		"",              // consumer
		false,           // auto-ack (we will manual ack)
		false,           // exclusive
		false,           // no-local
		false,           // no-wait
		nil,             // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register a consumer: %w", err)
	}
	return msgs, nil
}

// Ping checks if the RabbitMQ connection and channel are open
func (r *RabbitMQ) Ping() error {
	if r.conn == nil || r.conn.IsClosed() {
		return fmt.Errorf("connection is closed")
	}
	if r.channel == nil || r.channel.IsClosed() {
		return fmt.Errorf("channel is closed")
	}
	return nil
}

// Close closes the RabbitMQ connection and channel
func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close channel")
		}
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close connection")
			return err
		}
	}
	log.Info().Msg("closed RabbitMQ connection")
	return nil
}
