package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/outreach-engine/internal/domains/templates"
)

// JobSource delivers render jobs.
type JobSource interface {
	ConsumeRenderJobs() (<-chan amqp091.Delivery, error)
}

// Dispatcher hands rendered messages to the delivery transport.
type Dispatcher interface {
	PublishRendered(ctx context.Context, msg templates.RenderedMessage) error
}

// requeueDelay slows redelivery of jobs whose dispatch failed.
var requeueDelay = 1 * time.Second

type Worker struct {
	jobs       JobSource
	dispatcher Dispatcher
}

func NewWorker(jobs JobSource, dispatcher Dispatcher) *Worker {
	return &Worker{
		jobs:       jobs,
		dispatcher: dispatcher,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.jobs.ConsumeRenderJobs()
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	log.Info().Msg("render worker started, waiting for jobs")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("render worker shutting down")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitMQ channel closed")
			}
			w.processMessage(ctx, d)
		}
	}
}

func (w *Worker) processMessage(ctx context.Context, d amqp091.Delivery) {
	var job templates.RenderJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal render job")
		d.Reject(false)
		return
	}

	msg, err := job.Execute()
	if err != nil {
		// A bad template won't get better on redelivery.
		log.Error().Err(err).Str("job_id", job.JobID).Msg("invalid render job")
		d.Reject(false)
		return
	}

	if len(msg.Unresolved) > 0 {
		log.Warn().Str("job_id", job.JobID).Strs("unresolved", msg.Unresolved).Msg("rendered with missing placeholder values")
	}

	if err := w.dispatcher.PublishRendered(ctx, msg); err != nil {
		log.Error().Err(err).Str("job_id", job.JobID).Msg("failed to dispatch rendered message")
		time.Sleep(requeueDelay)
		d.Nack(false, true)
		return
	}

	log.Info().Str("job_id", job.JobID).Str("type", string(msg.Type)).Msg("render job completed")
	d.Ack(false)
}
