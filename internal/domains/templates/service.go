package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoRecipients  = errors.New("recipients cannot be empty")
	ErrQueueDisabled = errors.New("render queue is not configured")
)

// JobPublisher queues render jobs for the render worker.
type JobPublisher interface {
	PublishRenderJob(ctx context.Context, job RenderJob) error
}

type Service struct {
	publisher   JobPublisher
	concurrency int
}

// NewService builds the template service. publisher may be nil when no
// queue is available; EnqueueRenderJobs then fails with ErrQueueDisabled.
func NewService(publisher JobPublisher, concurrency int) *Service {
	return &Service{
		publisher:   publisher,
		concurrency: concurrency,
	}
}

type RenderRequest struct {
	Template Template      `json:"template"`
	Context  RenderContext `json:"context"`
}

type PreviewRequest struct {
	Body    string        `json:"body"`
	Context RenderContext `json:"context"`
}

type PreviewResponse struct {
	HTML string `json:"html"`
}

type PlaceholdersRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type PlaceholdersResponse struct {
	Placeholders []string `json:"placeholders"`
}

type RenderBatchRequest struct {
	Template Template        `json:"template"`
	Contexts []RenderContext `json:"contexts"`
}

type RenderBatchResponse struct {
	Data []Rendered `json:"data"`
}

type Recipient struct {
	Recipient string        `json:"recipient"`
	Context   RenderContext `json:"context"`
}

type EnqueueRenderJobsRequest struct {
	Template   Template    `json:"template"`
	Recipients []Recipient `json:"recipients"`
}

type EnqueueRenderJobsResponse struct {
	JobIDs []string `json:"job_ids"`
	Queued int      `json:"queued"`
}

// Render renders one template for one context.
func (s *Service) Render(req RenderRequest) (*Rendered, error) {
	if err := req.Template.Validate(); err != nil {
		return nil, err
	}
	rendered := req.Template.Render(req.Context)
	return &rendered, nil
}

func (s *Service) Preview(req PreviewRequest) *PreviewResponse {
	return &PreviewResponse{HTML: RenderPreviewHTML(req.Body, req.Context)}
}

// Placeholders lists the identifiers used by subject and body together.
func (s *Service) Placeholders(req PlaceholdersRequest) *PlaceholdersResponse {
	names := Placeholders(req.Subject)
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, n := range Placeholders(req.Body) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return &PlaceholdersResponse{Placeholders: names}
}

func (s *Service) RenderBatch(ctx context.Context, req RenderBatchRequest) (*RenderBatchResponse, error) {
	rendered, err := RenderBatch(ctx, req.Template, req.Contexts, s.concurrency)
	if err != nil {
		return nil, err
	}
	return &RenderBatchResponse{Data: rendered}, nil
}

// EnqueueRenderJobs publishes one render job per recipient.
func (s *Service) EnqueueRenderJobs(ctx context.Context, req EnqueueRenderJobsRequest) (*EnqueueRenderJobsResponse, error) {
	if len(req.Recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if err := req.Template.Validate(); err != nil {
		return nil, err
	}
	if s.publisher == nil {
		return nil, ErrQueueDisabled
	}

	jobIDs := make([]string, 0, len(req.Recipients))
	for _, rcpt := range req.Recipients {
		job := RenderJob{
			JobID:     uuid.NewString(),
			Template:  req.Template,
			Context:   rcpt.Context,
			Recipient: rcpt.Recipient,
		}
		if err := s.publisher.PublishRenderJob(ctx, job); err != nil {
			return nil, fmt.Errorf("failed to publish render job: %w", err)
		}
		jobIDs = append(jobIDs, job.JobID)
	}

	log.Info().Str("template", req.Template.Name).Int("queued", len(jobIDs)).Msg("render jobs queued")

	return &EnqueueRenderJobsResponse{JobIDs: jobIDs, Queued: len(jobIDs)}, nil
}
