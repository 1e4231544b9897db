package templates

import "fmt"

// RenderJob asks the render worker to personalise one template for one
// recipient.
type RenderJob struct {
	JobID     string        `json:"job_id"`
	Template  Template      `json:"template"`
	Context   RenderContext `json:"context"`
	Recipient string        `json:"recipient"`
}

// RenderedMessage is the worker's output, ready for a transport to send.
type RenderedMessage struct {
	JobID     string `json:"job_id"`
	Recipient string `json:"recipient"`
	Rendered
}

// Execute validates the job's template and renders it.
func (j RenderJob) Execute() (RenderedMessage, error) {
	if j.JobID == "" {
		return RenderedMessage{}, fmt.Errorf("render job: missing job_id")
	}
	if err := j.Template.Validate(); err != nil {
		return RenderedMessage{}, fmt.Errorf("render job %s: %w", j.JobID, err)
	}

	return RenderedMessage{
		JobID:     j.JobID,
		Recipient: j.Recipient,
		Rendered:  j.Template.Render(j.Context),
	}, nil
}
