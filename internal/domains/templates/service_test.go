package templates

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockJobPublisher struct {
	jobs   []RenderJob
	err    error
	failAt int
}

func (m *mockJobPublisher) PublishRenderJob(ctx context.Context, job RenderJob) error {
	if m.err != nil && len(m.jobs) == m.failAt {
		return m.err
	}
	m.jobs = append(m.jobs, job)
	return nil
}

var _ JobPublisher = (*mockJobPublisher)(nil)

func TestService_Render(t *testing.T) {
	svc := NewService(nil, 2)

	out, err := svc.Render(RenderRequest{
		Template: Template{Name: "dm", Type: ChannelInstagram, Body: "Hey {{firstName}}!"},
		Context:  RenderContext{"firstName": "Sam"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Hey Sam!", out.Body)
	assert.Equal(t, ChannelInstagram, out.Type)
}

func TestService_RenderInvalid(t *testing.T) {
	svc := NewService(nil, 2)

	_, err := svc.Render(RenderRequest{Template: Template{Type: ChannelVoicemail, Subject: "no"}})

	assert.ErrorIs(t, err, ErrSubjectNotAllowed)
}

func TestService_Placeholders(t *testing.T) {
	svc := NewService(nil, 2)

	resp := svc.Placeholders(PlaceholdersRequest{
		Subject: "{{firstName}} x {{businessName}}",
		Body:    "{{city}} {{firstName}} {{jobTitle}}",
	})

	assert.Equal(t, []string{"firstName", "businessName", "city", "jobTitle"}, resp.Placeholders)
}

func TestService_Preview(t *testing.T) {
	svc := NewService(nil, 2)

	resp := svc.Preview(PreviewRequest{Body: "**{{firstName}}**", Context: RenderContext{"firstName": "Sam"}})

	assert.Equal(t, "<strong>Sam</strong>", resp.HTML)
}

func TestService_RenderBatch(t *testing.T) {
	svc := NewService(nil, 2)

	resp, err := svc.RenderBatch(context.Background(), RenderBatchRequest{
		Template: Template{Type: ChannelLinkedIn, Body: "Hi {{firstName}}"},
		Contexts: []RenderContext{{"firstName": "A"}, {}, {"firstName": "C"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 3)

	assert.Equal(t, "Hi A", resp.Data[0].Body)
	assert.Equal(t, []string{"firstName"}, resp.Data[1].Unresolved)
	assert.Equal(t, "Hi C", resp.Data[2].Body)
}

func TestService_EnqueueRenderJobs(t *testing.T) {
	pub := &mockJobPublisher{}
	svc := NewService(pub, 2)
	tmpl := Template{Name: "intro", Type: ChannelEmail, Subject: "Hi", Body: "Hi {{firstName}}"}

	resp, err := svc.EnqueueRenderJobs(context.Background(), EnqueueRenderJobsRequest{
		Template: tmpl,
		Recipients: []Recipient{
			{Recipient: "a@x.com", Context: RenderContext{"firstName": "A"}},
			{Recipient: "b@x.com", Context: RenderContext{"firstName": "B"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Queued)
	require.Len(t, pub.jobs, 2)
	assert.Equal(t, []string{pub.jobs[0].JobID, pub.jobs[1].JobID}, resp.JobIDs)
	assert.NotEqual(t, pub.jobs[0].JobID, pub.jobs[1].JobID)
	assert.Equal(t, "b@x.com", pub.jobs[1].Recipient)
	assert.Equal(t, tmpl, pub.jobs[1].Template)
	assert.Equal(t, RenderContext{"firstName": "B"}, pub.jobs[1].Context)
}

func TestService_EnqueueRenderJobsErrors(t *testing.T) {
	valid := Template{Type: ChannelEmail, Body: "x"}
	recipients := []Recipient{{Recipient: "a@x.com"}, {Recipient: "b@x.com"}}
	boom := errors.New("channel closed")

	tests := []struct {
		name      string
		publisher JobPublisher
		req       EnqueueRenderJobsRequest
		wantErr   error
	}{
		{
			name:      "no recipients",
			publisher: &mockJobPublisher{},
			req:       EnqueueRenderJobsRequest{Template: valid},
			wantErr:   ErrNoRecipients,
		},
		{
			name:      "invalid template",
			publisher: &mockJobPublisher{},
			req:       EnqueueRenderJobsRequest{Template: Template{Type: "sms"}, Recipients: recipients},
			wantErr:   ErrUnknownChannel,
		},
		{
			name:    "queue disabled",
			req:     EnqueueRenderJobsRequest{Template: valid, Recipients: recipients},
			wantErr: ErrQueueDisabled,
		},
		{
			name:      "publish fails midway",
			publisher: &mockJobPublisher{err: boom, failAt: 1},
			req:       EnqueueRenderJobsRequest{Template: valid, Recipients: recipients},
			wantErr:   boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := NewService(tt.publisher, 2).EnqueueRenderJobs(context.Background(), tt.req)

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
