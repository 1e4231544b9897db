package templates

import (
	"errors"
	"fmt"
)

// Channel is the template type tag.
type Channel string

const (
	ChannelEmail     Channel = "email"
	ChannelInstagram Channel = "instagram"
	ChannelTikTok    Channel = "tiktok"
	ChannelLinkedIn  Channel = "linkedin"
	ChannelVoicemail Channel = "voicemail"
)

var (
	ErrUnknownChannel    = errors.New("unknown template type")
	ErrSubjectNotAllowed = errors.New("subject is only supported on email templates")
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelInstagram, ChannelTikTok, ChannelLinkedIn, ChannelVoicemail:
		return true
	}
	return false
}

// Template is an authored message. Rendering never modifies it.
type Template struct {
	Name    string  `json:"name"`
	Type    Channel `json:"type"`
	Subject string  `json:"subject,omitempty"`
	Body    string  `json:"body"`
}

// Rendered is a template resolved for one recipient. Unresolved lists the
// distinct placeholders that had no value, across subject and body.
type Rendered struct {
	Name       string   `json:"name,omitempty"`
	Type       Channel  `json:"type"`
	Subject    string   `json:"subject,omitempty"`
	Body       string   `json:"body"`
	Unresolved []string `json:"unresolved,omitempty"`
}

// Validate checks the type tag and that only email templates carry a subject.
func (t Template) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("template %q: %w: %q", t.Name, ErrUnknownChannel, t.Type)
	}
	if t.Subject != "" && t.Type != ChannelEmail {
		return fmt.Errorf("template %q: %w", t.Name, ErrSubjectNotAllowed)
	}
	return nil
}

// Render resolves the subject (email only) and body against ctx.
func (t Template) Render(ctx RenderContext) Rendered {
	out := Rendered{Name: t.Name, Type: t.Type}

	var warnings []UnresolvedPlaceholder
	if t.Type == ChannelEmail && t.Subject != "" {
		subject := RenderStrict(t.Subject, ctx)
		out.Subject = subject.Value
		warnings = append(warnings, subject.Warnings...)
	}

	body := RenderStrict(t.Body, ctx)
	out.Body = body.Value
	warnings = append(warnings, body.Warnings...)

	seen := make(map[string]bool, len(warnings))
	for _, w := range warnings {
		if !seen[w.Name] {
			seen[w.Name] = true
			out.Unresolved = append(out.Unresolved, w.Name)
		}
	}
	return out
}
