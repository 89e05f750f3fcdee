package ingestion

import (
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"

	"github.com/hearthside/mailroom/internal/enum"
	"github.com/hearthside/mailroom/internal/utils"
)

// InboundEmailMessage is the normalized view of one relay submission.
// Immutable once decoded; it lives for the duration of a single request.
type InboundEmailMessage struct {
	To       string
	From     string // display name stripped, lowercased
	Subject  string
	Text     string
	HTML     string
	Envelope string // raw envelope JSON as posted by the relay
	Charsets string

	SPF  string
	DKIM string

	MessageID  string
	InReplyTo  string
	References string
}

// AuthResult maps the relay's SPF verdict onto the three-valued result the
// validation gate works with. Anything the relay asserted that is not an
// explicit failure counts as pass.
func (m *InboundEmailMessage) AuthResult() enum.AuthResult {
	switch strings.ToLower(strings.TrimSpace(m.SPF)) {
	case "":
		return enum.AuthAbsent
	case "fail":
		return enum.AuthFail
	default:
		return enum.AuthPass
	}
}

// DedupeID is the stable identifier persistence keys on. Prefers the
// provider message-id; synthesizes one when the relay did not forward it.
func (m *InboundEmailMessage) DedupeID() string {
	if id := utils.NormalizeMessageID(m.MessageID); id != "" {
		return id
	}
	return utils.SynthesizeMessageID(m.From, m.To, m.Subject, m.Text+m.HTML)
}

// Body returns the preferred human-authored body: plain text when the
// sender provided one, the HTML part otherwise.
func (m *InboundEmailMessage) Body() string {
	if strings.TrimSpace(m.Text) != "" {
		return m.Text
	}
	return m.HTML
}

// AttachmentDescriptor carries the metadata of one submitted file. The
// payload is a tagged union: either raw bytes from a binary file part or a
// base64 string from the metadata blob, never both as equals — raw bytes
// win when both arrived.
type AttachmentDescriptor struct {
	FieldName   string
	Filename    string
	ContentType string
	Size        int64
	ContentID   string

	raw    []byte
	base64 string
}

func (d *AttachmentDescriptor) SetRaw(data []byte) {
	d.raw = data
}

func (d *AttachmentDescriptor) SetBase64(payload string) {
	d.base64 = payload
}

func (d *AttachmentDescriptor) HasPayload() bool {
	return len(d.raw) > 0 || d.base64 != ""
}

// Data resolves the payload, preferring raw bytes over the base64 form.
func (d *AttachmentDescriptor) Data() ([]byte, error) {
	if len(d.raw) > 0 {
		return d.raw, nil
	}
	if d.base64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(d.base64)
		if err != nil {
			return nil, errors.Wrapf(err, "attachment %s: invalid base64 payload", d.Filename)
		}
		return decoded, nil
	}
	return nil, errors.Errorf("attachment %s: no payload", d.Filename)
}

// RoutingDecision classifies one message from its destination address.
// Derived purely from (to, subject); never mutated after creation.
type RoutingDecision struct {
	Kind          enum.RouteKind
	UpdateID      string // set for RouteResponse
	ChildNameHint string // set for RouteMemory when the subject carried one
	Subject       string // effective subject after hint extraction
	RawAddress    string // set for RouteUnknown
}

// MediaResolution is the outcome of the two-phase media resolver: durable
// URLs in contract order (inline first, then remaining attachments) and
// the HTML body with resolvable cid: references rewritten.
type MediaResolution struct {
	MediaURLs []string
	HTML      string
}

// ProcessingResult is the sole externally observable output of one
// pipeline run.
type ProcessingResult struct {
	Success  bool
	Kind     enum.RouteKind
	EntityID string
	Reason   string // human-readable rejection, empty on success
	Detail   string
}

func rejected(kind enum.RouteKind, reason, detail string) ProcessingResult {
	return ProcessingResult{Kind: kind, Reason: reason, Detail: detail}
}
