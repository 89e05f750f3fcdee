package ingestion

import (
	"strings"

	"github.com/hearthside/mailroom/internal/enum"
	"github.com/hearthside/mailroom/internal/errs"
)

const (
	MaxSubjectLength = 200
	MaxBodyLength    = 10000
)

var subjectInjectionMarkers = []string{"<script", "javascript:"}

// ValidationGate rejects submissions that fail sender-authentication or
// content policy. Policy checks run before any media work; the emptiness
// check needs the resolved media list so it runs after.
type ValidationGate struct{}

func NewValidationGate() *ValidationGate {
	return &ValidationGate{}
}

// ValidatePolicy enforces the checks that can run on the raw message
// alone. The first violation wins.
func (g *ValidationGate) ValidatePolicy(msg *InboundEmailMessage) error {
	if msg.AuthResult() == enum.AuthFail {
		return errs.ErrSenderAuthFailed
	}

	if len([]rune(msg.Subject)) > MaxSubjectLength {
		return errs.ErrSubjectTooLong
	}

	lowered := strings.ToLower(msg.Subject)
	for _, marker := range subjectInjectionMarkers {
		if strings.Contains(lowered, marker) {
			return errs.ErrSubjectUnsafe
		}
	}

	if len([]rune(msg.Body())) > MaxBodyLength {
		return errs.ErrContentTooLong
	}

	return nil
}

// ValidateMemoryContent rejects a memory that would persist with nothing
// in it. Runs once the subject remainder, cleaned content and media list
// are all known.
func (g *ValidationGate) ValidateMemoryContent(subject, content string, mediaURLs []string) error {
	if strings.TrimSpace(subject) == "" && strings.TrimSpace(content) == "" && len(mediaURLs) == 0 {
		return errs.ErrNothingToRecord
	}
	return nil
}
