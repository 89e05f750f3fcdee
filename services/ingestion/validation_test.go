package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hearthside/mailroom/internal/enum"
	"github.com/hearthside/mailroom/internal/errs"
)

func TestValidatePolicy_SPFFail(t *testing.T) {
	gate := NewValidationGate()
	msg := &InboundEmailMessage{SPF: "fail", Subject: "hello", Text: "ok"}

	err := gate.ValidatePolicy(msg)

	assert.ErrorIs(t, err, errs.ErrSenderAuthFailed)
}

func TestValidatePolicy_SPFAbsentPasses(t *testing.T) {
	gate := NewValidationGate()
	msg := &InboundEmailMessage{Subject: "hello", Text: "ok"}

	assert.NoError(t, gate.ValidatePolicy(msg))
}

func TestValidatePolicy_SubjectTooLong(t *testing.T) {
	gate := NewValidationGate()
	msg := &InboundEmailMessage{Subject: strings.Repeat("s", MaxSubjectLength+1)}

	assert.ErrorIs(t, gate.ValidatePolicy(msg), errs.ErrSubjectTooLong)
}

func TestValidatePolicy_SubjectInjection(t *testing.T) {
	gate := NewValidationGate()

	tests := []string{
		"nice day <SCRIPT>alert(1)</script>",
		"click javascript:alert(1)",
	}
	for _, subject := range tests {
		msg := &InboundEmailMessage{Subject: subject}
		assert.ErrorIs(t, gate.ValidatePolicy(msg), errs.ErrSubjectUnsafe)
	}
}

func TestValidatePolicy_BodyTooLong(t *testing.T) {
	gate := NewValidationGate()
	msg := &InboundEmailMessage{Subject: "ok", Text: strings.Repeat("b", MaxBodyLength+1)}

	assert.ErrorIs(t, gate.ValidatePolicy(msg), errs.ErrContentTooLong)
}

func TestValidateMemoryContent(t *testing.T) {
	gate := NewValidationGate()

	assert.ErrorIs(t, gate.ValidateMemoryContent("", "  ", nil), errs.ErrNothingToRecord)
	assert.NoError(t, gate.ValidateMemoryContent("subject only", "", nil))
	assert.NoError(t, gate.ValidateMemoryContent("", "content only", nil))
	assert.NoError(t, gate.ValidateMemoryContent("", "", []string{"https://media.test/a.jpg"}))
}

func TestAuthResult(t *testing.T) {
	assert.Equal(t, enum.AuthAbsent, (&InboundEmailMessage{}).AuthResult())
	assert.Equal(t, enum.AuthFail, (&InboundEmailMessage{SPF: " FAIL "}).AuthResult())
	assert.Equal(t, enum.AuthPass, (&InboundEmailMessage{SPF: "pass"}).AuthResult())
	assert.Equal(t, enum.AuthPass, (&InboundEmailMessage{SPF: "neutral"}).AuthResult())
}

func TestDedupeID(t *testing.T) {
	withID := &InboundEmailMessage{MessageID: "abc@mail.example.com"}
	assert.Equal(t, "abc@mail.example.com", withID.DedupeID())

	withoutID := &InboundEmailMessage{From: "a@b.c", To: "memory@x.y", Subject: "s", Text: "t"}
	synthetic := withoutID.DedupeID()
	assert.True(t, strings.HasPrefix(synthetic, "synthetic."))
	// stable across calls
	assert.Equal(t, synthetic, withoutID.DedupeID())
}
