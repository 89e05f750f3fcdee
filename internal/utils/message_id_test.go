package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMessageID(t *testing.T) {
	assert.Equal(t, "abc@mail.example.com", NormalizeMessageID("<abc@mail.example.com>"))
	assert.Equal(t, "abc@mail.example.com", NormalizeMessageID("  abc@mail.example.com "))
	assert.Equal(t, "", NormalizeMessageID(""))
}

func TestSynthesizeMessageID(t *testing.T) {
	a := SynthesizeMessageID("from@x.y", "to@x.y", "subject", "body")
	b := SynthesizeMessageID("from@x.y", "to@x.y", "subject", "body")
	c := SynthesizeMessageID("from@x.y", "to@x.y", "subject", "different body")

	assert.True(t, strings.HasPrefix(a, "synthetic."))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
