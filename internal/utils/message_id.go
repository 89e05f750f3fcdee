package utils

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

func NormalizeMessageID(messageID string) string {
	messageID = strings.TrimSpace(messageID)
	messageID = strings.TrimPrefix(messageID, "<")
	messageID = strings.TrimSuffix(messageID, ">")
	return messageID
}

// SynthesizeMessageID derives a stable identifier for emails that arrive
// without a provider message-id, so redelivery of the same message still
// dedupes. The hash input intentionally excludes receipt time.
func SynthesizeMessageID(from, to, subject, body string) string {
	hash := sha256.Sum256([]byte(from + "|" + to + "|" + subject + "|" + body))
	return fmt.Sprintf("synthetic.%x", hash[:16])
}
