package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanEmailContent_CutsQuotedReply(t *testing.T) {
	body := "Walked to the park today.\n\nOn Mon, Aug 4, 2025 at 9:12 AM Grandma <grandma@example.com> wrote:\n> So glad to hear it!\n> Love you all"

	cleaned := CleanEmailContent(body)

	assert.Equal(t, "Walked to the park today.", cleaned)
	assert.NotContains(t, cleaned, "wrote:")
	assert.NotContains(t, cleaned, "Love you all")
}

func TestCleanEmailContent_DropsHeaderEcho(t *testing.T) {
	body := "From: grandma@example.com\nSubject: Re: weekly update\n\nShe took her first steps!"

	cleaned := CleanEmailContent(body)

	assert.Equal(t, "She took her first steps!", cleaned)
}

func TestCleanEmailContent_DropsMobileSignatures(t *testing.T) {
	body := "Short note from the car.\n\nSent from my iPhone"

	cleaned := CleanEmailContent(body)

	assert.Equal(t, "Short note from the car.", cleaned)
}

func TestCleanEmailContent_DropsTrailingSignature(t *testing.T) {
	body := "See the attached photos.\n-- \nJane Doe\n555-0123"

	cleaned := CleanEmailContent(body)

	assert.Equal(t, "See the attached photos.", cleaned)
	assert.NotContains(t, cleaned, "Jane Doe")
}

func TestCleanEmailContent_StripsHTML(t *testing.T) {
	body := "<div><p>First day of school.</p><br><p>He was so excited &amp; brave.</p></div>"

	cleaned := CleanEmailContent(body)

	assert.Contains(t, cleaned, "First day of school.")
	assert.Contains(t, cleaned, "He was so excited & brave.")
	assert.NotContains(t, cleaned, "<p>")
	assert.NotContains(t, cleaned, "&amp;")
}

func TestCleanEmailContent_SkipsQuotedAndRuleLines(t *testing.T) {
	body := "\n\n> earlier message\n-----\nActual content here.\n> more quoting"

	cleaned := CleanEmailContent(body)

	assert.Equal(t, "Actual content here.", cleaned)
}

func TestCleanEmailContent_StopsAtReplyHeaderAfterContent(t *testing.T) {
	body := "New content first.\nSent: Monday, August 4, 2025\nleaked quoted text"

	cleaned := CleanEmailContent(body)

	assert.Equal(t, "New content first.", cleaned)
	assert.NotContains(t, cleaned, "leaked")
}

func TestCleanEmailContent_TruncatesToCap(t *testing.T) {
	body := strings.Repeat("a", 5000)

	cleaned := CleanEmailContent(body)

	assert.Len(t, cleaned, MaxCleanContentLength)
}

func TestCleanEmailContent_EmptyAndWhitespaceOnly(t *testing.T) {
	assert.Equal(t, "", CleanEmailContent(""))
	assert.Equal(t, "", CleanEmailContent("  \n\n\t  \n"))
}

func TestCleanEmailContent_CollapsesBlankRuns(t *testing.T) {
	body := "First paragraph.\n\n\n\n\nSecond paragraph."

	cleaned := CleanEmailContent(body)

	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", cleaned)
}
