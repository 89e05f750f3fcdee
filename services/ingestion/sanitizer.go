package ingestion

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxCleanContentLength caps the cleaned body stored on the domain record.
const MaxCleanContentLength = 2000

var (
	quotedReplyRe    = regexp.MustCompile(`(?is)(^|\n)\s*On\s[^\n]{1,300}?\swrote:.*$`)
	headerEchoRe     = regexp.MustCompile(`(?im)^(From|To|Date|Subject):\s.*$`)
	mobileSigRe      = regexp.MustCompile(`(?im)^(Sent from my .*|Get Outlook for .*)$`)
	trailingSigRe    = regexp.MustCompile(`(?s)\n--\s*\n.*$`)
	blankRunsRe      = regexp.MustCompile(`\n{3,}`)
	horizontalWSRe   = regexp.MustCompile(`[ \t]{2,}`)
	horizontalRuleRe = regexp.MustCompile(`^[-_=]{5,}$`)
	replyHeaderRe    = regexp.MustCompile(`(?i)^(On\s.+\swrote:|From:\s|Sent:\s)`)
)

// cleanRule is one step of the sanitizer. Rules run in declaration order
// and each one is independently testable.
type cleanRule struct {
	name  string
	apply func(string) string
}

var cleanRules = []cleanRule{
	{"cut quoted reply", cutQuotedReply},
	{"drop header echo", dropHeaderEcho},
	{"drop mobile signatures", dropMobileSignatures},
	{"drop trailing signature", dropTrailingSignature},
	{"strip html", stripHTML},
	{"normalize whitespace", normalizeWhitespace},
	{"filter lines", filterLines},
}

// CleanEmailContent reduces a raw plain-text or HTML email body to the
// human-authored content. This is a best-effort heuristic: ambiguous
// input degrades to a shorter or empty result, never an error.
func CleanEmailContent(body string) string {
	for _, rule := range cleanRules {
		body = rule.apply(body)
	}

	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) > MaxCleanContentLength {
		body = string(runes[:MaxCleanContentLength])
	}
	return body
}

// cutQuotedReply drops everything from an "On ... wrote:" marker onward,
// including content on the marker line itself.
func cutQuotedReply(body string) string {
	return quotedReplyRe.ReplaceAllString(body, "")
}

func dropHeaderEcho(body string) string {
	return headerEchoRe.ReplaceAllString(body, "")
}

func dropMobileSignatures(body string) string {
	return mobileSigRe.ReplaceAllString(body, "")
}

// dropTrailingSignature removes a conventional "--" signature block.
func dropTrailingSignature(body string) string {
	return trailingSigRe.ReplaceAllString(body, "")
}

// stripHTML removes markup and decodes entities. Plain text passes
// through unchanged apart from entity decoding.
func stripHTML(body string) string {
	if !strings.ContainsRune(body, '<') {
		return html.UnescapeString(body)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		// Tokenizer-level failure: fall back to the raw text.
		return html.UnescapeString(body)
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div").AppendHtml("\n")
	return doc.Text()
}

func normalizeWhitespace(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	body = blankRunsRe.ReplaceAllString(body, "\n\n")
	body = horizontalWSRe.ReplaceAllString(body, " ")
	return body
}

// filterLines walks the body line by line: leading blanks are skipped
// until real content starts, quoted and horizontal-rule lines are always
// skipped, and the first reply header after real content ends the scan.
func filterLines(body string) string {
	var kept []string
	started := false

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		if !started && trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ">") {
			continue
		}
		if horizontalRuleRe.MatchString(trimmed) {
			continue
		}
		if started && replyHeaderRe.MatchString(trimmed) {
			break
		}

		if trimmed != "" {
			started = true
		}
		if started {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}
