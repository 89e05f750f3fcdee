package ingestion

import (
	"regexp"
	"strings"

	"github.com/hearthside/mailroom/internal/enum"
	"github.com/hearthside/mailroom/internal/utils"
)

var (
	updateAddressRe  = regexp.MustCompile(`^update-([0-9a-fA-F-]+)@`)
	memorySubjectRe  = regexp.MustCompile(`(?i)^memory\s+for\s+([^:]{1,50}):\s*(.*)$`)
	hasLetterRe      = regexp.MustCompile(`\p{L}`)
	maxChildNameRune = 50
)

// IntentRouter decides what an inbound email is for based solely on the
// destination address. Routing never inspects the body; the subject is
// only parsed once the memory route is already chosen.
type IntentRouter struct {
	memoryAddress string
}

func NewIntentRouter(memoryAddress string) *IntentRouter {
	return &IntentRouter{memoryAddress: strings.ToLower(memoryAddress)}
}

// Route classifies the destination. The To header may carry a display
// name and several comma-separated recipients; the first address that
// matches a known pattern wins.
func (r *IntentRouter) Route(to, subject string) RoutingDecision {
	for _, candidate := range strings.Split(to, ",") {
		address := utils.ExtractEmailAddress(candidate)
		if address == "" {
			continue
		}

		if strings.Contains(address, r.memoryAddress) {
			decision := RoutingDecision{
				Kind:       enum.RouteMemory,
				RawAddress: address,
			}
			decision.ChildNameHint, decision.Subject = parseMemorySubject(subject)
			return decision
		}

		if match := updateAddressRe.FindStringSubmatch(address); match != nil {
			return RoutingDecision{
				Kind:       enum.RouteResponse,
				UpdateID:   match[1],
				Subject:    subject,
				RawAddress: address,
			}
		}
	}

	return RoutingDecision{
		Kind:       enum.RouteUnknown,
		Subject:    subject,
		RawAddress: utils.ExtractEmailAddress(to),
	}
}

// parseMemorySubject recognizes the "Memory for {name}: {rest}" shape.
// The name must stay short and contain at least one letter; anything
// else leaves the subject whole with no child hint.
func parseMemorySubject(subject string) (childName, remainder string) {
	match := memorySubjectRe.FindStringSubmatch(strings.TrimSpace(subject))
	if match == nil {
		return "", subject
	}

	name := strings.TrimSpace(match[1])
	if name == "" || len([]rune(name)) > maxChildNameRune || !hasLetterRe.MatchString(name) {
		return "", subject
	}

	return name, strings.TrimSpace(match[2])
}
