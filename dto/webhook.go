package dto

import "github.com/hearthside/mailroom/internal/enum"

// InboundEmailResponse is the JSON body returned to the email relay.
type InboundEmailResponse struct {
	Success  bool           `json:"success"`
	Type     enum.RouteKind `json:"type"`
	EntityID string         `json:"entity_id,omitempty"`
	Error    string         `json:"error,omitempty"`
	Details  string         `json:"details,omitempty"`
}
