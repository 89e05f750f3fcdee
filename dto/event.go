package dto

import "github.com/hearthside/mailroom/internal/enum"

const (
	EventMemoryCreated   = "memory.created"
	EventResponseCreated = "response.created"
)

type Event struct {
	Event    EventDetails  `json:"event"`
	Metadata EventMetadata `json:"metadata"`
}

type EventDetails struct {
	Id        string      `json:"id"`
	EntityId  string      `json:"entityId"`
	EventType string      `json:"eventType"`
	Data      interface{} `json:"data"`
}

type EventMetadata struct {
	UberTraceId string `json:"uber-trace-id"`
	AppSource   string `json:"appSource"`
	Timestamp   string `json:"timestamp"`
}

type MemoryCreated struct {
	MemoryID  string   `json:"memoryId"`
	ProfileID string   `json:"profileId"`
	ChildID   string   `json:"childId"`
	MediaURLs []string `json:"mediaUrls"`
}

type ResponseCreated struct {
	ResponseID  string       `json:"responseId"`
	UpdateID    string       `json:"updateId"`
	RecipientID string       `json:"recipientId"`
	Channel     enum.Channel `json:"channel"`
}
