package scan

import (
	"time"

	"github.com/google/uuid"

	"github.com/pulzar/backend/internal/domain/scan"
)

// SubmitScanRequest represents a raw scanner read or pasted value
type SubmitScanRequest struct {
	Value string `json:"value" binding:"required,max=2000"`
}

// SubmitScanResponse acknowledges a scan submission. IdentifierID and ItemID
// are set when the value resolved synchronously to a known identifier.
type SubmitScanResponse struct {
	EventID      uuid.UUID  `json:"event_id"`
	Status       string     `json:"status"`
	IdentifierID *uuid.UUID `json:"identifier_id,omitempty"`
	ItemID       *uuid.UUID `json:"item_id,omitempty"`
}

// EventResponse represents a scan event in API responses
type EventResponse struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	Status    string         `json:"status"`
	UserID    string         `json:"user_id,omitempty"`
	Payload   scan.Payload   `json:"payload"`
	Analysis  *scan.Analysis `json:"analysis,omitempty"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// EventListFilter represents filter options for the event list
type EventListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToEventResponse converts a domain Event to EventResponse
func ToEventResponse(e *scan.Event) (EventResponse, error) {
	content, err := e.DecodeContent()
	if err != nil {
		return EventResponse{}, err
	}
	return EventResponse{
		ID:        e.ID,
		Type:      e.Type,
		Status:    string(content.Status),
		UserID:    content.UserID,
		Payload:   content.Payload,
		Analysis:  content.Analysis,
		Error:     content.Error,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}, nil
}

// ToEventResponses converts a slice of domain Events, skipping events whose
// content blob cannot be decoded
func ToEventResponses(events []scan.Event) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		response, err := ToEventResponse(&events[i])
		if err != nil {
			continue
		}
		responses = append(responses, response)
	}
	return responses
}
