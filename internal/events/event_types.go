package events

import (
	"time"

	"github.com/spec-kit/gallery-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered       EventType = "user_registered"
	EventInquiryReceived      EventType = "inquiry_received"
	EventInquiryStatusChanged EventType = "inquiry_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// InquiryReceivedPayload payload.
type InquiryReceivedPayload struct {
	ReferenceKey string  `json:"reference_key"`
	Email        string  `json:"email"`
	ProductID    *string `json:"product_id,omitempty"`
}

// InquiryStatusChangedPayload payload.
type InquiryStatusChangedPayload struct {
	ReferenceKey string               `json:"reference_key"`
	OldStatus    domain.InquiryStatus `json:"old_status"`
	NewStatus    domain.InquiryStatus `json:"new_status"`
}
