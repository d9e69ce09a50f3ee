package domain

import "time"

// InquiryStatus tracks triage state of a customer inquiry.
type InquiryStatus string

const (
	InquiryStatusPending  InquiryStatus = "pending"
	InquiryStatusAnswered InquiryStatus = "answered"
	InquiryStatusClosed   InquiryStatus = "closed"
)

// ValidInquiryStatus reports whether s is a known status.
func ValidInquiryStatus(s InquiryStatus) bool {
	switch s {
	case InquiryStatusPending, InquiryStatusAnswered, InquiryStatusClosed:
		return true
	}
	return false
}

// Inquiry is a contact-form submission, optionally linked to a signed-in
// user and to the product it asks about.
type Inquiry struct {
	ID           string        `json:"id"`
	ReferenceKey string        `json:"reference_key"`
	UserID       *string       `json:"user_id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        *string       `json:"phone"`
	ProductID    *string       `json:"product_id"`
	Message      string        `json:"message"`
	Status       InquiryStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
