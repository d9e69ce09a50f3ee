package dto

import "github.com/spec-kit/gallery-service/internal/domain"

// InquiryRequest is a contact-form submission.
type InquiryRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	ProductID *string `json:"product_id"`
	Message   string  `json:"message"`
}

// InquiryStatusRequest payload for admin triage.
type InquiryStatusRequest struct {
	Status domain.InquiryStatus `json:"status"`
}
