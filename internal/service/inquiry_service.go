package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/gallery-service/internal/domain"
	"github.com/spec-kit/gallery-service/internal/events"
	"github.com/spec-kit/gallery-service/internal/repository"
	apperrors "github.com/spec-kit/gallery-service/pkg/util"
)

// InquiryService handles contact-form submissions and admin triage.
type InquiryService struct {
	inquiries  repository.InquiryRepository
	dispatcher events.Dispatcher
}

// NewInquiryService builds the service.
func NewInquiryService(inquiries repository.InquiryRepository, dispatcher events.Dispatcher) *InquiryService {
	return &InquiryService{inquiries: inquiries, dispatcher: dispatcher}
}

// Submit stores a new inquiry and announces it. userID is nil for
// anonymous submissions.
func (s *InquiryService) Submit(ctx context.Context, inquiry *domain.Inquiry) (*domain.Inquiry, error) {
	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventInquiryReceived, inquiry.ID, events.InquiryReceivedPayload{
		ReferenceKey: inquiry.ReferenceKey,
		Email:        inquiry.Email,
		ProductID:    inquiry.ProductID,
	})
	return inquiry, nil
}

// List returns an inquiry page for the admin dashboard.
func (s *InquiryService) List(ctx context.Context, filter repository.InquiryFilter) ([]domain.Inquiry, int64, error) {
	inquiries, total, err := s.inquiries.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return inquiries, total, nil
}

// UpdateStatus moves an inquiry through triage.
func (s *InquiryService) UpdateStatus(ctx context.Context, id string, status domain.InquiryStatus) (*domain.Inquiry, error) {
	current, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("inquiry")
		}
		return nil, apperrors.MapError(err)
	}

	updated, err := s.inquiries.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("inquiry")
		}
		return nil, apperrors.MapError(err)
	}

	if current.Status != updated.Status {
		s.publish(ctx, events.EventInquiryStatusChanged, updated.ID, events.InquiryStatusChangedPayload{
			ReferenceKey: updated.ReferenceKey,
			OldStatus:    current.Status,
			NewStatus:    updated.Status,
		})
	}
	return updated, nil
}

// Delete removes an inquiry.
func (s *InquiryService) Delete(ctx context.Context, id string) error {
	if err := s.inquiries.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("inquiry")
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Counts reports total and pending inquiry counts for the dashboard.
func (s *InquiryService) Counts(ctx context.Context) (total, pending int64, err error) {
	total, err = s.inquiries.Count(ctx)
	if err != nil {
		return 0, 0, apperrors.MapError(err)
	}
	pending, err = s.inquiries.CountByStatus(ctx, domain.InquiryStatusPending)
	if err != nil {
		return 0, 0, apperrors.MapError(err)
	}
	return total, pending, nil
}

func (s *InquiryService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
