package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherRoutesByType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventUserRegistered, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	if err := d.Publish(context.Background(), Event{ID: "1", Type: EventUserRegistered}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := d.Publish(context.Background(), Event{ID: "2", Type: EventInquiryReceived}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 delivered event, got %d", len(got))
	}
	if got[0].ID != "1" {
		t.Fatalf("expected event 1, got %s", got[0].ID)
	}
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()

	d.Subscribe(EventInquiryReceived, func(context.Context, Event) error {
		return errors.New("boom")
	})

	called := false
	d.Subscribe(EventInquiryReceived, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventInquiryReceived})
	if err == nil {
		t.Fatal("expected the handler error to surface")
	}
	if !called {
		t.Fatal("second handler was not invoked after first handler failed")
	}
}
