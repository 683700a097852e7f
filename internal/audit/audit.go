// Package audit captures key storefront actions for operational visibility.
// Events are emitted from domain logic, queued through a channel, and
// persisted by a background worker so request paths never block on sinks.
package audit

import (
	"context"
	"log/slog"
	"time"

	"unitrader/pkg/domain"
)

// Action names one auditable storefront event.
type Action string

const (
	ActionUserSignedIn     Action = "user_signed_in"
	ActionAuthRejected     Action = "auth_rejected"
	ActionCartItemAdded    Action = "cart_item_added"
	ActionCheckoutStarted  Action = "checkout_started"
	ActionPaymentCompleted Action = "payment_completed"
	ActionProfileViewed    Action = "profile_viewed"
)

// Event is emitted from domain logic to capture one action. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time     `json:"timestamp"`
	Action    Action        `json:"action"`
	UserID    domain.UserID `json:"user_id,omitempty"`
	SessionID string        `json:"session_id,omitempty"`
	Subject   string        `json:"subject,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Recorder hands events to the worker without blocking the caller. A full
// inbox drops the event with a warning; audit loss is preferable to stalling
// a checkout.
type Recorder struct {
	inbox  chan<- Event
	logger *slog.Logger
}

func NewRecorder(inbox chan<- Event, logger *slog.Logger) *Recorder {
	return &Recorder{inbox: inbox, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case r.inbox <- event:
	default:
		r.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action,
			"user_id", event.UserID,
		)
	}
}

// Worker consumes audit events from the inbox and persists them. One worker
// per process keeps append ordering deterministic.
type Worker struct {
	store Store
	inbox <-chan Event
}

func NewWorker(store Store, inbox <-chan Event) *Worker {
	return &Worker{store: store, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}
