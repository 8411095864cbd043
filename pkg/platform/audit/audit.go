// Package audit captures structured audit events for registration decisions
// and admin changes. Events are transport-agnostic so stores and sinks can
// fan out.
package audit

import (
	"context"
	"log/slog"
	"time"
)

// Event is emitted from domain logic to capture key actions.
type Event struct {
	Timestamp      time.Time `json:"timestamp"`
	Action         Action    `json:"action"`
	Actor          string    `json:"actor"`
	RegistrationID string    `json:"registration_id,omitempty"`
	MemberID       string    `json:"member_id,omitempty"`
	ClubID         string    `json:"club_id,omitempty"`
	Season         int       `json:"season,omitempty"`
	RequestID      string    `json:"request_id,omitempty"`
	Detail         string    `json:"detail,omitempty"`
}

type Action string

const (
	EventRegistrationCommitted Action = "registration_committed"
	EventRegistrationApproved  Action = "registration_approved"
	EventRegistrationRejected  Action = "registration_rejected"
	EventCommitRolledBack      Action = "commit_rolled_back"
	EventMemberCreated         Action = "member_created"
	EventMemberRenewed         Action = "member_renewed"
	EventAssociationCreated    Action = "association_created"
	EventClubCreated           Action = "club_created"
	EventFeesUpdated           Action = "fees_updated"
)

// Store is an append-only audit sink with a lookup for admin review.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subjectID string) ([]Event, error)
}

// Publisher pushes events to an external sink (Kafka in production).
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Recorder persists every event and optionally fans it out to a publisher.
// Publish failures are logged and swallowed: the audit trail of record is the
// store, the stream is best-effort.
type Recorder struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
}

func NewRecorder(store Store, publisher Publisher, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, publisher: publisher, logger: logger}
}

func (r *Recorder) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := r.store.Append(ctx, event); err != nil {
		return err
	}
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, event); err != nil && r.logger != nil {
			r.logger.WarnContext(ctx, "audit publish failed",
				"action", event.Action,
				"error", err,
			)
		}
	}
	return nil
}

func (r *Recorder) List(ctx context.Context, subjectID string) ([]Event, error) {
	return r.store.ListBySubject(ctx, subjectID)
}
