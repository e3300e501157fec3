package guests

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roemah-nenek/undangan/internal/models"
)

// Live feed event types.
const (
	EventGuestCreated = "guest_created"
	EventGuestDeleted = "guest_deleted"
)

// Notifier pushes guestbook events to live viewers of an invitation.
type Notifier interface {
	Publish(ctx context.Context, invitationID uuid.UUID, eventType string, data interface{})
}

// SubmitInput is an RSVP / guestbook submission.
type SubmitInput struct {
	Name         string
	Message      string
	IsAttending  *bool
	InvitationID *uuid.UUID
}

// Service implements the guestbook.
type Service struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates the guestbook service. notifier may be nil.
func NewService(store Store, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, notifier: notifier, logger: logger}
}

// Submit records a response. Attendance defaults to true.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.GuestResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	attending := true
	if in.IsAttending != nil {
		attending = *in.IsAttending
	}
	g, err := s.store.Create(ctx, &models.GuestResponse{
		Name:         name,
		Message:      strings.TrimSpace(in.Message),
		IsAttending:  attending,
		InvitationID: in.InvitationID,
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, g, EventGuestCreated)
	return g, nil
}

// ListAll returns every response across invitations, newest first.
func (s *Service) ListAll(ctx context.Context) ([]models.GuestResponseWithInvitation, error) {
	return s.store.ListAll(ctx)
}

// ListForInvitation returns one invitation's responses, newest first.
func (s *Service) ListForInvitation(ctx context.Context, invitationID uuid.UUID) ([]models.GuestResponse, error) {
	return s.store.ListForInvitation(ctx, invitationID)
}

// DeleteByID removes a response. Any authenticated account may delete any response.
func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	g, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.notify(ctx, g, EventGuestDeleted)
	s.logger.Info("guest response deleted", zap.String("guest_id", id.String()))
	return nil
}

func (s *Service) notify(ctx context.Context, g *models.GuestResponse, eventType string) {
	if s.notifier == nil || g.InvitationID == nil {
		return
	}
	s.notifier.Publish(ctx, *g.InvitationID, eventType, g.ToWish())
}
