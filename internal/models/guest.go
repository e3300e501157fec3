package models

import (
	"time"

	"github.com/google/uuid"
)

// GuestResponse is an RSVP / guestbook entry, optionally linked to an invitation.
type GuestResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Message      string     `json:"message"`
	IsAttending  bool       `json:"isAttending"`
	InvitationID *uuid.UUID `json:"invitationId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// InvitationRef summarises the invitation a guest response belongs to.
type InvitationRef struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	GroomName string    `json:"groomName"`
	BrideName string    `json:"brideName"`
}

// GuestResponseWithInvitation is a guest response annotated for the global admin view.
type GuestResponseWithInvitation struct {
	GuestResponse
	Invitation *InvitationRef `json:"invitation,omitempty"`
}

// GuestWish is the public projection shown on an invitation page.
type GuestWish struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Message     string    `json:"message"`
	IsAttending bool      `json:"isAttending"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToWish strips the fields not shown publicly.
func (g *GuestResponse) ToWish() GuestWish {
	return GuestWish{ID: g.ID, Name: g.Name, Message: g.Message, IsAttending: g.IsAttending, CreatedAt: g.CreatedAt}
}
