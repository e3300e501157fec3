package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is an admin who authors invitations.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AccountPublic is Account without sensitive fields for API responses.
type AccountPublic struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ToPublic converts Account to AccountPublic.
func (a *Account) ToPublic() AccountPublic {
	return AccountPublic{ID: a.ID, Name: a.Name, Email: a.Email}
}
