package models

import "time"

// UserProfile is the display profile of an identity.
type UserProfile struct {
	Name string `json:"name" validate:"required"`
}

// StoredProfile is the persisted form of a UserProfile.
type StoredProfile struct {
	Principal string    `db:"principal"`
	Name      string    `db:"name"`
	UpdatedAt time.Time `db:"updated_at"`
}
