package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"_id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedOn    time.Time `json:"createdOn"`
}

// Profile is the public subset returned alongside an access token.
type Profile struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (u *User) Profile() Profile {
	return Profile{FullName: u.FullName, Email: u.Email}
}
