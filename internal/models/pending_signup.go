package models

import (
	"time"
)

// PendingSignup is the registration payload parked in the passcode store
// between a passcode request and its verification. The password stays raw
// here; it is only hashed when the signup is promoted to a user record.
type PendingSignup struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	Name      string    `json:"name,omitempty"`
	Password  string    `json:"password"`
	Country   string    `json:"country,omitempty"`
	State     string    `json:"state,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
