package models

import (
	"time"
)

type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	Name                string
	JurisdictionCountry *string
	JurisdictionState   *string
	OnboardingComplete  bool
	EmailVerified       bool
	VerifiedAt          *time.Time
	CreatedAt           time.Time
}

// Jurisdiction renders the user's jurisdiction as "Country, State" with
// "Unknown" placeholders for unset parts.
func (u *User) Jurisdiction() string {
	country := "Unknown Country"
	if u.JurisdictionCountry != nil && *u.JurisdictionCountry != "" {
		country = *u.JurisdictionCountry
	}
	state := "Unknown State"
	if u.JurisdictionState != nil && *u.JurisdictionState != "" {
		state = *u.JurisdictionState
	}
	return country + ", " + state
}
