// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sakif/jobs-api/internal/apperror"
)

// User field limits.
const (
	MinNameLength     = 3
	MaxNameLength     = 50
	MinPasswordLength = 6
)

// emailPattern is deliberately loose: one "@", no whitespace, a dotted domain
// with a 2+ letter TLD.
var emailPattern = regexp.MustCompile(`^[^\s@<>()\[\]\\,;:"]+@([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}$`)

// User represents a registered account.
//
// WHY PasswordHash HAS json:"-":
// The hash must never leave the server. Tagging it with "-" makes
// encoding/json skip the field entirely, so even a handler that accidentally
// serialises a whole User cannot leak it.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// NormalizeEmail trims whitespace and lower-cases an address so uniqueness
// checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks the user fields and the raw password before it
// is hashed. All violations are collected, not just the first one.
func (u *User) ValidateRegistration(rawPassword string) error {
	var violations []apperror.Violation

	nameLen := utf8.RuneCountInString(u.Name)
	switch {
	case u.Name == "":
		violations = append(violations, apperror.Violation{Field: "name", Message: "Please provide name"})
	case nameLen < MinNameLength:
		violations = append(violations, apperror.Violation{Field: "name",
			Message: fmt.Sprintf("Name must be at least %d characters", MinNameLength)})
	case nameLen > MaxNameLength:
		violations = append(violations, apperror.Violation{Field: "name",
			Message: fmt.Sprintf("Name must be %d characters or less", MaxNameLength)})
	}

	switch {
	case u.Email == "":
		violations = append(violations, apperror.Violation{Field: "email", Message: "Please provide email"})
	case !emailPattern.MatchString(u.Email):
		violations = append(violations, apperror.Violation{Field: "email", Message: "Please provide a valid email"})
	}

	switch {
	case rawPassword == "":
		violations = append(violations, apperror.Violation{Field: "password", Message: "Please provide password"})
	case len(rawPassword) < MinPasswordLength:
		violations = append(violations, apperror.Violation{Field: "password",
			Message: fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)})
	}

	if len(violations) > 0 {
		return apperror.ValidationFailed(violations...)
	}
	return nil
}

// PublicProfile is the part of a user returned by register and login.
type PublicProfile struct {
	Name string `json:"name"`
}

// Profile returns the public view of the user.
func (u *User) Profile() PublicProfile {
	return PublicProfile{Name: u.Name}
}
