package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sakif/jobs-api/internal/apperror"
)

// Job field limits.
const (
	MaxRoleLength    = 100
	MaxCompanyLength = 50
)

// Status is the state of a job application. There are no transition rules:
// any of the three values can be set directly.
type Status string

const (
	StatusInterview Status = "interview"
	StatusPending   Status = "pending"
	StatusDeclined  Status = "declined"
)

// Statuses lists the accepted values in display order.
var Statuses = []Status{StatusInterview, StatusPending, StatusDeclined}

// Valid reports whether s is one of the accepted values.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Job is one tracked job application, owned by exactly one user.
//
// CreatedBy is always the authenticated caller's id. Handlers decode client
// JSON straight into a Job, so a client CAN send "createdBy"; the service
// overwrites it before anything is validated or stored.
type Job struct {
	ID        string    `json:"id"        db:"id"`
	Role      string    `json:"role"      db:"role"`
	Company   string    `json:"company"   db:"company"`
	Status    Status    `json:"status"    db:"status"`
	CreatedBy string    `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Validate runs the full schema check on a job document.
func (j *Job) Validate() error {
	var violations []apperror.Violation
	violations = append(violations, validateRole(j.Role)...)
	violations = append(violations, validateCompany(j.Company)...)
	violations = append(violations, validateStatus(j.Status)...)
	if j.CreatedBy == "" {
		violations = append(violations, apperror.Violation{Field: "createdBy", Message: "Please provide user"})
	}

	if len(violations) > 0 {
		return apperror.ValidationFailed(violations...)
	}
	return nil
}

// JobPatch is a partial update. A nil field means "leave unchanged".
type JobPatch struct {
	Role    *string `json:"role,omitempty"`
	Company *string `json:"company,omitempty"`
	Status  *Status `json:"status,omitempty"`
}

// Normalize trims the string fields in place.
func (p *JobPatch) Normalize() {
	if p.Role != nil {
		trimmed := strings.TrimSpace(*p.Role)
		p.Role = &trimmed
	}
	if p.Company != nil {
		trimmed := strings.TrimSpace(*p.Company)
		p.Company = &trimmed
	}
}

// Apply returns a copy of j with the patch merged in.
func (p JobPatch) Apply(j Job) Job {
	if p.Role != nil {
		j.Role = *p.Role
	}
	if p.Company != nil {
		j.Company = *p.Company
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	return j
}

// Validate checks every field the patch sets.
//
// The stored document already passed Validate, so the merged document is
// valid exactly when each patched field is. That lets stores apply the patch
// in one atomic statement instead of read-modify-write.
func (p JobPatch) Validate() error {
	var violations []apperror.Violation
	if p.Role != nil {
		violations = append(violations, validateRole(*p.Role)...)
	}
	if p.Company != nil {
		violations = append(violations, validateCompany(*p.Company)...)
	}
	if p.Status != nil {
		violations = append(violations, validateStatus(*p.Status)...)
	}

	if len(violations) > 0 {
		return apperror.ValidationFailed(violations...)
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p JobPatch) IsEmpty() bool {
	return p.Role == nil && p.Company == nil && p.Status == nil
}

func validateRole(role string) []apperror.Violation {
	switch {
	case role == "":
		return []apperror.Violation{{Field: "role", Message: "Please provide role"}}
	case utf8.RuneCountInString(role) > MaxRoleLength:
		return []apperror.Violation{{Field: "role",
			Message: fmt.Sprintf("Role must be %d characters or less", MaxRoleLength)}}
	}
	return nil
}

func validateCompany(company string) []apperror.Violation {
	switch {
	case company == "":
		return []apperror.Violation{{Field: "company", Message: "Please provide company"}}
	case utf8.RuneCountInString(company) > MaxCompanyLength:
		return []apperror.Violation{{Field: "company",
			Message: fmt.Sprintf("Company must be %d characters or less", MaxCompanyLength)}}
	}
	return nil
}

func validateStatus(status Status) []apperror.Violation {
	if status.Valid() {
		return nil
	}
	return []apperror.Violation{{Field: "status",
		Message: fmt.Sprintf("`%s` is not a valid status, use one of interview, pending, declined", status)}}
}
