package domain

import (
	"strings"
	"time"
)

// ClientStatus is the commercial state of a client.
type ClientStatus string

const (
	ClientActive   ClientStatus = "Active"
	ClientInactive ClientStatus = "Inactive"
)

// Valid reports whether s is a known status.
func (s ClientStatus) Valid() bool {
	return s == ClientActive || s == ClientInactive
}

// Client is a customer record owned by exactly one user.
type Client struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	Status         ClientStatus `json:"status"`
	SensitiveNotes string       `json:"sensitive_notes"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// ClientPatch is a partial update: nil fields are left untouched.
type ClientPatch struct {
	Name           *string
	Email          *string
	Phone          *string
	Status         *ClientStatus
	SensitiveNotes *string
}

// Validate checks every field that is set.
func (p ClientPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return Invalid("name", "must not be empty")
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) == "" {
		return Invalid("email", "must not be empty")
	}
	if p.Phone != nil && strings.TrimSpace(*p.Phone) == "" {
		return Invalid("phone", "must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return Invalid("status", "must be Active or Inactive")
	}
	return nil
}

// Apply merges the set fields onto c. ID and owner are never touched.
func (p ClientPatch) Apply(c *Client) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.SensitiveNotes != nil {
		c.SensitiveNotes = *p.SensitiveNotes
	}
}
