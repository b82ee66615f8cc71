package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the single derived role tag attached to a user.
type Role string

const (
	RoleUnassigned Role = "unassigned"
	RoleMentor     Role = "mentor"
	RoleStudent    Role = "student"
	RoleFounder    Role = "founder"
)

// User is the local record for an identity-provider user.
// Created on first authenticated request, refreshed on subsequent ones.
type User struct {
	ID        uuid.UUID `json:"id"`
	ClerkID   string    `json:"clerkId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RoleContext is the resolved per-request view of the caller: the local
// user plus whichever role profiles exist for them. Any of the profile
// pointers may be nil.
type RoleContext struct {
	User    *User
	Mentor  *MentorProfile
	Student *StudentProfile
	Founder *FounderProfile
}

// ActiveRole returns the first present role in mentor > student > founder
// priority order, or RoleUnassigned when no profile exists.
func (rc *RoleContext) ActiveRole() Role {
	switch {
	case rc.Mentor != nil:
		return RoleMentor
	case rc.Student != nil:
		return RoleStudent
	case rc.Founder != nil:
		return RoleFounder
	default:
		return RoleUnassigned
	}
}

// HasRole reports whether the context holds a profile for the given role.
func (rc *RoleContext) HasRole(role Role) bool {
	switch role {
	case RoleMentor:
		return rc.Mentor != nil
	case RoleStudent:
		return rc.Student != nil
	case RoleFounder:
		return rc.Founder != nil
	default:
		return false
	}
}
