package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type UserRole string

const (
	RoleFinder UserRole = "finder"
	RoleRenter UserRole = "renter"
	RoleBoth   UserRole = "both"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleFinder, RoleRenter, RoleBoth:
		return true
	}
	return false
}

// User is keyed by the identity provider's uid.
type User struct {
	UID             string      `json:"uid" db:"uid"`
	Email           string      `json:"email" db:"email"`
	Name            string      `json:"name" db:"name"`
	PhoneNumber     null.String `json:"phone_number" db:"phone_number"`
	ProfileImageURL null.String `json:"profile_image_url" db:"profile_image_url"`
	Role            UserRole    `json:"role" db:"role"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	LastLoginAt     null.Time   `json:"last_login_at" db:"last_login_at"`
}

type RegisterUserDTO struct {
	FirebaseUID     string      `json:"firebase_uid" binding:"required"`
	Email           string      `json:"email" binding:"required"`
	Name            string      `json:"name" binding:"required"`
	PhoneNumber     null.String `json:"phone_number"`
	ProfileImageURL null.String `json:"profile_image_url"`
	Role            UserRole    `json:"role" binding:"omitempty,oneof=finder renter both"`
}

// UserPatch carries the profile fields a user may change. A field that is
// absent or null in the request is left untouched.
type UserPatch struct {
	Name            null.String `json:"name"`
	PhoneNumber     null.String `json:"phone_number"`
	ProfileImageURL null.String `json:"profile_image_url"`
	Role            null.String `json:"role"`
}

func (p UserPatch) IsEmpty() bool {
	return !p.Name.Valid && !p.PhoneNumber.Valid && !p.ProfileImageURL.Valid && !p.Role.Valid
}

// ApplyUserPatch returns a copy of u with every supplied field of p applied.
func ApplyUserPatch(u User, p UserPatch) User {
	if p.Name.Valid {
		u.Name = p.Name.String
	}
	if p.PhoneNumber.Valid {
		u.PhoneNumber = p.PhoneNumber
	}
	if p.ProfileImageURL.Valid {
		u.ProfileImageURL = p.ProfileImageURL
	}
	if p.Role.Valid {
		u.Role = UserRole(p.Role.String)
	}
	return u
}
