package model

import (
	"github.com/google/uuid"
)

// Role separates carers (full read/write) from family members (read
// logs, read/write memory book, linked patients only).
type Role string

const (
	RoleCarer  Role = "carer"
	RoleFamily Role = "family"
)

type User struct {
	Base
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	FirstName    string `db:"first_name" json:"first_name"`
	LastName     string `db:"last_name" json:"last_name"`
	Role         Role   `db:"role" json:"role"`
}

func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// FamilyLink grants a family member access to one patient.
type FamilyLink struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Role        Role   `json:"role"`
}

type InviteFamilyRequest struct {
	Email     string    `json:"email" binding:"required,email"`
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
}
