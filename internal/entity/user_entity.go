package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER"
	UserRoleAdmin    UserRole = "ADMIN"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Actor is the authenticated caller of an operation. It is resolved once at the
// HTTP boundary and passed explicitly to anything that needs authorization.
type Actor struct {
	Id   uuid.UUID
	Role UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == UserRoleAdmin
}
