package model

import "time"

// Role values stored in users.role.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// User is an account that can purchase tickets.  ADMIN accounts
// additionally manage the catalog and may cancel or admit any ticket.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – login identifier, stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  FullName     – optional display name.
//  Role         – CUSTOMER or ADMIN.
//  IsActive     – account enabled flag.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FullName     string    // users.full_name
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
