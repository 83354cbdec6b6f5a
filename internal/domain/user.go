package domain

import "time"

// Role enumerates dashboard roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
	RoleRealtor    Role = "realtor"
	RoleSupport    Role = "support"
	RoleQA         Role = "qa"
	RoleSales      Role = "sales"
)

var validRoles = map[Role]struct{}{
	RoleAdmin:      {},
	RoleSuperAdmin: {},
	RoleRealtor:    {},
	RoleSupport:    {},
	RoleQA:         {},
	RoleSales:      {},
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, ok := validRoles[r]
	return ok
}

// User is the domain model for every authenticated principal.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
