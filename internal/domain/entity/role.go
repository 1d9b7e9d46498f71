// Package entity contains the core business objects of the project.
package entity

// Role represents the role a caller authenticates into.
type Role string

const (
	// RoleAdmin indicates a platform administrator.
	RoleAdmin Role = "admin"
	// RoleFarmer indicates a selling farmer.
	RoleFarmer Role = "farmer"
	// RoleBuyer indicates a purchasing buyer.
	RoleBuyer Role = "buyer"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleFarmer, RoleBuyer:
		return true
	default:
		return false
	}
}
