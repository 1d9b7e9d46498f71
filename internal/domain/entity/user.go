// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity in the system, representing a unique account.
// Role-specific data lives in the optional profile extensions: a user with a
// FarmerProfile can sell, a user with a BuyerProfile can buy, and Admin marks
// platform administrators. The profiles are nil when the role is absent.
type User struct {
	ID            uuid.UUID      // The unique identifier for the user.
	Email         string         // The user's login identifier, unique platform-wide.
	Name          string         // The user's display name.
	PasswordHash  string         // bcrypt hash of the user's credential.
	Phone         string         // Optional contact phone number.
	Admin         bool           // True for platform administrators.
	Active        bool           // False when an admin has disabled the account.
	FarmerProfile *FarmerProfile // Farmer role extension; nil if the user is not a farmer.
	BuyerProfile  *BuyerProfile  // Buyer role extension; nil if the user is not a buyer.
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FarmerProfile holds data specific to the farmer role. A farmer starts out
// pending and cannot authenticate into the role until an admin approves them.
type FarmerProfile struct {
	ID        uuid.UUID // The profile's own ID; products and farms reference this, not the user ID.
	UserID    uuid.UUID // Foreign key linking this profile to its User.
	Pending   bool      // True until admin approval; rejection deletes the profile instead.
	Farms     []*Farm   // Farms owned by this farmer.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BuyerProfile holds data specific to the buyer role. Buyers are active
// immediately; there is no approval gate.
type BuyerProfile struct {
	ID            uuid.UUID // The profile's own ID; orders reference this.
	UserID        uuid.UUID // Foreign key linking this profile to its User.
	Address       string    // Registered delivery address, inherited by deliveries.
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Farm is a production site owned by a farmer.
type Farm struct {
	ID        uuid.UUID
	FarmerID  uuid.UUID // Foreign key to the owning FarmerProfile.
	Address   string
	Size      float64 // Size in hectares.
	CreatedAt time.Time
}

// HasRole reports whether the user can act in the given role. It reflects row
// presence only; the farmer pending gate is enforced at authentication.
func (u *User) HasRole(role Role) bool {
	switch role {
	case RoleAdmin:
		return u.Admin
	case RoleFarmer:
		return u.FarmerProfile != nil
	case RoleBuyer:
		return u.BuyerProfile != nil
	default:
		return false
	}
}
