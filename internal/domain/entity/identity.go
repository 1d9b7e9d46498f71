package entity

// Identity is the resolved caller of a request: the freshly loaded User plus
// the single role the credential token was issued for. It is built once by the
// authentication middleware and carried through the request, so downstream
// code never re-checks role flags.
type Identity struct {
	User *User
	Role Role
}

// IsAdmin reports whether the caller authenticated as an administrator.
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin && i.User.Admin
}

// Farmer returns the caller's farmer profile when they authenticated into the
// farmer role. Pending farmers never reach this point; login refuses them.
func (i *Identity) Farmer() (*FarmerProfile, bool) {
	if i.Role != RoleFarmer || i.User.FarmerProfile == nil {
		return nil, false
	}

	return i.User.FarmerProfile, true
}

// Buyer returns the caller's buyer profile when they authenticated into the
// buyer role.
func (i *Identity) Buyer() (*BuyerProfile, bool) {
	if i.Role != RoleBuyer || i.User.BuyerProfile == nil {
		return nil, false
	}

	return i.User.BuyerProfile, true
}
