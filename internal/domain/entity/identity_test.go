package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIdentity_RoleHelpers(t *testing.T) {
	user := &User{
		Admin:         true,
		FarmerProfile: &FarmerProfile{ID: uuid.New()},
		BuyerProfile:  &BuyerProfile{ID: uuid.New()},
	}

	admin := &Identity{User: user, Role: RoleAdmin}
	assert.True(t, admin.IsAdmin())
	_, ok := admin.Farmer()
	assert.False(t, ok)

	farmer := &Identity{User: user, Role: RoleFarmer}
	assert.False(t, farmer.IsAdmin())
	profile, ok := farmer.Farmer()
	assert.True(t, ok)
	assert.Equal(t, user.FarmerProfile.ID, profile.ID)
	_, ok = farmer.Buyer()
	assert.False(t, ok)

	buyer := &Identity{User: user, Role: RoleBuyer}
	buyerProfile, ok := buyer.Buyer()
	assert.True(t, ok)
	assert.Equal(t, user.BuyerProfile.ID, buyerProfile.ID)

	// Holding the role flag without the profile row grants nothing.
	bare := &Identity{User: &User{}, Role: RoleFarmer}
	_, ok = bare.Farmer()
	assert.False(t, ok)
}

func TestUser_HasRole(t *testing.T) {
	user := &User{}
	assert.False(t, user.HasRole(RoleAdmin))
	assert.False(t, user.HasRole(RoleFarmer))
	assert.False(t, user.HasRole(RoleBuyer))
	assert.False(t, user.HasRole(Role("wizard")))

	user.Admin = true
	user.FarmerProfile = &FarmerProfile{}
	assert.True(t, user.HasRole(RoleAdmin))
	assert.True(t, user.HasRole(RoleFarmer))
	assert.False(t, user.HasRole(RoleBuyer))
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleFarmer.IsValid())
	assert.True(t, RoleBuyer.IsValid())
	assert.False(t, Role("wizard").IsValid())
	assert.False(t, Role("").IsValid())
}
