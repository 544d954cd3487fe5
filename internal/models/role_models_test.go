package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCan(t *testing.T) {
	assert.True(t, RoleAdmin.Can(OpManageRestaurants))
	assert.True(t, RoleSuperAdmin.Can(OpManageRestaurants))
	assert.False(t, RoleOwner.Can(OpManageRestaurants))
	assert.False(t, RoleUser.Can(OpManageRestaurants))

	assert.True(t, RoleOwner.Can(OpManageProducts))
	assert.True(t, RoleOwner.Can(OpCreateOrder))
	assert.False(t, RoleUser.Can(OpCreateOrder))
	assert.False(t, RoleUser.Can(OpViewNotifications))

	assert.False(t, RoleAdmin.Can(Operation("unknown.op")))
}

func TestRoleElevated(t *testing.T) {
	assert.True(t, RoleSuperAdmin.Elevated())
	assert.True(t, RoleAdmin.Elevated())
	assert.False(t, RoleOwner.Elevated())
	assert.False(t, RoleUser.Elevated())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleOwner.Valid())
	assert.False(t, Role("MANAGER").Valid())
	assert.False(t, Role("").Valid())
}

func TestProfileManagesRestaurant(t *testing.T) {
	p := UserProfile{ID: "u1", Role: RoleOwner, ManagedRestaurantIDs: []string{"r1", "r2"}}
	assert.True(t, p.ManagesRestaurant("r1"))
	assert.True(t, p.ManagesRestaurant("r2"))
	assert.False(t, p.ManagesRestaurant("r3"))
}
