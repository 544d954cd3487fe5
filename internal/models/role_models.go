package models

// Role is the closed set of account roles. The profile record is the only
// source of truth for a user's role; token claims are treated as hints.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleOwner      Role = "OWNER"
	RoleUser       Role = "USER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleOwner, RoleUser:
		return true
	}
	return false
}

// Elevated reports whether the role bypasses per-restaurant ownership checks.
func (r Role) Elevated() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// Operation is a key into the capability table. Route groups and services
// gate on operations rather than hard-coding role lists at every call site.
type Operation string

const (
	OpManageRestaurants Operation = "admin.manage_restaurants"
	OpManageProducts    Operation = "owner.manage_products"
	OpAdjustStock       Operation = "owner.adjust_stock"
	OpViewRestaurants   Operation = "owner.view_restaurants"
	OpCreateOrder       Operation = "orders.create"
	OpViewOrders        Operation = "orders.view"
	OpUpdateOrderStatus Operation = "orders.update_status"
	OpViewNotifications Operation = "notifications.view"
	OpViewStats         Operation = "system.view_stats"
)

// rolePermissions maps each operation to the roles allowed to perform it.
var rolePermissions = map[Operation][]Role{
	OpManageRestaurants: {RoleAdmin, RoleSuperAdmin},
	OpManageProducts:    {RoleOwner, RoleAdmin, RoleSuperAdmin},
	OpAdjustStock:       {RoleOwner, RoleAdmin, RoleSuperAdmin},
	OpViewRestaurants:   {RoleOwner, RoleAdmin, RoleSuperAdmin},
	OpCreateOrder:       {RoleOwner, RoleAdmin, RoleSuperAdmin},
	OpViewOrders:        {RoleOwner, RoleAdmin, RoleSuperAdmin},
	OpUpdateOrderStatus: {RoleOwner, RoleAdmin, RoleSuperAdmin},
	OpViewNotifications: {RoleOwner, RoleAdmin, RoleSuperAdmin},
	OpViewStats:         {RoleOwner, RoleAdmin, RoleSuperAdmin},
}

// Can reports whether the role may perform the operation.
func (r Role) Can(op Operation) bool {
	allowed, ok := rolePermissions[op]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// Actor identifies the authenticated caller for a request. It is built by
// the auth middleware from the session plus the stored profile, and passed
// explicitly into every service call.
type Actor struct {
	UserID string
	Role   Role
}
