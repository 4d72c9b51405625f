package auth

import "github.com/gachwala/storefront/internal/model"

// Gate is a predicate over a verified identity's role.
type Gate func(model.Role) bool

func AnyRole(role model.Role) bool { return role.Valid() }

func IsAdmin(role model.Role) bool {
	return role == model.RoleAdmin || role == model.RoleMasterAdmin
}

func IsMasterAdmin(role model.Role) bool { return role == model.RoleMasterAdmin }
