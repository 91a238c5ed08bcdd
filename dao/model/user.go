package model

import (
	"gorm.io/gorm"
)

// User is the basic entity of the system
type User struct {
	gorm.Model
	Name     string  `gorm:"uniqueIndex;type:varchar(32);not null;comment:用户名"`
	Email    string  `gorm:"uniqueIndex;type:varchar(128);not null;comment:邮箱"`
	Password *string `gorm:"type:varchar(128);comment:密码"`
	// Every user holds at least one role after creation; the role exchange
	// operation replaces the whole set with a single role.
	Roles []Role `gorm:"many2many:user_roles"`
}

// Role is a row of the closed role table, resolved by name lookup.
type Role struct {
	gorm.Model
	Name RoleName `gorm:"uniqueIndex;type:varchar(32);not null;comment:角色名 (USER, ADMIN)"`
}

// RoleNames flattens the user's role set for tokens and policy checks.
func (u *User) RoleNames() []RoleName {
	names := make([]RoleName, len(u.Roles))
	for i := range u.Roles {
		names[i] = u.Roles[i].Name
	}
	return names
}
