// 定义与数据库表字段对应的常量
// 由于 Gin 框架在进行参数校验时，如果给了 required 标签，则不能传入零值
// 所以在定义常量时，最好将零值排除在外，请使用 iota + 1 定义第一个常量
package model

import "strings"

// RoleName is the closed set of role kinds. Unknown names never resolve.
type RoleName string

const (
	RoleNameUser  RoleName = "USER"
	RoleNameAdmin RoleName = "ADMIN"
)

// ParseRoleName resolves a role by name, case-insensitively.
func ParseRoleName(name string) (RoleName, bool) {
	switch RoleName(strings.ToUpper(name)) {
	case RoleNameUser:
		return RoleNameUser, true
	case RoleNameAdmin:
		return RoleNameAdmin, true
	default:
		return "", false
	}
}

// Project status
type Status uint8

const (
	StatusActive   Status = iota + 1 // Active status
	StatusInactive                   // Inactive status
)
